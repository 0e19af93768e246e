package collection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readshelf/readshelf/models"
	"github.com/readshelf/readshelf/store"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := Open(context.Background(), store.NewMemory(), "user-1")
	m.now = func() time.Time { return testNow }
	return m
}

func TestAddBookDefaults(t *testing.T) {
	m := newTestManager(t)

	book, err := m.AddBook(context.Background(), BookInput{
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
		Status:  models.StatusWishlist,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, models.StatusWishlist, book.Status)
	assert.Equal(t, 0, book.Progress)
	assert.Equal(t, 0, book.Rating)
	assert.Equal(t, testNow.Format(time.RFC3339), book.DateAdded)

	listed := FilterAndSort(m.Books(), Filter{Status: string(models.StatusWishlist)})
	require.Len(t, listed, 1)
	assert.Equal(t, book.ID, listed[0].ID)
}

func TestAddBookValidation(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name  string
		in    BookInput
		field string
	}{
		{"missing title", BookInput{Authors: []string{"A"}}, "title"},
		{"missing authors", BookInput{Title: "T"}, "authors"},
		{"blank authors", BookInput{Title: "T", Authors: []string{"  ", ""}}, "authors"},
		{"bad rating", BookInput{Title: "T", Authors: []string{"A"}, Rating: 9}, "rating"},
		{"bad status", BookInput{Title: "T", Authors: []string{"A"}, Status: "paused"}, "status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.AddBook(context.Background(), tc.in)
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tc.field)
		})
	}
	assert.Empty(t, m.Books())
}

func TestUpdateStartsReading(t *testing.T) {
	m := newTestManager(t)
	book, err := m.AddBook(context.Background(), BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}})
	require.NoError(t, err)

	reading := models.StatusReading
	updated, err := m.UpdateBook(context.Background(), book.ID, BookPatch{Status: &reading})
	require.NoError(t, err)

	assert.Equal(t, models.StatusReading, updated.Status)
	assert.Equal(t, 1, updated.Progress, "entering currently-reading bumps zero progress to 1")
	assert.Equal(t, testNow.Format(time.RFC3339), updated.DateStarted)
	assert.Equal(t, testNow.Format(time.RFC3339), updated.DateModified)
}

func TestUpdateFinishes(t *testing.T) {
	m := newTestManager(t)
	book, err := m.AddBook(context.Background(), BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}, Status: models.StatusReading, Progress: 60})
	require.NoError(t, err)

	finished := models.StatusFinished
	updated, err := m.UpdateBook(context.Background(), book.ID, BookPatch{Status: &finished})
	require.NoError(t, err)

	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, testNow.Format(time.RFC3339), updated.DateFinished)
	assert.Equal(t, "2025", updated.YearRead, "yearRead defaults to the current year")
}

func TestFinishedBookStaysAtFullProgress(t *testing.T) {
	m := newTestManager(t)
	book, err := m.AddBook(context.Background(), BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}, Status: models.StatusFinished})
	require.NoError(t, err)
	require.Equal(t, 100, book.Progress)

	lower := 40
	updated, err := m.UpdateBook(context.Background(), book.ID, BookPatch{Progress: &lower})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress, "finished implies progress 100")
}

func TestUpdateKeepsExplicitYearRead(t *testing.T) {
	m := newTestManager(t)
	book, err := m.AddBook(context.Background(), BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}, YearRead: "2023"})
	require.NoError(t, err)

	finished := models.StatusFinished
	updated, err := m.UpdateBook(context.Background(), book.ID, BookPatch{Status: &finished})
	require.NoError(t, err)
	assert.Equal(t, "2023", updated.YearRead)
}

func TestUpdateUnknownID(t *testing.T) {
	m := newTestManager(t)
	title := "x"
	_, err := m.UpdateBook(context.Background(), "missing", BookPatch{Title: &title})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	book, err := m.AddBook(context.Background(), BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}})
	require.NoError(t, err)

	m.DeleteBook(context.Background(), book.ID)
	assert.Empty(t, m.Books())
	m.DeleteBook(context.Background(), book.ID) // no-op
	assert.Empty(t, m.Books())
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()

	m := Open(ctx, kv, "user-1")
	m.now = func() time.Time { return testNow }
	book, err := m.AddBook(ctx, BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}, Rating: 4})
	require.NoError(t, err)
	require.NoError(t, m.SetGoal(ctx, 2025, 20))

	reopened := Open(ctx, kv, "user-1")
	books := reopened.Books()
	require.Len(t, books, 1)
	assert.Equal(t, book, books[0])
	goal, ok := reopened.Goal(2025)
	require.True(t, ok)
	assert.Equal(t, models.Goal{Target: 20, IsActive: true}, goal)
}

func TestCorruptRecordsStartEmpty(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, booksKey("user-1"), "{not json"))
	require.NoError(t, kv.Set(ctx, goalsKey("user-1"), "[]"))

	m := Open(ctx, kv, "user-1")
	assert.Empty(t, m.Books())
	assert.Empty(t, m.Goals())
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	m := Open(context.Background(), failingKV{}, "user-1")
	m.now = func() time.Time { return testNow }

	book, err := m.AddBook(context.Background(), BookInput{Title: "Dune", Authors: []string{"Frank Herbert"}})
	require.NoError(t, err, "a failed write is degraded, not fatal")
	_, ok := m.Book(book.ID)
	assert.True(t, ok)
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) { return "", store.ErrNotFound }
func (failingKV) Set(context.Context, string, string) error {
	return assert.AnError
}
func (failingKV) Delete(context.Context, string) error { return assert.AnError }
