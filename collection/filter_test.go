package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readshelf/readshelf/models"
)

func sampleBooks() []models.Book {
	return []models.Book{
		{
			ID: "1", Title: "Dune", Authors: []string{"Frank Herbert"},
			Status: models.StatusFinished, Rating: 5, Progress: 100,
			Publisher: "Chilton Books", PublishedDate: "1965",
			YearRead: "2024", DateFinished: "2024-08-01T10:00:00Z",
		},
		{
			ID: "2", Title: "Dune Messiah", Authors: []string{"Frank Herbert"},
			Status: models.StatusReading, Rating: 0, Progress: 30,
			PublishedDate: "1969-07", DateAdded: "2025-01-10T09:00:00Z",
		},
		{
			ID: "3", Title: "The Dispossessed", Authors: []string{"Ursula K. Le Guin"},
			Status: models.StatusWishlist, Rating: 0,
			Description: "An ambiguous utopia", PublishedDate: "not-a-date",
			DateAdded: "2025-02-01T09:00:00Z",
		},
		{
			ID: "4", Title: "A Memory Called Empire", Authors: []string{"Arkady Martine"},
			Status: models.StatusFinished, Rating: 4, Progress: 100,
			Publisher: "Tor", PublishedDate: "2019-03-26",
			DateFinished: "2025-03-10T18:00:00Z", DateAdded: "2025-01-01T09:00:00Z",
		},
	}
}

func ids(books []models.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestFilterPredicates(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"all", Filter{Status: "all"}, []string{"4", "1", "2", "3"}},
		{"by status", Filter{Status: "finished"}, []string{"4", "1"}},
		{"search title", Filter{Search: "dune"}, []string{"1", "2"}},
		{"search author", Filter{Search: "le guin"}, []string{"3"}},
		{"search description", Filter{Search: "utopia"}, []string{"3"}},
		{"search publisher", Filter{Search: "chilton"}, []string{"1"}},
		{"by rating", Filter{Rating: 5}, []string{"1"}},
		{"by author", Filter{Author: "frank herbert"}, []string{"1", "2"}},
		{"by year", Filter{Year: "2024"}, []string{"1"}},
		{"status AND search", Filter{Status: "currently-reading", Search: "dune"}, []string{"2"}},
		{"no match", Filter{Search: "dune", Rating: 4}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterAndSort(books, tc.f)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestSortOrders(t *testing.T) {
	books := sampleBooks()

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"title asc default", Filter{}, []string{"4", "1", "2", "3"}},
		{"title desc", Filter{SortBy: "title", SortOrder: "desc"}, []string{"3", "2", "1", "4"}},
		{"authors", Filter{SortBy: "authors"}, []string{"4", "1", "2", "3"}},
		{"rating desc", Filter{SortBy: "rating", SortOrder: "desc"}, []string{"1", "4", "2", "3"}},
		{"progress desc", Filter{SortBy: "progress", SortOrder: "desc"}, []string{"1", "4", "2", "3"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterAndSort(books, tc.f)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestSortPublishedDateHandlesPartialDates(t *testing.T) {
	got := FilterAndSort(sampleBooks(), Filter{SortBy: "publishedDate"})
	// "not-a-date" falls back to the 1900 epoch and sorts first; a bare
	// year parses as Jan 1.
	require.Equal(t, []string{"3", "1", "2", "4"}, ids(got))
}

func TestSortDateAddedMissingValuesFirst(t *testing.T) {
	got := FilterAndSort(sampleBooks(), Filter{SortBy: "dateAdded"})
	assert.Equal(t, "1", got[0].ID, "book without dateAdded sorts to the fallback epoch")
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	books := sampleBooks()
	FilterAndSort(books, Filter{SortBy: "title", SortOrder: "desc"})
	assert.Equal(t, "1", books[0].ID)
}
