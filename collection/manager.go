package collection

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/readshelf/readshelf/models"
	"github.com/readshelf/readshelf/store"
)

// Manager owns the book and goal records of one user. All mutations go
// through it: it updates its in-memory state, stamps lifecycle dates and
// re-serializes the full record sets to the store. Persistence failures
// are logged and swallowed; the manager keeps serving its last good
// in-memory state.
type Manager struct {
	kv     store.KV
	userID string
	now    func() time.Time

	books []models.Book
	goals map[int]models.Goal
}

func booksKey(userID string) string { return "readshelf:books:" + userID }
func goalsKey(userID string) string { return "readshelf:goals:" + userID }

// Open loads the collection of userID from kv. A missing or unparseable
// record set starts empty; that is indistinguishable from a fresh user.
func Open(ctx context.Context, kv store.KV, userID string) *Manager {
	m := &Manager{kv: kv, userID: userID, now: time.Now, goals: make(map[int]models.Goal)}
	m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) {
	m.books = nil
	m.goals = make(map[int]models.Goal)

	if raw, err := m.kv.Get(ctx, booksKey(m.userID)); err == nil {
		if err := json.Unmarshal([]byte(raw), &m.books); err != nil {
			log.Printf("collection: books record for %s is corrupt, starting empty: %v", m.userID, err)
			m.books = nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("collection: load books for %s: %v", m.userID, err)
	}

	if raw, err := m.kv.Get(ctx, goalsKey(m.userID)); err == nil {
		if err := json.Unmarshal([]byte(raw), &m.goals); err != nil {
			log.Printf("collection: goals record for %s is corrupt, starting empty: %v", m.userID, err)
			m.goals = make(map[int]models.Goal)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("collection: load goals for %s: %v", m.userID, err)
	}
}

// Refresh re-reads the record sets from the store, dropping any in-memory
// state. Used when the backend reports an external change; last write
// wins, no merging.
func (m *Manager) Refresh(ctx context.Context) { m.load(ctx) }

// persist re-serializes both record sets. Best effort: a failed write is
// logged and the in-memory state stays authoritative.
func (m *Manager) persist(ctx context.Context) {
	if raw, err := json.Marshal(m.books); err == nil {
		if err := m.kv.Set(ctx, booksKey(m.userID), string(raw)); err != nil {
			log.Printf("collection: persist books for %s: %v", m.userID, err)
		}
	}
	if raw, err := json.Marshal(m.goals); err == nil {
		if err := m.kv.Set(ctx, goalsKey(m.userID), string(raw)); err != nil {
			log.Printf("collection: persist goals for %s: %v", m.userID, err)
		}
	}
}

// Books returns a copy of the current book set.
func (m *Manager) Books() []models.Book {
	out := make([]models.Book, len(m.books))
	copy(out, m.books)
	return out
}

// Book returns the book with the given id.
func (m *Manager) Book(id string) (models.Book, bool) {
	for i := range m.books {
		if m.books[i].ID == id {
			return m.books[i], true
		}
	}
	return models.Book{}, false
}

// BookInput is the payload for AddBook. Zero values fall back to the
// documented defaults (wishlist, progress 0, rating 0).
type BookInput struct {
	Title         string        `json:"title" validate:"required"`
	Authors       []string      `json:"authors" validate:"required,min=1"`
	Status        models.Status `json:"status"`
	Progress      int           `json:"progress" validate:"min=0,max=100"`
	Rating        int           `json:"rating" validate:"min=0,max=5"`
	PageCount     int           `json:"pageCount" validate:"min=0"`
	Categories    []string      `json:"categories"`
	Notes         string        `json:"notes"`
	Review        string        `json:"review"`
	Thumbnail     string        `json:"thumbnail"`
	ISBN          string        `json:"isbn"`
	Publisher     string        `json:"publisher"`
	PublishedDate string        `json:"publishedDate"`
	Description   string        `json:"description"`
	YearRead      string        `json:"yearRead"`
	MonthRead     string        `json:"monthRead"`
}

func (in *BookInput) validate() error {
	if err := validate.Struct(in); err != nil {
		return fieldErrorsFrom(err)
	}
	blank := true
	for _, a := range in.Authors {
		if strings.TrimSpace(a) != "" {
			blank = false
			break
		}
	}
	if blank {
		return FieldErrors{"authors": "at least one author is required"}
	}
	if in.Status != "" && !in.Status.Valid() {
		return FieldErrors{"status": "is invalid"}
	}
	return nil
}

// AddBook validates the input, assigns an id, stamps dateAdded and
// appends the book. Status defaults to wishlist; entering a reading or
// finished status at creation applies the same lifecycle stamping as a
// later transition would.
func (m *Manager) AddBook(ctx context.Context, in BookInput) (models.Book, error) {
	if err := in.validate(); err != nil {
		return models.Book{}, err
	}
	now := m.now()
	b := models.Book{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Authors:       in.Authors,
		Status:        in.Status,
		Progress:      in.Progress,
		Rating:        in.Rating,
		PageCount:     in.PageCount,
		Categories:    in.Categories,
		Notes:         in.Notes,
		Review:        in.Review,
		Thumbnail:     in.Thumbnail,
		ISBN:          in.ISBN,
		Publisher:     in.Publisher,
		PublishedDate: in.PublishedDate,
		Description:   in.Description,
		YearRead:      in.YearRead,
		MonthRead:     in.MonthRead,
		DateAdded:     now.Format(time.RFC3339),
	}
	if b.Status == "" {
		b.Status = models.StatusWishlist
	}
	applyTransition(&b, models.StatusWishlist, now)
	m.books = append(m.books, b)
	m.persist(ctx)
	return b, nil
}

// BookPatch is a partial update; nil fields are left untouched.
type BookPatch struct {
	Title         *string        `json:"title"`
	Authors       *[]string      `json:"authors"`
	Status        *models.Status `json:"status"`
	Progress      *int           `json:"progress"`
	Rating        *int           `json:"rating"`
	PageCount     *int           `json:"pageCount"`
	Categories    *[]string      `json:"categories"`
	Notes         *string        `json:"notes"`
	Review        *string        `json:"review"`
	Thumbnail     *string        `json:"thumbnail"`
	ISBN          *string        `json:"isbn"`
	Publisher     *string        `json:"publisher"`
	PublishedDate *string        `json:"publishedDate"`
	Description   *string        `json:"description"`
	YearRead      *string        `json:"yearRead"`
	MonthRead     *string        `json:"monthRead"`
}

// UpdateBook merges the patch into the book, applies status-transition
// stamping and stamps dateModified. Returns ErrBookNotFound for an
// unknown id.
func (m *Manager) UpdateBook(ctx context.Context, id string, patch BookPatch) (models.Book, error) {
	idx := -1
	for i := range m.books {
		if m.books[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Book{}, ErrBookNotFound
	}
	b := &m.books[idx]
	prev := b.Status
	now := m.now()

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Book{}, FieldErrors{"title": "is required"}
		}
		b.Title = *patch.Title
	}
	if patch.Authors != nil {
		blank := true
		for _, a := range *patch.Authors {
			if strings.TrimSpace(a) != "" {
				blank = false
				break
			}
		}
		if blank {
			return models.Book{}, FieldErrors{"authors": "at least one author is required"}
		}
		b.Authors = *patch.Authors
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return models.Book{}, FieldErrors{"status": "is invalid"}
		}
		b.Status = *patch.Status
	}
	if patch.Progress != nil {
		b.Progress = clamp(*patch.Progress, 0, 100)
	}
	if patch.Rating != nil {
		b.Rating = clamp(*patch.Rating, 0, 5)
	}
	if patch.PageCount != nil {
		b.PageCount = max(0, *patch.PageCount)
	}
	if patch.Categories != nil {
		b.Categories = *patch.Categories
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}
	if patch.Review != nil {
		b.Review = *patch.Review
	}
	if patch.Thumbnail != nil {
		b.Thumbnail = *patch.Thumbnail
	}
	if patch.ISBN != nil {
		b.ISBN = *patch.ISBN
	}
	if patch.Publisher != nil {
		b.Publisher = *patch.Publisher
	}
	if patch.PublishedDate != nil {
		b.PublishedDate = *patch.PublishedDate
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.YearRead != nil {
		b.YearRead = *patch.YearRead
	}
	if patch.MonthRead != nil {
		b.MonthRead = *patch.MonthRead
	}

	applyTransition(b, prev, now)
	b.DateModified = now.Format(time.RFC3339)
	m.persist(ctx)
	return *b, nil
}

// DeleteBook removes the book if present. Deleting an unknown id is a
// no-op.
func (m *Manager) DeleteBook(ctx context.Context, id string) {
	for i := range m.books {
		if m.books[i].ID == id {
			m.books = append(m.books[:i], m.books[i+1:]...)
			m.persist(ctx)
			return
		}
	}
}

// applyTransition enforces the status lifecycle after a mutation:
// entering currently-reading bumps a zero progress to 1 and stamps
// dateStarted; entering finished forces progress to 100, stamps
// dateFinished and defaults yearRead to the current year. Finished books
// always sit at progress 100.
func applyTransition(b *models.Book, prev models.Status, now time.Time) {
	switch {
	case b.Status == models.StatusReading && prev != models.StatusReading:
		if b.Progress == 0 {
			b.Progress = 1
		}
		if b.DateStarted == "" {
			b.DateStarted = now.Format(time.RFC3339)
		}
	case b.Status == models.StatusFinished && prev != models.StatusFinished:
		b.DateFinished = now.Format(time.RFC3339)
		if b.YearRead == "" {
			b.YearRead = strconv.Itoa(now.Year())
		}
	}
	if b.Status == models.StatusFinished {
		b.Progress = 100
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
