package collection

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/readshelf/readshelf/models"
	"github.com/readshelf/readshelf/store"
)

// SeedDemo writes a starter collection and goal set for userID unless a
// book record set already exists. Called on demo login so the demo
// account is never empty.
func SeedDemo(ctx context.Context, kv store.KV, userID string, now time.Time) error {
	if _, err := kv.Get(ctx, booksKey(userID)); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	stamp := func(d time.Time) string { return d.Format(time.RFC3339) }
	year := strconv.Itoa(now.Year())

	books := []models.Book{
		{
			ID:            uuid.NewString(),
			Title:         "The Left Hand of Darkness",
			Authors:       []string{"Ursula K. Le Guin"},
			Status:        models.StatusFinished,
			Progress:      100,
			Rating:        5,
			PageCount:     304,
			Categories:    []string{"Science Fiction"},
			Publisher:     "Ace Books",
			PublishedDate: "1969",
			YearRead:      year,
			DateAdded:     stamp(now.AddDate(0, -4, 0)),
			DateStarted:   stamp(now.AddDate(0, -4, 2)),
			DateFinished:  stamp(now.AddDate(0, -3, -10)),
		},
		{
			ID:            uuid.NewString(),
			Title:         "Piranesi",
			Authors:       []string{"Susanna Clarke"},
			Status:        models.StatusFinished,
			Progress:      100,
			Rating:        4,
			PageCount:     245,
			Categories:    []string{"Fantasy"},
			Publisher:     "Bloomsbury",
			PublishedDate: "2020-09-15",
			YearRead:      year,
			DateAdded:     stamp(now.AddDate(0, -3, 0)),
			DateStarted:   stamp(now.AddDate(0, -3, 3)),
			DateFinished:  stamp(now.AddDate(0, -1, -5)),
		},
		{
			ID:            uuid.NewString(),
			Title:         "The Three-Body Problem",
			Authors:       []string{"Cixin Liu"},
			Status:        models.StatusReading,
			Progress:      42,
			PageCount:     400,
			Categories:    []string{"Science Fiction"},
			Publisher:     "Tor Books",
			PublishedDate: "2014-11-11",
			DateAdded:     stamp(now.AddDate(0, -1, 0)),
			DateStarted:   stamp(now.AddDate(0, 0, -12)),
		},
		{
			ID:            uuid.NewString(),
			Title:         "Braiding Sweetgrass",
			Authors:       []string{"Robin Wall Kimmerer"},
			Status:        models.StatusWishlist,
			PageCount:     408,
			Categories:    []string{"Nature"},
			Publisher:     "Milkweed Editions",
			PublishedDate: "2013",
			DateAdded:     stamp(now.AddDate(0, 0, -6)),
		},
		{
			ID:         uuid.NewString(),
			Title:      "The Name of the Rose",
			Authors:    []string{"Umberto Eco"},
			Status:     models.StatusWishlist,
			PageCount:  512,
			Categories: []string{"Historical Fiction"},
			DateAdded:  stamp(now.AddDate(0, 0, -2)),
		},
	}

	goals := map[int]models.Goal{
		now.Year(): {Target: models.DefaultGoalTarget, IsActive: true},
	}

	rawBooks, err := json.Marshal(books)
	if err != nil {
		return err
	}
	rawGoals, err := json.Marshal(goals)
	if err != nil {
		return err
	}
	if err := kv.Set(ctx, booksKey(userID), string(rawBooks)); err != nil {
		return err
	}
	return kv.Set(ctx, goalsKey(userID), string(rawGoals))
}

// PurgeUser removes the book and goal record sets of userID. Used when
// the demo session ends; demo data is single-use scratch state.
func PurgeUser(ctx context.Context, kv store.KV, userID string) error {
	if err := kv.Delete(ctx, booksKey(userID)); err != nil {
		return err
	}
	return kv.Delete(ctx, goalsKey(userID))
}
