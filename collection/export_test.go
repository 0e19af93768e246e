package collection

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readshelf/readshelf/models"
)

func TestExportRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.AddBook(ctx, BookInput{
		Title:      "Dune",
		Authors:    []string{"Frank Herbert"},
		Status:     models.StatusFinished,
		Rating:     5,
		PageCount:  412,
		Categories: []string{"Science Fiction", "Classic"},
		Notes:      "re-read",
		ISBN:       "9780441172719",
	})
	require.NoError(t, err)
	_, err = m.AddBook(ctx, BookInput{Title: "Piranesi", Authors: []string{"Susanna Clarke"}})
	require.NoError(t, err)

	doc, err := m.Export()
	require.NoError(t, err)

	var parsed []models.Book
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, m.Books(), parsed, "export reproduces the records field for field")
}

func TestExportEmptyCollection(t *testing.T) {
	m := newTestManager(t)
	doc, err := m.Export()
	require.NoError(t, err)
	assert.JSONEq(t, "null", doc)
}
