package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCatalog(t *testing.T, status int, body string) *GoogleBooks {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &GoogleBooks{BaseURL: srv.URL, Client: srv.Client()}
}

func TestSearchMapsVolumes(t *testing.T) {
	g := stubCatalog(t, http.StatusOK, `{
		"totalItems": 2,
		"items": [
			{"volumeInfo": {
				"title": "Dune",
				"authors": ["Frank Herbert"],
				"publisher": "Ace",
				"publishedDate": "1965-08-01",
				"description": "  Desert planet.  ",
				"pageCount": 412,
				"categories": ["Fiction"],
				"imageLinks": {"thumbnail": "http://img/dune.jpg"},
				"industryIdentifiers": [
					{"type": "ISBN_13", "identifier": "9780441172719"},
					{"type": "ISBN_10", "identifier": "0441172717"}
				]
			}},
			{"volumeInfo": {
				"title": "Dune",
				"subtitle": "Messiah",
				"authors": ["Frank Herbert"],
				"industryIdentifiers": [{"type": "ISBN_10", "identifier": "0441172695"}]
			}}
		]
	}`)

	results, err := g.Search(context.Background(), "dune", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "Dune", first.Title)
	assert.Equal(t, []string{"Frank Herbert"}, first.Authors)
	assert.Equal(t, "Desert planet.", first.Description, "description is trimmed")
	assert.Equal(t, 412, first.PageCount)
	assert.Equal(t, "http://img/dune.jpg", first.Thumbnail)
	assert.Equal(t, "9780441172719", first.ISBN)

	second := results[1]
	assert.Equal(t, "Dune: Messiah", second.Title, "subtitle folds into the title")
	assert.Equal(t, "0441172695", second.ISBN)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/0441172695-M.jpg",
		second.Thumbnail, "missing image falls back to an Open Library cover")
}

func TestSearchEmptyQueryIsNoop(t *testing.T) {
	g := &GoogleBooks{BaseURL: "http://unused.invalid", Client: http.DefaultClient}
	results, err := g.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchNoItems(t *testing.T) {
	g := stubCatalog(t, http.StatusOK, `{"totalItems": 0}`)
	results, err := g.Search(context.Background(), "xyzzy", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchCatalogError(t *testing.T) {
	g := stubCatalog(t, http.StatusTooManyRequests, `rate limited`)
	_, err := g.Search(context.Background(), "dune", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchCapsMaxResults(t *testing.T) {
	g := stubCatalog(t, http.StatusOK, `{
		"items": [
			{"volumeInfo": {"title": "One"}},
			{"volumeInfo": {"title": "Two"}},
			{"volumeInfo": {"title": "Three"}}
		]
	}`)
	results, err := g.Search(context.Background(), "numbers", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestOpenLibraryCoverURL(t *testing.T) {
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780441172719-L.jpg",
		openLibraryCoverURL("978-0-441-17271-9", "L"))
	assert.Empty(t, openLibraryCoverURL("  ", "M"))
}
