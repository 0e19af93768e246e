package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/readshelf/readshelf/collection"
	"github.com/readshelf/readshelf/middleware"
	"github.com/readshelf/readshelf/service"
	"github.com/readshelf/readshelf/store"
)

// BooksHandler adapts the collection manager to HTTP. State lives in the
// store, so each request opens the caller's collection fresh; the KV
// reads are synchronous and cheap.
type BooksHandler struct {
	KV     store.KV
	Search *service.GoogleBooks
	Backup *service.BackupService
}

func (h *BooksHandler) open(r *http.Request) (*collection.Manager, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return collection.Open(r.Context(), h.KV, userID), true
}

// List returns the filtered, sorted book set. Filter knobs arrive as
// query parameters.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	q := r.URL.Query()
	rating, _ := strconv.Atoi(q.Get("rating"))
	f := collection.Filter{
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		Rating:    rating,
		Author:    q.Get("author"),
		Year:      q.Get("year"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	writeJSON(w, http.StatusOK, collection.FilterAndSort(m.Books(), f))
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	book, ok := m.Book(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in collection.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	book, err := m.AddBook(r.Context(), in)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "could not add the book")
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *BooksHandler) Patch(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var patch collection.BookPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	book, err := m.UpdateBook(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		if errors.Is(err, collection.ErrBookNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		if writeValidationError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "could not update the book")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	m.DeleteBook(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BooksHandler) Stats(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, m.Stats())
}

// Export streams the collection as a pretty-printed JSON download. With
// ?backup=1 and a configured backup service, the document is also
// uploaded to S3 and a presigned URL returned instead.
func (h *BooksHandler) Export(w http.ResponseWriter, r *http.Request) {
	m, ok := h.open(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	doc, err := m.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not export the collection")
		return
	}
	if r.URL.Query().Get("backup") != "" {
		if h.Backup == nil {
			writeError(w, http.StatusServiceUnavailable, "backup not configured")
			return
		}
		userID, _ := middleware.UserIDFromContext(r.Context())
		key, err := h.Backup.UploadExport(r.Context(), userID, doc)
		if err != nil {
			log.Printf("export: backup upload: %v", err)
			writeError(w, http.StatusInternalServerError, "backup upload failed")
			return
		}
		url, err := h.Backup.PresignedGetURL(r.Context(), key, 15*time.Minute)
		if err != nil {
			log.Printf("export: presign: %v", err)
			writeError(w, http.StatusInternalServerError, "backup upload failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="readshelf-export.json"`)
	w.Write([]byte(doc))
}

// SearchCatalog proxies the book-search gateway. Lookup failures degrade
// to an empty result list; the UI shows "no results" either way.
func (h *BooksHandler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("max"))
	results, err := h.Search.Search(r.Context(), r.URL.Query().Get("q"), maxResults)
	if err != nil {
		log.Printf("search: %v", err)
		writeJSON(w, http.StatusOK, map[string]any{"results": []service.BookSummary{}, "degraded": true})
		return
	}
	if results == nil {
		results = []service.BookSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
