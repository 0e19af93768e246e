package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// BookSummary is a catalog search hit, used to pre-fill a new book entry.
type BookSummary struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	Thumbnail     string   `json:"thumbnail"`
	ISBN          string   `json:"isbn"`
}

// googleBooksVolumesResp is the response from GET /volumes?q=...
type googleBooksVolumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Subtitle      string   `json:"subtitle"`
			Authors       []string `json:"authors"`
			Publisher     string   `json:"publisher"`
			PublishedDate string   `json:"publishedDate"`
			Description   string   `json:"description"`
			PageCount     int      `json:"pageCount"`
			Categories    []string `json:"categories"`
			ImageLinks    struct {
				SmallThumbnail string `json:"smallThumbnail"`
				Thumbnail      string `json:"thumbnail"`
			} `json:"imageLinks"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// GoogleBooks queries the public volumes API. The zero-value base URL
// and client are production defaults; tests point BaseURL at a stub.
type GoogleBooks struct {
	BaseURL string
	Client  *http.Client
}

// NewGoogleBooks returns a client with a short timeout so a slow catalog
// never blocks the caller for long.
func NewGoogleBooks() *GoogleBooks {
	return &GoogleBooks{
		BaseURL: googleBooksBase,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Search runs a free-text volume search and returns up to maxResults
// summaries. An empty result set is a valid outcome, not an error; any
// transport or non-2xx failure surfaces as a single lookup error.
func (g *GoogleBooks) Search(ctx context.Context, query string, maxResults int) ([]BookSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if maxResults <= 0 || maxResults > 40 {
		maxResults = 10
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(maxResults))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("book search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("book search failed: catalog returned %d", resp.StatusCode)
	}
	var data googleBooksVolumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("book search failed: %w", err)
	}

	out := make([]BookSummary, 0, len(data.Items))
	for _, item := range data.Items {
		vi := item.VolumeInfo
		s := BookSummary{
			Title:         vi.Title,
			Authors:       vi.Authors,
			Publisher:     vi.Publisher,
			PublishedDate: vi.PublishedDate,
			Description:   strings.TrimSpace(vi.Description),
			PageCount:     vi.PageCount,
			Categories:    vi.Categories,
			Thumbnail:     vi.ImageLinks.Thumbnail,
		}
		if s.Thumbnail == "" {
			s.Thumbnail = vi.ImageLinks.SmallThumbnail
		}
		if vi.Subtitle != "" {
			s.Title = s.Title + ": " + vi.Subtitle
		}
		for _, id := range vi.IndustryIdentifiers {
			if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
				s.ISBN = id.Identifier
				break
			}
		}
		// Open Library covers by ISBN don't sit behind a captcha the way
		// some Google Books image URLs do.
		if s.Thumbnail == "" && s.ISBN != "" {
			s.Thumbnail = openLibraryCoverURL(s.ISBN, "M")
		}
		out = append(out, s)
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

// openLibraryCoverURL returns a direct cover image URL by ISBN. Size: S, M or L.
func openLibraryCoverURL(isbn, size string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if clean == "" {
		return ""
	}
	return "https://covers.openlibrary.org/b/isbn/" + url.PathEscape(clean) + "-" + size + ".jpg"
}
