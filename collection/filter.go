package collection

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/readshelf/readshelf/models"
)

// Filter describes the list view: independent AND-combined predicates
// plus a sort key. Zero values disable the corresponding predicate.
type Filter struct {
	Status    string `json:"status"`    // "", "all" or a status value
	Search    string `json:"search"`    // substring over title/authors/description/publisher
	Rating    int    `json:"rating"`    // 0 = any
	Author    string `json:"author"`    // exact author match, case-insensitive
	Year      string `json:"year"`      // attribution year
	SortBy    string `json:"sortBy"`    // defaults to "title"
	SortOrder string `json:"sortOrder"` // "asc" (default) or "desc"
}

// fallbackEpoch is the comparison value for missing or malformed dates.
var fallbackEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// FilterAndSort is a pure reduction of books by the filter. The input
// slice is not modified.
func FilterAndSort(books []models.Book, f Filter) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if matches(&b, &f) {
			out = append(out, b)
		}
	}
	sortBooks(out, f.SortBy, strings.EqualFold(f.SortOrder, "desc"))
	return out
}

func matches(b *models.Book, f *Filter) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, "all") {
		if !strings.EqualFold(string(b.Status), f.Status) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" && !searchMatch(b, q) {
		return false
	}
	if f.Rating > 0 && b.Rating != f.Rating {
		return false
	}
	if f.Author != "" {
		found := false
		for _, a := range b.Authors {
			if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(f.Author)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Year != "" {
		year, ok := attributionYear(b)
		if !ok || strconv.Itoa(year) != strings.TrimSpace(f.Year) {
			return false
		}
	}
	return true
}

func searchMatch(b *models.Book, q string) bool {
	if strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Description), q) ||
		strings.Contains(strings.ToLower(b.Publisher), q) {
		return true
	}
	for _, a := range b.Authors {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	return false
}

func sortBooks(books []models.Book, key string, desc bool) {
	less := comparator(key)
	sort.SliceStable(books, func(i, j int) bool {
		if desc {
			return less(&books[j], &books[i])
		}
		return less(&books[i], &books[j])
	})
}

func comparator(key string) func(a, b *models.Book) bool {
	switch key {
	case "authors", "author":
		return func(a, b *models.Book) bool {
			return joinedAuthors(a) < joinedAuthors(b)
		}
	case "rating":
		return func(a, b *models.Book) bool { return a.Rating < b.Rating }
	case "progress":
		return func(a, b *models.Book) bool { return a.Progress < b.Progress }
	case "pageCount":
		return func(a, b *models.Book) bool { return a.PageCount < b.PageCount }
	case "status":
		return func(a, b *models.Book) bool { return a.Status < b.Status }
	case "publishedDate":
		return func(a, b *models.Book) bool {
			return parseFlexibleDate(a.PublishedDate).Before(parseFlexibleDate(b.PublishedDate))
		}
	case "dateAdded":
		return func(a, b *models.Book) bool {
			return parseFlexibleDate(a.DateAdded).Before(parseFlexibleDate(b.DateAdded))
		}
	case "dateFinished":
		return func(a, b *models.Book) bool {
			return parseFlexibleDate(a.DateFinished).Before(parseFlexibleDate(b.DateFinished))
		}
	case "dateModified":
		return func(a, b *models.Book) bool {
			return parseFlexibleDate(a.DateModified).Before(parseFlexibleDate(b.DateModified))
		}
	default: // title
		return func(a, b *models.Book) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	}
}

func joinedAuthors(b *models.Book) string {
	return strings.ToLower(strings.Join(b.Authors, ", "))
}

// parseFlexibleDate parses the date formats books carry: RFC 3339, plain
// dates, year-month, or a bare 4-digit year (treated as Jan 1). Anything
// else falls back to 1900-01-01 so malformed values sort first instead
// of failing.
func parseFlexibleDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallbackEpoch
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallbackEpoch
}
