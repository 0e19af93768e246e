package models

// Status is the reading state of a book. It drives which derived views
// (stats, goal progress, filters) include the book.
type Status string

const (
	StatusWishlist Status = "wishlist"
	StatusReading  Status = "currently-reading"
	StatusFinished Status = "finished"
)

// ValidStatuses lists every status a book may carry.
var ValidStatuses = []Status{StatusWishlist, StatusReading, StatusFinished}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Book is a tracked reading item. Timestamps are RFC 3339 strings; an
// empty string means "not set". YearRead/MonthRead are user-supplied
// overrides used for goal-year attribution.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Status        Status   `json:"status"`
	Progress      int      `json:"progress"`
	Rating        int      `json:"rating"`
	PageCount     int      `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Review        string   `json:"review,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
	YearRead      string   `json:"yearRead,omitempty"`
	MonthRead     string   `json:"monthRead,omitempty"`
	DateAdded     string   `json:"dateAdded,omitempty"`
	DateStarted   string   `json:"dateStarted,omitempty"`
	DateFinished  string   `json:"dateFinished,omitempty"`
	DateModified  string   `json:"dateModified,omitempty"`
}

// PrimaryGenre returns the first category, the one analytics treat as the
// book's genre. Empty when the book has no categories.
func (b *Book) PrimaryGenre() string {
	if len(b.Categories) == 0 {
		return ""
	}
	return b.Categories[0]
}
