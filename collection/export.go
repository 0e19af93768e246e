package collection

import (
	"encoding/json"

	"github.com/readshelf/readshelf/models"
)

// ExportBooks renders books as a pretty-printed JSON document for the
// file-download side channel. Parsing the output back yields the same
// records field for field.
func ExportBooks(books []models.Book) (string, error) {
	raw, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Export renders the manager's full book set.
func (m *Manager) Export() (string, error) {
	return ExportBooks(m.books)
}
