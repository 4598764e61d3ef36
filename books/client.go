// Package books talks to the external metadata providers and normalizes
// their responses into models.Book.
package books

import "github.com/next-chapter/api/models"

// Client is a book metadata search backend
type Client interface {
	Search(query string, limit int) ([]models.Book, error)
	BySubject(subject string, limit int) ([]models.Book, error)
}
