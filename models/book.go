package models

import (
	"strings"
	"time"
)

// Reading statuses for a shelf entry
const (
	ShelfStatusWantToRead = "want_to_read"
	ShelfStatusReading    = "reading"
	ShelfStatusFinished   = "finished"
)

// Book is the normalized metadata shape returned by the external book APIs
type Book struct {
	VolumeID      string   `json:"volumeId"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	ThumbnailURL  string   `json:"thumbnailUrl"`
	PublishedDate string   `json:"publishedDate"`
	Source        string   `json:"source"` // "google" or "hardcover"
}

// ShelfEntry is one saved book on a user's bookshelf
type ShelfEntry struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"userId" db:"user_id"`
	VolumeID     string     `json:"volumeId" db:"volume_id"`
	Title        string     `json:"title" db:"title"`
	Authors      string     `json:"authors" db:"authors"`
	ThumbnailURL string     `json:"thumbnailUrl" db:"thumbnail_url"`
	PageCount    int        `json:"pageCount" db:"page_count"`
	Status       string     `json:"status" db:"status"`
	CurrentPage  int        `json:"currentPage" db:"current_page"`
	StartedAt    *time.Time `json:"startedAt,omitempty" db:"started_at"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty" db:"finished_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

type SaveBookRequest struct {
	VolumeID     string `json:"volumeId"`
	Title        string `json:"title"`
	Authors      string `json:"authors"`
	ThumbnailURL string `json:"thumbnailUrl"`
	PageCount    int    `json:"pageCount"`
	Status       string `json:"status"`
}

type ProgressUpdateRequest struct {
	VolumeID    string `json:"volumeId"`
	CurrentPage int    `json:"currentPage"`
}

// Review is one user's review of a book; at most one per (user, volume)
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	VolumeID  string    `json:"volumeId" db:"volume_id"`
	Rating    int       `json:"rating" db:"rating"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// JournalEntry is a dated note a user keeps against one book. The client
// auto-saves on a debounce timer, so the save endpoint is an upsert.
type JournalEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	VolumeID  string    `json:"volumeId" db:"volume_id"`
	EntryDate time.Time `json:"entryDate" db:"entry_date"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BookList is a curated, ordered list of volumes
type BookList struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type ListItem struct {
	ListID   string `json:"listId" db:"list_id"`
	VolumeID string `json:"volumeId" db:"volume_id"`
	Title    string `json:"title" db:"title"`
	Position int    `json:"position" db:"position"`
}

// Badge codes awarded for streak and shelf milestones
const (
	BadgeFirstBook    = "first_book"
	BadgeStreakWeek   = "streak_7"
	BadgeStreakMonth  = "streak_30"
	BadgeStreakLegend = "streak_100"
	BadgeTenFinished  = "finished_10"
)

type Badge struct {
	UserID   string    `json:"userId" db:"user_id"`
	Code     string    `json:"code" db:"code"`
	EarnedAt time.Time `json:"earnedAt" db:"earned_at"`
}

// FeaturedFromBooks converts search results into featured-shelf rows
func FeaturedFromBooks(results []Book, subject string) []FeaturedBook {
	var featured []FeaturedBook
	for _, book := range results {
		featured = append(featured, FeaturedBook{
			VolumeID:     book.VolumeID,
			Title:        book.Title,
			Authors:      strings.Join(book.Authors, ", "),
			ThumbnailURL: book.ThumbnailURL,
			Subject:      subject,
		})
	}
	return featured
}

// FeaturedBook is one entry on the scheduler-refreshed daily shelf
type FeaturedBook struct {
	ID           int       `json:"id" db:"id"`
	Date         time.Time `json:"date" db:"date"`
	VolumeID     string    `json:"volumeId" db:"volume_id"`
	Title        string    `json:"title" db:"title"`
	Authors      string    `json:"authors" db:"authors"`
	ThumbnailURL string    `json:"thumbnailUrl" db:"thumbnail_url"`
	Subject      string    `json:"subject" db:"subject"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
