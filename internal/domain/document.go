package domain

import (
	"strings"
	"time"
)

// DocumentVersion is one retained content snapshot.
type DocumentVersion struct {
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// StudioDocument is a user-owned writing document with a bounded version
// history (newest snapshot first).
type StudioDocument struct {
	ID             string            `json:"id"`
	UserID         string            `json:"userId"`
	Title          string            `json:"title"`
	Content        string            `json:"content"`
	WordCount      int               `json:"wordCount"`
	CharCount      int               `json:"charCount"`
	LastModified   time.Time         `json:"lastModified"`
	VersionHistory []DocumentVersion `json:"versionHistory"`
}

// Recount refreshes the word and character counters from the content.
func (d *StudioDocument) Recount() {
	d.WordCount = len(strings.Fields(d.Content))
	d.CharCount = len(d.Content)
}
