package domain

import "time"

// MediaType enumerates generated artifact kinds.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// GalleryItem is a generated media artifact. Items sit in the public feed and
// may be referenced by any number of projects.
type GalleryItem struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Likes     int       `json:"likes"`
	UserName  string    `json:"user"`
	UserID    string    `json:"userId"`
	Featured  bool      `json:"featured,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
