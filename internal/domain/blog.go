package domain

import "time"

// BlogPost is an announcement or article; unpublished posts are drafts only
// visible to admins and their author.
type BlogPost struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Tags         []string  `json:"tags"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}
