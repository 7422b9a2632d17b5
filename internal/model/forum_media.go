package model

import "time"

// ForumMedia records an image uploaded for use inside forum posts.
type ForumMedia struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"-"`
	ThreadID  int64     `json:"thread_id"`
	PostID    *int64    `json:"post_id"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime"`
	SizeBytes int       `json:"size"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	CreatedAt time.Time `json:"-"`
}
