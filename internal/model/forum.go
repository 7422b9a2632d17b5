package model

import (
	"encoding/json"
	"time"
)

// MaxThreadsPerAuthor caps how many threads a single user may open.
const MaxThreadsPerAuthor = 10

// SeriesRef is a series mentioned by a thread header or a post.
type SeriesRef struct {
	SeriesID int64         `json:"series_id"`
	Title    string        `json:"title"`
	CoverURL string        `json:"cover_url"`
	Type     SeriesType    `json:"type"`
	Status   *SeriesStatus `json:"status"`
}

// ForumThread is a discussion header with denormalized counters.
type ForumThread struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	AuthorID       *int64      `json:"-"`
	AuthorUsername *string     `json:"author_username"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	PostCount      int         `json:"post_count"`
	LastPostAt     time.Time   `json:"last_post_at"`
	Locked         bool        `json:"locked"`
	LatestFirst    bool        `json:"latest_first"`
	SeriesRefs     []SeriesRef `json:"series_refs"`
}

// IsOwnedBy reports whether the thread was opened by the given user.
func (t *ForumThread) IsOwnedBy(userID int64) bool {
	return t.AuthorID != nil && *t.AuthorID == userID
}

// ForumPost is a Markdown message inside a thread. ParentID is nil for
// top-level posts.
type ForumPost struct {
	ID              int64       `json:"id"`
	ThreadID        int64       `json:"-"`
	AuthorID        *int64      `json:"-"`
	AuthorUsername  *string     `json:"author_username"`
	ParentID        *int64      `json:"-"`
	ContentMarkdown string      `json:"content_markdown"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	SeriesRefs      []SeriesRef `json:"series_refs"`
}

// MarshalJSON always emits parent_id, using 0 for top-level posts.
func (p ForumPost) MarshalJSON() ([]byte, error) {
	type alias ForumPost
	var parent int64
	if p.ParentID != nil {
		parent = *p.ParentID
	}
	return json.Marshal(struct {
		alias
		ParentID int64 `json:"parent_id"`
	}{alias: alias(p), ParentID: parent})
}

// IsOwnedBy reports whether the post was written by the given user.
func (p *ForumPost) IsOwnedBy(userID int64) bool {
	return p.AuthorID != nil && *p.AuthorID == userID
}

// ThreadLastMod is the sitemap view of a thread.
type ThreadLastMod struct {
	ID      int64
	LastMod time.Time
}
