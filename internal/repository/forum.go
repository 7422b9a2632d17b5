package repository

import (
	"context"
	"time"

	"toonranks/internal/model"
)

// NewThread is the payload for opening a thread together with its first post.
// MaxThreads caps how many threads the author may own; zero means no cap.
type NewThread struct {
	Title      string
	AuthorID   int64
	FirstPost  string
	SeriesIDs  []int64
	MaxThreads int
}

// NewPost is the payload for replying in a thread.
type NewPost struct {
	ThreadID  int64
	AuthorID  int64
	ParentID  *int64
	Content   string
	SeriesIDs []int64
	// AllowLocked lets the post through when the thread is locked.
	AllowLocked bool
}

// ThreadUpdate carries the optional changes to a thread. Nil fields are left as is.
type ThreadUpdate struct {
	Title       *string
	FirstPost   *string
	SeriesIDs   *[]int64
	Locked      *bool
	LatestFirst *bool
}

// ThreadStats summarises forum activity for sitemaps.
type ThreadStats struct {
	Count        int
	LastActivity *time.Time
}

// ForumRepository persists threads, posts and their series references.
type ForumRepository interface {
	ListThreads(ctx context.Context, q string, pq PageQuery) ([]model.ForumThread, error)
	// CreateThread inserts the thread, its first post and header refs atomically.
	// It returns ErrThreadLimit when the author already owns MaxThreads threads.
	CreateThread(ctx context.Context, nt NewThread) (*model.ForumThread, error)
	FindThread(ctx context.Context, id int64) (*model.ForumThread, error)
	// ListPosts returns posts by creation time, newest first when newestFirst is set.
	ListPosts(ctx context.Context, threadID int64, newestFirst bool) ([]model.ForumPost, error)
	FindPost(ctx context.Context, id int64) (*model.ForumPost, error)
	// CreatePost inserts the post and bumps the thread counters atomically.
	// It returns sql.ErrNoRows for a missing thread and ErrThreadLocked for a
	// locked one unless AllowLocked is set.
	CreatePost(ctx context.Context, np NewPost) (*model.ForumPost, error)
	// UpdatePost replaces content and series refs of a post.
	UpdatePost(ctx context.Context, postID int64, content string, seriesIDs []int64) (*model.ForumPost, error)
	UpdateThread(ctx context.Context, threadID int64, u ThreadUpdate) (*model.ForumThread, error)
	// DeletePost removes the post and its replies and recomputes the thread
	// counters. The opening post is refused with ErrOpeningPost.
	DeletePost(ctx context.Context, threadID, postID int64) error
	DeleteThread(ctx context.Context, id int64) error
	Stats(ctx context.Context) (ThreadStats, error)
	// ThreadLastMods returns one sitemap page of threads ordered by id.
	ThreadLastMods(ctx context.Context, pq PageQuery) ([]model.ThreadLastMod, error)
}
