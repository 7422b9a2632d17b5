package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"toonranks/internal/model"
	"toonranks/internal/moderation"
	"toonranks/internal/repository"
)

// Forum limits.
const (
	MinThreadTitleLength   = 3
	MaxThreadTitleLength   = 200
	DefaultThreadPageSize  = 20
	MaxThreadPageSize      = 100
	DefaultSeriesRefLimit  = 10
	MaxSeriesRefLimit      = 50
	MaxSeriesRefsPerEntity = 20
)

// CreateThreadInput opens a thread.
type CreateThreadInput struct {
	Title             string  `json:"title"`
	FirstPostMarkdown string  `json:"first_post_markdown"`
	SeriesIDs         []int64 `json:"series_ids"`
}

// CreatePostInput replies in a thread.
type CreatePostInput struct {
	ContentMarkdown string  `json:"content_markdown"`
	SeriesIDs       []int64 `json:"series_ids"`
	ParentID        *int64  `json:"parent_id"`
}

// UpdatePostInput replaces a post body and its refs.
type UpdatePostInput struct {
	ContentMarkdown string  `json:"content_markdown"`
	SeriesIDs       []int64 `json:"series_ids"`
}

// ThreadPatch changes only the provided fields.
type ThreadPatch struct {
	Title             *string  `json:"title"`
	FirstPostMarkdown *string  `json:"first_post_markdown"`
	SeriesIDs         *[]int64 `json:"series_ids"`
}

// ThreadView is a thread with its posts.
type ThreadView struct {
	Thread *model.ForumThread `json:"thread"`
	Posts  []model.ForumPost  `json:"posts"`
}

// ForumService runs the discussion board.
type ForumService interface {
	ListThreads(ctx context.Context, q string, page, pageSize int) ([]model.ForumThread, error)
	CreateThread(ctx context.Context, user *model.User, in CreateThreadInput) (*model.ForumThread, error)
	GetThread(ctx context.Context, threadID int64) (*ThreadView, error)
	CreatePost(ctx context.Context, user *model.User, threadID int64, in CreatePostInput) (*model.ForumPost, error)
	UpdatePost(ctx context.Context, user *model.User, threadID, postID int64, in UpdatePostInput) (*model.ForumPost, error)
	UpdateThread(ctx context.Context, user *model.User, threadID int64, p ThreadPatch) (*model.ForumThread, error)
	UpdateSettings(ctx context.Context, user *model.User, threadID int64, latestFirst *bool) (*model.ForumThread, error)
	SetLocked(ctx context.Context, user *model.User, threadID int64, locked bool) (*model.ForumThread, error)
	// DeletePost removes a reply and its descendants. The opening post can
	// only go with its thread.
	DeletePost(ctx context.Context, user *model.User, threadID, postID int64) error
	DeleteThread(ctx context.Context, user *model.User, threadID int64) error
	SearchSeries(ctx context.Context, q string, limit int) ([]model.SeriesRef, error)
}

type forumService struct {
	repo   repository.ForumRepository
	series repository.SeriesRepository
}

// NewForumService constructs a ForumService.
func NewForumService(repo repository.ForumRepository, series repository.SeriesRepository) ForumService {
	return &forumService{repo: repo, series: series}
}

func checkContent(text string) error {
	if err := moderation.Check(text); err != nil {
		return invalid(err.Error())
	}
	return nil
}

func validTitle(title string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(title)); n < MinThreadTitleLength || n > MaxThreadTitleLength {
		return newError(ErrUnprocessable, "title must be between 3 and 200 characters")
	}
	return nil
}

func validBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return newError(ErrUnprocessable, "content must not be empty")
	}
	return nil
}

// uniqueIDs drops duplicates and non-positive ids, keeping first occurrence order.
func uniqueIDs(ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) > MaxSeriesRefsPerEntity {
		return nil, newError(ErrUnprocessable, "too many series references")
	}
	return out, nil
}

func (s *forumService) ListThreads(ctx context.Context, q string, page, pageSize int) ([]model.ForumThread, error) {
	page, pageSize = clampPage(page, pageSize, DefaultThreadPageSize, MaxThreadPageSize)
	threads, err := s.repo.ListThreads(ctx, strings.TrimSpace(q), repository.PageQuery{Limit: pageSize, Offset: (page - 1) * pageSize})
	if err != nil {
		return nil, err
	}
	if threads == nil {
		threads = []model.ForumThread{}
	}
	return threads, nil
}

func (s *forumService) CreateThread(ctx context.Context, user *model.User, in CreateThreadInput) (*model.ForumThread, error) {
	if err := validTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validBody(in.FirstPostMarkdown); err != nil {
		return nil, err
	}
	ids, err := uniqueIDs(in.SeriesIDs)
	if err != nil {
		return nil, err
	}
	if err := checkContent(in.Title); err != nil {
		return nil, err
	}
	if err := checkContent(in.FirstPostMarkdown); err != nil {
		return nil, err
	}

	t, err := s.repo.CreateThread(ctx, repository.NewThread{
		Title:      strings.TrimSpace(in.Title),
		AuthorID:   user.ID,
		FirstPost:  in.FirstPostMarkdown,
		SeriesIDs:  ids,
		MaxThreads: model.MaxThreadsPerAuthor,
	})
	if err != nil {
		if errors.Is(err, repository.ErrThreadLimit) {
			return nil, ErrThreadLimit
		}
		return nil, err
	}
	return t, nil
}

func (s *forumService) thread(ctx context.Context, id int64) (*model.ForumThread, error) {
	t, err := s.repo.FindThread(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *forumService) post(ctx context.Context, threadID, postID int64) (*model.ForumPost, error) {
	p, err := s.repo.FindPost(ctx, postID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.ThreadID != threadID {
		return nil, ErrPostElsewhere
	}
	return p, nil
}

func (s *forumService) GetThread(ctx context.Context, threadID int64) (*ThreadView, error) {
	t, err := s.thread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.ListPosts(ctx, threadID, t.LatestFirst)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.ForumPost{}
	}
	return &ThreadView{Thread: t, Posts: posts}, nil
}

func (s *forumService) CreatePost(ctx context.Context, user *model.User, threadID int64, in CreatePostInput) (*model.ForumPost, error) {
	if err := validBody(in.ContentMarkdown); err != nil {
		return nil, err
	}
	ids, err := uniqueIDs(in.SeriesIDs)
	if err != nil {
		return nil, err
	}

	if _, err := s.thread(ctx, threadID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.repo.FindPost(ctx, *in.ParentID)
		if err != nil {
			if isNoRows(err) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.ThreadID != threadID {
			return nil, ErrParentElsewhere
		}
	}
	if err := checkContent(in.ContentMarkdown); err != nil {
		return nil, err
	}

	p, err := s.repo.CreatePost(ctx, repository.NewPost{
		ThreadID:    threadID,
		AuthorID:    user.ID,
		ParentID:    in.ParentID,
		Content:     in.ContentMarkdown,
		SeriesIDs:   ids,
		AllowLocked: user.IsAdmin(),
	})
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, repository.ErrThreadLocked):
		return nil, ErrThreadLocked
	case isNoRows(err):
		return nil, ErrThreadNotFound
	default:
		return nil, err
	}
}

func (s *forumService) UpdatePost(ctx context.Context, user *model.User, threadID, postID int64, in UpdatePostInput) (*model.ForumPost, error) {
	if err := validBody(in.ContentMarkdown); err != nil {
		return nil, err
	}
	ids, err := uniqueIDs(in.SeriesIDs)
	if err != nil {
		return nil, err
	}
	p, err := s.post(ctx, threadID, postID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && !p.IsOwnedBy(user.ID) {
		return nil, ErrNotPostEditor
	}
	if err := checkContent(in.ContentMarkdown); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdatePost(ctx, postID, in.ContentMarkdown, ids)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return updated, nil
}

// editable loads the thread and checks that user may change it.
func (s *forumService) editable(ctx context.Context, user *model.User, threadID int64) error {
	t, err := s.thread(ctx, threadID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && !t.IsOwnedBy(user.ID) {
		return ErrNotThreadEditor
	}
	return nil
}

func (s *forumService) updateThread(ctx context.Context, threadID int64, u repository.ThreadUpdate) (*model.ForumThread, error) {
	t, err := s.repo.UpdateThread(ctx, threadID, u)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *forumService) UpdateThread(ctx context.Context, user *model.User, threadID int64, p ThreadPatch) (*model.ForumThread, error) {
	var u repository.ThreadUpdate
	if p.Title != nil {
		if err := validTitle(*p.Title); err != nil {
			return nil, err
		}
		if err := checkContent(*p.Title); err != nil {
			return nil, err
		}
		title := strings.TrimSpace(*p.Title)
		u.Title = &title
	}
	if p.FirstPostMarkdown != nil {
		if err := validBody(*p.FirstPostMarkdown); err != nil {
			return nil, err
		}
		if err := checkContent(*p.FirstPostMarkdown); err != nil {
			return nil, err
		}
		u.FirstPost = p.FirstPostMarkdown
	}
	if p.SeriesIDs != nil {
		ids, err := uniqueIDs(*p.SeriesIDs)
		if err != nil {
			return nil, err
		}
		u.SeriesIDs = &ids
	}

	if err := s.editable(ctx, user, threadID); err != nil {
		return nil, err
	}
	return s.updateThread(ctx, threadID, u)
}

func (s *forumService) UpdateSettings(ctx context.Context, user *model.User, threadID int64, latestFirst *bool) (*model.ForumThread, error) {
	if err := s.editable(ctx, user, threadID); err != nil {
		return nil, err
	}
	return s.updateThread(ctx, threadID, repository.ThreadUpdate{LatestFirst: latestFirst})
}

func (s *forumService) SetLocked(ctx context.Context, user *model.User, threadID int64, locked bool) (*model.ForumThread, error) {
	if !user.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if _, err := s.thread(ctx, threadID); err != nil {
		return nil, err
	}
	return s.updateThread(ctx, threadID, repository.ThreadUpdate{Locked: &locked})
}

func (s *forumService) DeletePost(ctx context.Context, user *model.User, threadID, postID int64) error {
	p, err := s.post(ctx, threadID, postID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && !p.IsOwnedBy(user.ID) {
		return ErrNotPostOwner
	}
	err = s.repo.DeletePost(ctx, threadID, postID)
	switch {
	case errors.Is(err, repository.ErrOpeningPost):
		return ErrOpeningPost
	case isNoRows(err):
		return ErrPostNotFound
	default:
		return err
	}
}

func (s *forumService) DeleteThread(ctx context.Context, user *model.User, threadID int64) error {
	t, err := s.thread(ctx, threadID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() && !t.IsOwnedBy(user.ID) {
		return ErrNotThreadOwner
	}
	if err := s.repo.DeleteThread(ctx, threadID); err != nil {
		if isNoRows(err) {
			return ErrThreadNotFound
		}
		return err
	}
	return nil
}

func (s *forumService) SearchSeries(ctx context.Context, q string, limit int) ([]model.SeriesRef, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newError(ErrUnprocessable, "q is required")
	}
	if limit < 1 {
		limit = DefaultSeriesRefLimit
	}
	if limit > MaxSeriesRefLimit {
		limit = MaxSeriesRefLimit
	}
	refs, err := s.series.SearchRefs(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		refs = []model.SeriesRef{}
	}
	return refs, nil
}
