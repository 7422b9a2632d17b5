package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	applog "toonranks/internal/log"
	"toonranks/internal/model"
	"toonranks/internal/repository"
	"toonranks/internal/storage"
)

// Issue limits.
const (
	MaxIssueTitleLength  = 200
	MaxUserAgentLength   = 512
	DefaultIssuePageSize = 25
	MaxIssuePageSize     = 200
)

// ReportIssueInput is the public report form.
type ReportIssueInput struct {
	Type        string
	Title       string
	Description string
	PageURL     string
	Email       string
	UserAgent   string
	Screenshot  *Upload
}

// IssueQuery filters the admin issue list. Empty strings match everything.
type IssueQuery struct {
	Q        string
	Type     string
	Status   string
	Page     int
	PageSize int
}

// IssueService handles anonymous reports and their triage.
type IssueService interface {
	Report(ctx context.Context, in ReportIssueInput) (*model.Issue, error)
	List(ctx context.Context, q IssueQuery) ([]model.Issue, error)
	UpdateStatus(ctx context.Context, id int64, status string, adminNotes *string) (*model.Issue, error)
	// Delete removes the issue; screenshot deletion is best effort.
	Delete(ctx context.Context, id int64) error
}

type issueService struct {
	repo   repository.IssueRepository
	store  storage.Storage
	logger zerolog.Logger
}

// NewIssueService constructs an IssueService.
func NewIssueService(repo repository.IssueRepository, store storage.Storage) IssueService {
	return &issueService{repo: repo, store: store, logger: applog.WithComponent("issues")}
}

func unprocessable(msg string) error {
	return newError(ErrUnprocessable, msg)
}

func (s *issueService) Report(ctx context.Context, in ReportIssueInput) (*model.Issue, error) {
	typ, err := model.ParseIssueType(in.Type)
	if err != nil {
		return nil, unprocessable("Invalid issue type")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(in.Title) > MaxIssueTitleLength {
		return nil, unprocessable("title must be between 1 and 200 characters")
	}
	email := trimmed(in.Email)
	if email != nil {
		if addr, err := mail.ParseAddress(*email); err != nil || addr.Address != *email {
			return nil, unprocessable("Invalid email address")
		}
	}

	is := &model.Issue{
		Type:        typ,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		PageURL:     trimmed(in.PageURL),
		Email:       email,
	}
	if in.UserAgent != "" {
		ua := in.UserAgent
		if r := []rune(ua); len(r) > MaxUserAgentLength {
			ua = string(r[:MaxUserAgentLength])
		}
		is.UserAgent = &ua
	}

	var key string
	if in.Screenshot != nil && in.Screenshot.Body != nil {
		name := in.Screenshot.Filename
		if name == "" {
			name = "screenshot.png"
		}
		ct := in.Screenshot.ContentType
		if ct == "" {
			ct = "image/png"
		}
		obj, err := storage.Upload(ctx, s.store, "issues", "screenshots", name, ct, in.Screenshot.Body, in.Screenshot.Size)
		if err != nil {
			return nil, newError(ErrInternal, "Screenshot upload failed")
		}
		key = obj.Key
		is.ScreenshotURL = &obj.URL
	}

	created, err := s.repo.Create(ctx, is)
	if err != nil {
		if key != "" {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return created, nil
}

func (s *issueService) List(ctx context.Context, q IssueQuery) ([]model.Issue, error) {
	if q.Page < 1 {
		return nil, unprocessable("page must be at least 1")
	}
	if q.PageSize < 1 || q.PageSize > MaxIssuePageSize {
		return nil, unprocessable("page_size must be between 1 and 200")
	}

	f := repository.IssueFilter{Query: strings.TrimSpace(q.Q)}
	if q.Type != "" {
		t, err := model.ParseIssueType(q.Type)
		if err != nil {
			return nil, unprocessable("Invalid issue type")
		}
		f.Type = &t
	}
	if q.Status != "" {
		st, err := model.ParseIssueStatus(q.Status)
		if err != nil {
			return nil, unprocessable("Invalid issue status")
		}
		f.Status = &st
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: q.PageSize, Offset: (q.Page - 1) * q.PageSize})
	if err != nil {
		return nil, err
	}
	if res.Items == nil {
		return []model.Issue{}, nil
	}
	return res.Items, nil
}

func (s *issueService) UpdateStatus(ctx context.Context, id int64, status string, adminNotes *string) (*model.Issue, error) {
	st, err := model.ParseIssueStatus(status)
	if err != nil {
		return nil, unprocessable("Invalid issue status")
	}
	if adminNotes != nil {
		trimmed := strings.TrimSpace(*adminNotes)
		adminNotes = &trimmed
	}
	is, err := s.repo.UpdateStatus(ctx, id, st, adminNotes)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return is, nil
}

func (s *issueService) Delete(ctx context.Context, id int64) error {
	is, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return ErrIssueNotFound
		}
		return err
	}
	if is.ScreenshotURL != nil && *is.ScreenshotURL != "" {
		if key, err := s.store.KeyFromURL(*is.ScreenshotURL); err != nil {
			s.logger.Warn().Err(err).Int64("issue_id", id).Msg("screenshot_key_unresolved")
		} else if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Int64("issue_id", id).Str("key", key).Msg("screenshot_delete_failed")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return ErrIssueNotFound
		}
		return err
	}
	return nil
}
