package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"

	"toonranks/internal/model"
	"toonranks/internal/repository"
	"toonranks/internal/storage"
)

// Upload limits for forum media.
const (
	MaxImageBytes     = 300 * 1024
	MaxGIFBytes       = 1024 * 1024
	MaxImageDimension = 1024
	MaxGIFDimension   = 512
)

var allowedMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// ForumMediaService accepts small images for embedding in posts.
type ForumMediaService interface {
	Upload(ctx context.Context, user *model.User, threadID int64, postID *int64, file *Upload) (*model.ForumMedia, error)
}

type forumMediaService struct {
	media repository.ForumMediaRepository
	forum repository.ForumRepository
	store storage.Storage
}

// NewForumMediaService constructs a ForumMediaService.
func NewForumMediaService(media repository.ForumMediaRepository, forum repository.ForumRepository, store storage.Storage) ForumMediaService {
	return &forumMediaService{media: media, forum: forum, store: store}
}

// sniffDimensions decodes only the image header. ok is false for data no
// registered decoder understands.
func sniffDimensions(data []byte) (w, h int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func (s *forumMediaService) Upload(ctx context.Context, user *model.User, threadID int64, postID *int64, file *Upload) (*model.ForumMedia, error) {
	if file == nil || file.Body == nil {
		return nil, invalid("Empty file.")
	}
	if !allowedMediaTypes[file.ContentType] {
		return nil, invalid("Unsupported image type.")
	}
	isGIF := file.ContentType == "image/gif"

	blob, err := io.ReadAll(io.LimitReader(file.Body, MaxGIFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(blob) == 0 {
		return nil, invalid("Empty file.")
	}
	if isGIF && len(blob) > MaxGIFBytes {
		return nil, invalid("GIF too large (max 1 MB).")
	}
	if !isGIF && len(blob) > MaxImageBytes {
		return nil, invalid("Image too large (max 300 KB).")
	}

	var width, height *int
	if w, h, ok := sniffDimensions(blob); ok {
		if isGIF && (w > MaxGIFDimension || h > MaxGIFDimension) {
			return nil, invalid("GIF dimensions too large (max 512×512).")
		}
		if !isGIF && (w > MaxImageDimension || h > MaxImageDimension) {
			return nil, invalid("Image dimensions too large (max 1024×1024).")
		}
		width, height = &w, &h
	}

	if _, err := s.forum.FindThread(ctx, threadID); err != nil {
		if isNoRows(err) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}
	if postID != nil {
		p, err := s.forum.FindPost(ctx, *postID)
		if err != nil {
			if isNoRows(err) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		if p.ThreadID != threadID {
			return nil, ErrPostElsewhere
		}
	}

	name := file.Filename
	if name == "" {
		name = "upload"
	}
	obj, err := storage.Upload(ctx, s.store, "forum", "media", name, file.ContentType, bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	uid := user.ID
	m, err := s.media.Create(ctx, &model.ForumMedia{
		UserID:    &uid,
		ThreadID:  threadID,
		PostID:    postID,
		URL:       obj.URL,
		MimeType:  file.ContentType,
		SizeBytes: len(blob),
		Width:     width,
		Height:    height,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return m, nil
}
