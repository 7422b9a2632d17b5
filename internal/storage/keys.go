package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	unsafeSegment  = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
	unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)
)

// SanitizeSegment replaces every character outside [A-Za-z0-9_-] with '_'.
func SanitizeSegment(s string) string {
	return unsafeSegment.ReplaceAllString(s, "_")
}

// ObjectKey builds "<folder>/<subfolder>/<uuid>_<filename>" with sanitized parts.
func ObjectKey(folder, subfolder, filename string) string {
	name := unsafeFilename.ReplaceAllString(path.Base(strings.ReplaceAll(filename, `\`, "/")), "_")
	if name == "" || name == "." || name == "_" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s/%s_%s", SanitizeSegment(folder), SanitizeSegment(subfolder), uuid.NewString(), name)
}

// Upload stores r under a fresh key in folder/subfolder and returns the object info.
func Upload(ctx context.Context, s Storage, folder, subfolder, filename, contentType string, r io.Reader, size int64) (ObjectInfo, error) {
	key := ObjectKey(folder, subfolder, filename)
	info, err := s.Put(ctx, key, r, PutObjectOptions{Size: size, ContentType: contentType})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put object %s: %w", key, err)
	}
	if info.Key == "" {
		info.Key = key
	}
	if info.URL == "" {
		info.URL = s.URL(key)
	}
	return info, nil
}
