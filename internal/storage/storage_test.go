package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonranks/internal/config"
)

func TestSanitizeSegment(t *testing.T) {
	assert.Equal(t, "Solo_Leveling_", SanitizeSegment("Solo Leveling!"))
	assert.Equal(t, "a-b_c", SanitizeSegment("a-b_c"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("One Piece", "covers", "cover art.png")
	assert.Regexp(t, regexp.MustCompile(`^One_Piece/covers/[0-9a-f-]{36}_cover_art\.png$`), key)

	key = ObjectKey("forum", "media", `..\..\etc/passwd`)
	assert.True(t, strings.HasSuffix(key, "_passwd"), key)

	key = ObjectKey("issues", "screenshots", "")
	assert.True(t, strings.HasSuffix(key, "_upload"), key)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com",
		publicBaseURL(config.MinIOConfig{Bucket: "bucket", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/bucket",
		publicBaseURL(config.MinIOConfig{Bucket: "bucket", PublicBaseURL: "http://localhost:9000/bucket/"}))
}

func TestURLRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		base string
	}{
		{name: "aws virtual host", base: "https://bucket.s3.us-east-1.amazonaws.com"},
		{name: "path style", base: "http://localhost:9000/bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &minioStorage{bucket: "bucket", baseURL: tt.base}
			u := m.URL("forum/media/x_a.png")
			assert.Equal(t, tt.base+"/forum/media/x_a.png", u)

			key, err := m.KeyFromURL(u)
			require.NoError(t, err)
			assert.Equal(t, "forum/media/x_a.png", key)
		})
	}

	_, err := keyFromURL("https://b", "https://b/")
	assert.Error(t, err)
}

type fakeStorage struct {
	putKey string
	err    error
}

func (f *fakeStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	f.putKey = key
	if f.err != nil {
		return ObjectInfo{}, f.err
	}
	n, _ := io.Copy(io.Discard, r)
	return ObjectInfo{Size: n}, nil
}
func (f *fakeStorage) Delete(context.Context, string) error { return nil }
func (f *fakeStorage) URL(key string) string                { return "https://cdn/" + key }
func (f *fakeStorage) KeyFromURL(u string) (string, error) {
	return strings.TrimPrefix(u, "https://cdn/"), nil
}

func TestUpload(t *testing.T) {
	fs := &fakeStorage{}
	info, err := Upload(context.Background(), fs, "7/covers", "covers", "c.png", "image/png", strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, fs.putKey, info.Key)
	assert.True(t, strings.HasPrefix(info.Key, "7_covers/covers/"))
	assert.Equal(t, "https://cdn/"+info.Key, info.URL)
	assert.Equal(t, int64(3), info.Size)

	_, err = Upload(context.Background(), &fakeStorage{err: errors.New("denied")}, "f", "s", "n", "", strings.NewReader(""), 0)
	assert.ErrorContains(t, err, "denied")
}

func TestNewMinIO_ValidatesConfig(t *testing.T) {
	_, err := NewMinIO(context.Background(), config.MinIOConfig{Endpoint: "localhost:9000"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "minio credentials are required")
	assert.ErrorContains(t, err, "minio bucket is required")
	assert.NotContains(t, err.Error(), "endpoint")
}
