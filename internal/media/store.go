// Package media persists generated image bytes and hands back public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

var (
	ErrEmptyData       = errors.New("media: data is empty")
	ErrUnsupportedType = errors.New("media: unsupported mime type")
)

// SaveInput describes an asset to persist. Name is a human hint used to
// build the filename.
type SaveInput struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Asset is a stored file.
type Asset struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Store saves assets.
type Store interface {
	Save(ctx context.Context, input SaveInput) (*Asset, error)
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// FileStore writes assets below Dir and exposes them under BaseURL.
type FileStore struct {
	dir     string
	baseURL string
	id      func() uuid.UUID
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithIDGenerator overrides the uuid source used for filename suffixes.
func WithIDGenerator(id func() uuid.UUID) FileStoreOption {
	return func(s *FileStore) {
		if id != nil {
			s.id = id
		}
	}
}

func NewFileStore(dir, baseURL string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		id:      uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) Save(ctx context.Context, input SaveInput) (*Asset, error) {
	if len(input.Data) == 0 {
		return nil, ErrEmptyData
	}
	mimeType := strings.ToLower(strings.TrimSpace(input.MIMEType))
	ext, ok := extensions[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, input.MIMEType)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := s.filename(input.Name, ext)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create dir: %w", err)
	}
	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, input.Data, 0o644); err != nil {
		return nil, fmt.Errorf("media: write %s: %w", name, err)
	}
	return &Asset{
		Path:     target,
		URL:      s.baseURL + "/" + path.Clean(name),
		MIMEType: mimeType,
		Size:     int64(len(input.Data)),
	}, nil
}

func (s *FileStore) filename(hint, ext string) string {
	base, err := slug.Normalize(hint)
	if err != nil || base == "" {
		base = "image"
	}
	if len(base) > 48 {
		base = strings.TrimRight(base[:48], "-")
	}
	return base + "-" + s.id().String()[:8] + ext
}
