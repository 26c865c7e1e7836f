// Package uploads stores multipart file uploads through the configured
// storage backend under unique, date-partitioned paths.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxMemory is the in-memory limit passed to ParseMultipartForm; larger
// parts spill to temporary files.
const MaxMemory = 32 << 20

// ErrNoFile is returned by Save when the request carries no file for the field.
var ErrNoFile = errors.New("uploads: no file in field")

// Saved describes a stored upload.
type Saved struct {
	Path        string // storage key
	Filename    string // client-supplied name
	ContentType string
	Size        int64
}

// Uploader writes uploads to a storage.Store.
type Uploader struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Uploader.
func New(store storage.Store, logger *zap.Logger) *Uploader {
	return &Uploader{store: store, logger: logger, now: time.Now}
}

// Save stores the file in form field under prefix/YYYY/MM/<uuid8><ext>.
// It returns ErrNoFile when the field is absent or empty.
func (u *Uploader) Save(ctx context.Context, r *http.Request, field, prefix string) (*Saved, error) {
	file, header, err := r.FormFile(field)
	if err != nil || header == nil || header.Size == 0 {
		if file != nil {
			file.Close()
		}
		return nil, ErrNoFile
	}
	defer file.Close()

	now := u.now().UTC()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	uniqueName := fmt.Sprintf("%s%s", uuid.New().String()[:8], ext)
	path := fmt.Sprintf("%s/%04d/%02d/%s", prefix, now.Year(), int(now.Month()), uniqueName)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := u.store.Put(ctx, path, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("store %s upload: %w", field, err)
	}

	return &Saved{
		Path:        path,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	}, nil
}

// SaveOptional is Save with ErrNoFile mapped to (nil, nil).
func (u *Uploader) SaveOptional(ctx context.Context, r *http.Request, field, prefix string) (*Saved, error) {
	s, err := u.Save(ctx, r, field, prefix)
	if errors.Is(err, ErrNoFile) {
		return nil, nil
	}
	return s, err
}

// Remove deletes path, logging instead of failing. Empty paths are ignored.
func (u *Uploader) Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := u.store.Delete(ctx, path); err != nil {
		u.logger.Warn("failed to delete stored file", zap.String("path", path), zap.Error(err))
	}
}

// URL returns the public URL of path, or "" when path is empty.
func (u *Uploader) URL(path string) string {
	if path == "" {
		return ""
	}
	return u.store.URL(path)
}

// Store exposes the underlying backend for non-multipart writes.
func (u *Uploader) Store() storage.Store {
	return u.store
}
