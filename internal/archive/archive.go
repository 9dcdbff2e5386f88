// Package archive uploads exported reports to object storage.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const ContentTypePDF = "application/pdf"

// Store persists an object under key.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Key builds "{prefix}/{yyyy}/{mm}/{id}_{filename}". An empty prefix drops
// the leading segment.
func Key(prefix string, now time.Time, id, filename string) string {
	now = now.UTC()
	name := id + "_" + path.Base(filepath.ToSlash(filename))
	return path.Join(prefix, now.Format("2006"), now.Format("01"), name)
}

// Archiver uploads local files to a Store under date-partitioned keys.
type Archiver struct {
	store  Store
	prefix string
	now    func() time.Time
	newID  func() string
}

func NewArchiver(store Store, prefix string) *Archiver {
	return &Archiver{
		store:  store,
		prefix: prefix,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Upload stores the file at localPath and returns its object key.
func (a *Archiver) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("archive: open %s: %w", localPath, err)
	}
	defer f.Close()

	key := Key(a.prefix, a.now(), a.newID(), filepath.Base(localPath))
	if err := a.store.Put(ctx, key, f, ContentTypePDF); err != nil {
		return "", fmt.Errorf("archive: put %s: %w", key, err)
	}
	return key, nil
}

// Location is a human-readable location for key, e.g. "s3://bucket/key".
func (a *Archiver) Location(key string) string {
	if u, ok := a.store.(interface{ URI(string) string }); ok {
		return u.URI(key)
	}
	return key
}
