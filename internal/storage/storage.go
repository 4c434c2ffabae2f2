// Package storage archives uploaded spreadsheets in an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// ErrObjectNotFound is returned by Get for a key the bucket does not hold.
var ErrObjectNotFound = errors.New("object not found")

// ImportPrefix is the key prefix of every archived import file.
const ImportPrefix = "imports/"

// Import kinds, used as the second key segment.
const (
	KindUsers   = "users"
	KindCatalog = "catalog"
)

// XLSXContentType is the MIME type archived spreadsheets are stored with.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PutObjectOptions define optional parameters for uploading objects.
// Size is the exact number of bytes, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object store. Methods stream; nothing touches local disk.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ImportKey builds the archive key of an uploaded file, e.g.
// "imports/users/2026/01/2aB...xlsx". The uploaded file name only contributes its extension.
func ImportKey(kind, filename string, at time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".xlsx"
	}
	return ImportPrefix + path.Join(kind, at.Format("2006/01"), ksuid.New().String()+ext)
}

// IsImportKey reports whether key points inside the import archive. Handlers use
// it before presigning a caller-supplied key.
func IsImportKey(key string) bool {
	return strings.HasPrefix(key, ImportPrefix) && !strings.Contains(key, "..")
}
