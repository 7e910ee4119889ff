// Package imagestore persists avatar images in S3-compatible object
// storage.
package imagestore

import (
	"context"
	"io"
	"strings"
)

// Store abstracts the object storage. Keys are bucket-relative, URLs are
// what gets persisted on the user record.
type Store interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// ExtractPublicID recovers the storage key from a stored avatar URL: the
// last two path segments with the file extension stripped.
//
// "https://cdn.example.com/bucket/user_avatars/pic.jpg" -> "user_avatars/pic"
func ExtractPublicID(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return ""
	}
	id := strings.Join(parts[len(parts)-2:], "/")
	if dot := strings.Index(id, "."); dot != -1 {
		id = id[:dot]
	}
	return id
}
