// Package blob uploads user media to the object-storage bucket with
// collision-free, entity-namespaced paths.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store wraps the media bucket.
type Store struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewStore creates a Store over bucket.
func NewStore(bucket *storage.BucketHandle, bucketName string) *Store {
	return &Store{bucket: bucket, bucketName: bucketName}
}

// ObjectPath builds a namespaced object path: kind/ownerID/ts-token.ext.
// The timestamp plus random token suffix makes concurrent uploads from the
// same owner collision-free.
func ObjectPath(kind, ownerID, filename string) string {
	ext := path.Ext(filename)
	token := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%s/%d-%s%s", kind, ownerID, time.Now().UnixMilli(), token, ext)
}

// Upload streams r into a new object and returns its public download URL.
func (s *Store) Upload(ctx context.Context, kind, ownerID, filename string, r io.Reader) (string, error) {
	objectPath := ObjectPath(kind, ownerID, filename)
	obj := s.bucket.Object(objectPath)

	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", objectPath, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectPath), nil
}

// PathFromURL recovers the object path from a download URL minted by Upload.
// It reports false for URLs pointing anywhere but this store's bucket, so
// externally hosted media is never deleted.
func (s *Store) PathFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucketName)
	objectPath, ok := strings.CutPrefix(url, prefix)
	if !ok || objectPath == "" {
		return "", false
	}
	return objectPath, true
}

// Delete removes an object by its path within the bucket.
func (s *Store) Delete(ctx context.Context, objectPath string) error {
	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", objectPath, err)
	}
	return nil
}
