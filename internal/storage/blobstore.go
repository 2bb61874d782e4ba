package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// ProgressFunc receives the fraction of bytes uploaded so far, in [0, 1].
type ProgressFunc func(fraction float64)

// BlobStore abstracts the blob side of media handling so upload and
// delete paths can be exercised without a real bucket.
type BlobStore interface {
	// Upload writes the object and returns its download URL.
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader, size int64, progress ProgressFunc) (string, error)
	// Delete removes the object behind a previously returned download URL.
	Delete(ctx context.Context, fileURL string) error
}

// GCSBlobStore implements BlobStore on a Cloud Storage bucket, serving
// objects through Firebase-style download URLs.
type GCSBlobStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewGCSBlobStore creates a blob store over the given bucket handle.
func NewGCSBlobStore(bucket *gcs.BucketHandle, bucketName string) *GCSBlobStore {
	return &GCSBlobStore{bucket: bucket, bucketName: bucketName}
}

func (s *GCSBlobStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader, size int64, progress ProgressFunc) (string, error) {
	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	src := r
	if progress != nil && size > 0 {
		src = &progressReader{r: r, total: size, progress: progress}
	}

	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return "", fmt.Errorf("writing object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing object %s: %w", objectPath, err)
	}

	return DownloadURL(s.bucketName, objectPath), nil
}

func (s *GCSBlobStore) Delete(ctx context.Context, fileURL string) error {
	objectPath, err := ObjectPathFromURL(fileURL)
	if err != nil {
		return err
	}
	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("deleting object %s: %w", objectPath, err)
	}
	return nil
}

// DownloadURL builds the public download URL for an object, matching
// the format issued by the Firebase client SDK.
func DownloadURL(bucketName, objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		bucketName, url.PathEscape(objectPath))
}

// ObjectPathFromURL recovers the bucket object path from a download
// URL. A bare object path is accepted as-is, since older media
// documents stored paths rather than full URLs.
func ObjectPathFromURL(fileURL string) (string, error) {
	if !strings.Contains(fileURL, "://") {
		return fileURL, nil
	}
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid file URL %q: %w", fileURL, err)
	}
	// Path form: /v0/b/{bucket}/o/{escaped object path}. The object
	// path keeps its slashes percent-encoded, so work on the raw path.
	const marker = "/o/"
	raw := u.EscapedPath()
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", fmt.Errorf("unrecognized file URL %q", fileURL)
	}
	escaped := raw[idx+len(marker):]
	objectPath, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("invalid object path in URL %q: %w", fileURL, err)
	}
	if objectPath == "" {
		return "", fmt.Errorf("empty object path in URL %q", fileURL)
	}
	return objectPath, nil
}

// progressReader reports the fraction of bytes read from the wrapped
// reader out of an expected total.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		frac := float64(p.read) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
		p.progress(frac)
	}
	return n, err
}
