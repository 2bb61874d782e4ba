package uploads

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/repositories"
	"github.com/maxlibrach/nanas-table/backend/internal/storage"
	"github.com/rs/zerolog/log"
)

// Upload size limits per file kind.
const (
	MaxImageSize = 10 << 20  // 10MB
	MaxVideoSize = 100 << 20 // 100MB
)

// interFileDelay is the pause between sequential uploads in a batch,
// bounding load on the storage backend.
const interFileDelay = 500 * time.Millisecond

// RetryPolicy controls how blob uploads are retried: a fixed number of
// attempts with a flat delay between them.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the original behavior: three attempts,
// one second apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: time.Second}

// File is one candidate upload. Content is held in memory so a failed
// attempt can be replayed.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ProgressFunc reports per-file progress: the index of the file within
// the batch and the fraction uploaded.
type ProgressFunc func(index int, fraction float64)

// FileError records a single file's failure within a batch.
type FileError struct {
	Name string
	Err  error
}

// BatchError aggregates per-file failures from a multi-file upload.
// Files that succeeded stay uploaded.
type BatchError struct {
	Failures []FileError
}

func (e *BatchError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = fmt.Sprintf("%s (%v)", f.Name, f.Err)
	}
	return fmt.Sprintf("failed to upload %d file(s): %s", len(e.Failures), strings.Join(names, "; "))
}

// Uploader orchestrates media uploads: validation, blob write with
// retry, then the metadata document.
type Uploader struct {
	Blobs storage.BlobStore
	Media repositories.MediaRepository
	Retry RetryPolicy
	// Pause between files in a batch; interFileDelay when zero.
	Pause time.Duration
}

// NewUploader creates an Uploader with the default retry policy.
func NewUploader(blobs storage.BlobStore, media repositories.MediaRepository) *Uploader {
	return &Uploader{Blobs: blobs, Media: media, Retry: DefaultRetryPolicy, Pause: interFileDelay}
}

// ValidateFile checks the content type and the per-kind size limit
// before any network call. Returns the media kind ("image" or "video").
func ValidateFile(name, contentType string, size int64) (string, error) {
	var kind string
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind = models.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		kind = models.MediaTypeVideo
	default:
		return "", fmt.Errorf("invalid file type for %s: please upload an image or video file", name)
	}

	limit := int64(MaxImageSize)
	limitText := "10MB"
	if kind == models.MediaTypeVideo {
		limit = MaxVideoSize
		limitText = "100MB"
	}
	if size > limit {
		return "", fmt.Errorf("file %s is too large: please choose a %s smaller than %s", name, kind, limitText)
	}
	return kind, nil
}

// SanitizeFilename replaces every character outside [a-zA-Z0-9.-] with
// an underscore, matching the storage paths written by the old client.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// UploadOne validates and uploads a single file for a memory, then
// writes its media document. The caption is trimmed and omitted when
// empty. Progress is reported as a fraction of bytes written.
func (u *Uploader) UploadOne(ctx context.Context, user *models.User, memoryID, caption string, f File, progress storage.ProgressFunc) (*models.Media, error) {
	if user == nil {
		return nil, fmt.Errorf("you must be signed in to upload files")
	}
	kind, err := ValidateFile(f.Name, f.ContentType, int64(len(f.Data)))
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("memories/%s/media/%d_%s", memoryID, time.Now().UnixMilli(), SanitizeFilename(f.Name))
	fileURL, err := u.uploadWithRetry(ctx, objectPath, f, progress)
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		MemoryID:       memoryID,
		FileURL:        fileURL,
		FileType:       kind,
		Caption:        strings.TrimSpace(caption),
		UploadedBy:     user.ID,
		UploadedByName: user.DisplayName,
	}
	if err := u.Media.CreateMedia(ctx, media); err != nil {
		return nil, fmt.Errorf("saving media record for %s: %w", f.Name, err)
	}
	return media, nil
}

// UploadRecipePhoto validates and uploads a recipe photo (images only)
// and returns the download URL. No media document is written; the
// recipe keeps its own photo URL list.
func (u *Uploader) UploadRecipePhoto(ctx context.Context, user *models.User, recipeID string, f File) (string, error) {
	if user == nil {
		return "", fmt.Errorf("you must be signed in to upload files")
	}
	kind, err := ValidateFile(f.Name, f.ContentType, int64(len(f.Data)))
	if err != nil {
		return "", err
	}
	if kind != models.MediaTypeImage {
		return "", fmt.Errorf("recipe photos must be images")
	}

	objectPath := fmt.Sprintf("recipes/%s/%d_%s", recipeID, time.Now().UnixMilli(), SanitizeFilename(f.Name))
	return u.uploadWithRetry(ctx, objectPath, f, nil)
}

// UploadAll uploads a batch of files strictly sequentially with a short
// pause between them. Individual failures do not stop the batch; the
// uploaded media are returned together with a BatchError naming every
// file that failed, or nil when all succeeded.
func (u *Uploader) UploadAll(ctx context.Context, user *models.User, memoryID string, files []File, captions []string, progress ProgressFunc) ([]*models.Media, error) {
	var uploaded []*models.Media
	var failures []FileError

	for i, f := range files {
		if i > 0 {
			pause := u.Pause
			if pause == 0 {
				pause = interFileDelay
			}
			select {
			case <-ctx.Done():
				failures = append(failures, FileError{Name: f.Name, Err: ctx.Err()})
				continue
			case <-time.After(pause):
			}
		}

		caption := ""
		if i < len(captions) {
			caption = captions[i]
		}
		var fileProgress storage.ProgressFunc
		if progress != nil {
			index := i
			fileProgress = func(frac float64) { progress(index, frac) }
		}

		media, err := u.UploadOne(ctx, user, memoryID, caption, f, fileProgress)
		if err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("Upload failed within batch")
			failures = append(failures, FileError{Name: f.Name, Err: err})
			continue
		}
		uploaded = append(uploaded, media)
	}

	if len(failures) > 0 {
		return uploaded, &BatchError{Failures: failures}
	}
	return uploaded, nil
}

// uploadWithRetry writes the blob under the retry policy, replaying the
// file content on each attempt.
func (u *Uploader) uploadWithRetry(ctx context.Context, objectPath string, f File, progress storage.ProgressFunc) (string, error) {
	attempts := u.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		fileURL, err := u.Blobs.Upload(ctx, objectPath, f.ContentType, bytes.NewReader(f.Data), int64(len(f.Data)), progress)
		if err == nil {
			if fileURL == "" {
				return "", fmt.Errorf("upload of %s returned an empty download URL", f.Name)
			}
			return fileURL, nil
		}
		lastErr = err
		log.Warn().Err(err).Str("path", objectPath).Int("attempt", attempt).Int("remaining", attempts-attempt).
			Msg("Upload attempt failed")
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(u.Retry.Delay):
			}
		}
	}
	return "", fmt.Errorf("upload of %s failed after %d attempts: %w", f.Name, attempts, lastErr)
}
