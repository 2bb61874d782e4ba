package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/maxlibrach/nanas-table/backend/internal/middleware"
	"github.com/maxlibrach/nanas-table/backend/internal/models"
	"github.com/maxlibrach/nanas-table/backend/internal/storage"
	"github.com/maxlibrach/nanas-table/backend/internal/uploads"
	"github.com/maxlibrach/nanas-table/backend/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (s *fakeBlobStore) Upload(_ context.Context, objectPath, _ string, r io.Reader, _ int64, _ storage.ProgressFunc) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[objectPath] = data
	return storage.DownloadURL("test-bucket", objectPath), nil
}

func (s *fakeBlobStore) Delete(_ context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

type multipartFile struct {
	field, name, contentType string
	data                     []byte
}

func multipartContext(t *testing.T, fields map[string][]string, files []multipartFile) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserContextKey, &models.User{
		ID:          "uid-max",
		Email:       "maxlibrach@gmail.com",
		DisplayName: "Max",
	})
	return c, rec
}

func newMediaHandler() (*MediaHandler, *fakeMemoryRepo, *fakeMediaRepo, *fakeRecipeRepo, *fakeNoteRepo, *fakeBlobStore) {
	memories := newFakeMemoryRepo()
	media := newFakeMediaRepo()
	recipes := newFakeRecipeRepo()
	notes := &fakeNoteRepo{}
	blobs := newFakeBlobStore()
	uploader := &uploads.Uploader{
		Blobs: blobs,
		Media: media,
		Retry: uploads.RetryPolicy{MaxAttempts: 1},
		Pause: 1, // effectively no pause, but non-zero so the default is not applied
	}
	h := NewMediaHandler(media, memories, recipes, notes, uploader)
	return h, memories, media, recipes, notes, blobs
}

func seedMemory(t *testing.T, memories *fakeMemoryRepo) string {
	t.Helper()
	m := &models.Memory{
		Date: "2024-07-19", Occasion: models.OccasionShabbat,
		Attendees: []string{"Max"}, Meal: "m", Dessert: "d",
	}
	require.NoError(t, memories.CreateMemory(context.Background(), m))
	return m.ID
}

func TestUploadMedia(t *testing.T) {
	h, memories, media, _, _, blobs := newMediaHandler()
	memoryID := seedMemory(t, memories)

	c, rec := multipartContext(t,
		map[string][]string{"captions": {"dinner table", ""}},
		[]multipartFile{
			{"files", "table photo.jpg", "image/jpeg", []byte("jpeg-bytes")},
			{"files", "candles.mp4", "video/mp4", []byte("mp4-bytes")},
		})
	c.SetPath("/memories/:id/media")
	c.SetParamNames("id")
	c.SetParamValues(memoryID)

	require.NoError(t, h.UploadMedia(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Uploaded []models.Media `json:"uploaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Uploaded, 2)
	assert.Equal(t, "image", resp.Uploaded[0].FileType)
	assert.Equal(t, "dinner table", resp.Uploaded[0].Caption)
	assert.Equal(t, "video", resp.Uploaded[1].FileType)
	assert.Equal(t, "Max", resp.Uploaded[0].UploadedByName)

	assert.Len(t, media.media, 2)
	require.Len(t, blobs.objects, 2)
	for path := range blobs.objects {
		assert.NotContains(t, path, " ", "filenames are sanitized in storage paths: %s", path)
	}
}

func TestUploadMediaPartialFailure(t *testing.T) {
	h, memories, media, _, _, _ := newMediaHandler()
	memoryID := seedMemory(t, memories)

	// The middle file has a rejected content type; its neighbors still
	// upload and the aggregate error names the failure.
	c, rec := multipartContext(t, nil, []multipartFile{
		{"files", "one.jpg", "image/jpeg", []byte("a")},
		{"files", "notes.pdf", "application/pdf", []byte("b")},
		{"files", "three.jpg", "image/jpeg", []byte("c")},
	})
	c.SetParamNames("id")
	c.SetParamValues(memoryID)

	require.NoError(t, h.UploadMedia(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error    string         `json:"error"`
		Uploaded []models.Media `json:"uploaded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "notes.pdf")
	assert.Contains(t, resp.Error, "failed to upload 1 file(s)")
	require.Len(t, resp.Uploaded, 2, "files around the failed one still complete")
	assert.Len(t, media.media, 2)
}

func TestUploadMediaUnknownMemory(t *testing.T) {
	h, _, _, _, _, _ := newMediaHandler()

	c, _ := multipartContext(t, nil, []multipartFile{
		{"files", "one.jpg", "image/jpeg", []byte("a")},
	})
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.UploadMedia(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestAddContribution(t *testing.T) {
	h, memories, _, _, notes, _ := newMediaHandler()
	memoryID := seedMemory(t, memories)

	c, rec := multipartContext(t,
		map[string][]string{"note": {"  What a night!  "}},
		[]multipartFile{{"files", "one.jpg", "image/jpeg", []byte("a")}})
	c.SetParamNames("id")
	c.SetParamValues(memoryID)

	require.NoError(t, h.AddContribution(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, notes.notes, 1)
	assert.Equal(t, "What a night!", notes.notes[0].Text, "note text is trimmed")

	// Empty contribution is rejected.
	c, _ = multipartContext(t, map[string][]string{"note": {"   "}}, nil)
	c.SetParamNames("id")
	c.SetParamValues(memoryID)
	err := h.AddContribution(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeleteMediaRemovesBlob(t *testing.T) {
	h, _, media, _, _, _ := newMediaHandler()

	m := &models.Media{MemoryID: "mem-1", FileURL: "blob://x", FileType: "image"}
	require.NoError(t, media.CreateMedia(context.Background(), m))

	c, rec := newTestContext(t, http.MethodDelete, "")
	c.SetParamNames("id")
	c.SetParamValues(m.ID)
	require.NoError(t, h.DeleteMedia(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, media.media)
	assert.Contains(t, media.deletedBlobs, "blob://x")
}

func TestTagRecipeIdempotent(t *testing.T) {
	h, _, media, recipes, _, _ := newMediaHandler()

	recipe := &models.Recipe{Title: "Nana's Brisket", Instructions: "Slow and low."}
	require.NoError(t, recipes.CreateRecipe(context.Background(), recipe))
	m := &models.Media{MemoryID: "mem-1", FileURL: "u", FileType: "image"}
	require.NoError(t, media.CreateMedia(context.Background(), m))

	// Tagging twice leaves a single link.
	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPost, "")
		c.SetParamNames("id", "recipeId")
		c.SetParamValues(m.ID, recipe.ID)
		require.NoError(t, h.TagRecipe(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []string{recipe.ID}, media.media[m.ID].RecipeIDs)

	// Tagging a missing recipe fails without touching the media.
	c, _ := newTestContext(t, http.MethodPost, "")
	c.SetParamNames("id", "recipeId")
	c.SetParamValues(m.ID, "missing")
	err := h.TagRecipe(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, []string{recipe.ID}, media.media[m.ID].RecipeIDs)

	// Untag removes the link; untagging again is harmless.
	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodDelete, "")
		c.SetParamNames("id", "recipeId")
		c.SetParamValues(m.ID, recipe.ID)
		require.NoError(t, h.UntagRecipe(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, media.media[m.ID].RecipeIDs)
}
