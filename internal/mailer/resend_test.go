package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	var got ResendEmailRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ResendEmailResponse{ID: "email-1"})
	}))
	defer srv.Close()

	c := NewClient("re_test_key", "Nana's Table <updates@nanas-table.example.com>")
	c.BaseURL = srv.URL

	err := c.Send(context.Background(), []string{"maxlibrach@gmail.com"}, "subject line", "body text")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, "Nana's Table <updates@nanas-table.example.com>", got.From)
	assert.Equal(t, []string{"maxlibrach@gmail.com"}, got.To)
	assert.Equal(t, "subject line", got.Subject)
	assert.Equal(t, "body text", got.Text)
	assert.Empty(t, got.HTML, "plaintext only")
}

func TestClientSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(ResendErrorResponse{Message: "invalid from address"})
	}))
	defer srv.Close()

	c := NewClient("re_test_key", "bad-from")
	c.BaseURL = srv.URL

	err := c.Send(context.Background(), []string{"a@b.com"}, "s", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestClientSendGuards(t *testing.T) {
	c := NewClient("", "from@example.com")
	err := c.Send(context.Background(), []string{"a@b.com"}, "s", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	c = NewClient("key", "from@example.com")
	err = c.Send(context.Background(), nil, "s", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient")
}
