package imagestore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishmaker-app/wishmaker_backend/internal/adapters/imagestore"
)

func TestUpload_Success(t *testing.T) {
	var gotPreset string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFile, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url": "https://res.cloudinary.example/image/upload/v1/wish.jpg"}`))
	}))
	defer server.Close()

	client := imagestore.NewClientWithURL(server.URL, "unsigned-preset")

	url, err := client.Upload(context.Background(), []byte("jpeg-bytes"), "wish.jpg")

	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.example/image/upload/v1/wish.jpg", url)
	assert.Equal(t, "unsigned-preset", gotPreset)
	assert.Equal(t, []byte("jpeg-bytes"), gotFile)
}

func TestUpload_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "Invalid upload preset"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := imagestore.NewClientWithURL(server.URL, "bad-preset")

	_, err := client.Upload(context.Background(), []byte("jpeg-bytes"), "wish.jpg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestUpload_MissingSecureURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id": "abc"}`))
	}))
	defer server.Close()

	client := imagestore.NewClientWithURL(server.URL, "preset")

	_, err := client.Upload(context.Background(), []byte("jpeg-bytes"), "wish.jpg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "secure_url")
}

func TestUpload_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := imagestore.NewClientWithURL(server.URL, "preset")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Upload(ctx, []byte("jpeg-bytes"), "wish.jpg")
	require.Error(t, err)
}
