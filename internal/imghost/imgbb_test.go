package imghost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(endpoint string) *Client {
	c := New("test-key")
	c.endpoint = endpoint
	return c
}

func TestUploadStripsDataURIPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, r.ParseForm())
		// Only the raw base64 payload should reach ImgBB.
		assert.Equal(t, "aGVsbG8=", r.PostForm.Get("image"))
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/abc/photo.jpg"}}`))
	}))
	defer srv.Close()

	url, err := testClient(srv.URL).Upload(context.Background(), "data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/abc/photo.jpg", url)
}

func TestUploadPassesRawPayloadThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "aGVsbG8=", r.PostForm.Get("image"))
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/abc/photo.jpg"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
}

func TestUploadSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"message":"Invalid API key"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "aGVsbG8=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestUploadRejectsMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "aGVsbG8=")
	assert.Error(t, err)
}
