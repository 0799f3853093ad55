package ai

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, mime, err := decodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", mime)
}

func TestDecodeDataURIDefaultsMimeType(t *testing.T) {
	uri := "data:;base64," + base64.StdEncoding.EncodeToString([]byte("x"))

	_, mime, err := decodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
}

func TestDecodeDataURIRejectsNonDataURI(t *testing.T) {
	_, _, err := decodeDataURI("https://example.com/photo.jpg")
	assert.Error(t, err)
}

func TestDecodeDataURIRejectsMissingComma(t *testing.T) {
	_, _, err := decodeDataURI("data:image/png;base64")
	assert.Error(t, err)
}

func TestDecodeDataURIRejectsBadBase64(t *testing.T) {
	_, _, err := decodeDataURI("data:image/png;base64,not-base64!!!")
	assert.Error(t, err)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", "gemini-2.0-flash", nil)
	assert.Error(t, err)
}
