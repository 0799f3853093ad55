// Package imghost uploads complaint photos to ImgBB and returns the public
// URL. Uploads are best-effort; the intake workflow proceeds without a
// photo reference on any failure.
package imghost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const uploadEndpoint = "https://api.imgbb.com/1/upload"

// Client uploads base64 image payloads to ImgBB.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// New creates an ImgBB client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: uploadEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts a photo and returns its public URL. The photo arrives as a
// data URI; the prefix is stripped before sending, matching the ImgBB API.
func (c *Client) Upload(ctx context.Context, photoDataURI string) (string, error) {
	payload := photoDataURI
	if _, encoded, ok := strings.Cut(photoDataURI, ","); ok {
		payload = encoded
	}

	form := url.Values{}
	form.Set("image", payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"?key="+url.QueryEscape(c.apiKey),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if !out.Success || out.Data.URL == "" {
		if out.Error.Message != "" {
			return "", fmt.Errorf("image upload rejected: %s", out.Error.Message)
		}
		return "", fmt.Errorf("image upload rejected with status %d", resp.StatusCode)
	}

	return out.Data.URL, nil
}
