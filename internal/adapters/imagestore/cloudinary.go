// Package imagestore implements the image-hosting collaborator on top of
// Cloudinary's unsigned upload endpoint.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	portssvc "github.com/wishmaker-app/wishmaker_backend/internal/core/ports/services"
)

// Client uploads raw image bytes with an unsigned preset and returns the
// durable HTTPS URL Cloudinary hands back. Nothing else about the image is
// interpreted.
type Client struct {
	httpClient   *http.Client
	uploadURL    string
	uploadPreset string
}

// NewClient creates a Cloudinary client for the given cloud name and
// unsigned upload preset.
func NewClient(cloudName, uploadPreset string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		uploadURL:    fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName),
		uploadPreset: uploadPreset,
	}
}

// NewClientWithURL creates a client against an explicit upload URL.
func NewClientWithURL(uploadURL, uploadPreset string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		uploadURL:    uploadURL,
		uploadPreset: uploadPreset,
	}
}

var _ portssvc.ImageStore = (*Client)(nil)

// Upload posts the image as multipart form data and returns secure_url.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("failed to write upload preset field: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image upload failed with status %d: %s", resp.StatusCode, snippet)
	}

	var payload struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if payload.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}
	return payload.SecureURL, nil
}
