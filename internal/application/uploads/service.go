package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Storage bucket names (must match the storage project configuration).
const (
	BucketPropertyImages = "property-images"
	BucketAvatars        = "avatars"
)

// StorageClient defines what we need from Supabase storage.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string, upsert bool) (string, error)
}

// HTTPClient is a StorageClient backed by the Supabase storage HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"` // relative path returned by upload/sign API
	Path           string `json:"path"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string, upsert bool) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: SUPABASE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: SUPABASE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    upsert,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	// API can return signedUrl, signed_url, or url (relative).
	if data.SignedURL != "" {
		return data.SignedURL, nil
	}
	if data.SignedURLSnake != "" {
		return data.SignedURLSnake, nil
	}
	if data.URL != "" {
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("storage returned no signed URL, body: %s", string(respBody))
}

// Service hands out signed upload URLs plus the public URL the client will
// store on the property image record once the upload completes.
type Service struct {
	Client      StorageClient
	SupabaseURL string
}

// UploadTicket is returned to the client: PUT the file to UploadURL, then
// persist PublicURL.
type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

// PropertyImageUpload creates a ticket for a new property photo. Paths are
// keyed by user so storage policies can scope deletes.
func (s *Service) PropertyImageUpload(ctx context.Context, userID, fileName string) (*UploadTicket, error) {
	path := fmt.Sprintf("%s/%d-%s", userID, time.Now().UnixMilli(), fileName)
	return s.ticket(ctx, BucketPropertyImages, path, false)
}

// AvatarUpload creates a ticket for the user's avatar; re-uploads overwrite.
func (s *Service) AvatarUpload(ctx context.Context, userID, fileName string) (*UploadTicket, error) {
	ext := "jpg"
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		ext = fileName[i+1:]
	}
	path := fmt.Sprintf("%s/avatar.%s", userID, ext)
	return s.ticket(ctx, BucketAvatars, path, true)
}

func (s *Service) ticket(ctx context.Context, bucket, path string, upsert bool) (*UploadTicket, error) {
	signedURL, err := s.Client.CreateSignedUploadURL(ctx, bucket, path, upsert)
	if err != nil {
		return nil, err
	}
	publicBase := strings.TrimRight(s.SupabaseURL, "/")
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", publicBase, bucket, path)
	return &UploadTicket{
		UploadURL: signedURL,
		PublicURL: publicURL,
		Path:      path,
	}, nil
}
