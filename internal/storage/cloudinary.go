package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// CloudinaryClient performs unsigned uploads with an upload preset.
type CloudinaryClient struct {
	baseURL   string
	cloudName string
	preset    string
	http      *http.Client
}

func NewCloudinaryClient(baseURL, cloudName, preset string, timeout time.Duration) *CloudinaryClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CloudinaryClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		cloudName: cloudName,
		preset:    preset,
		http:      &http.Client{Timeout: timeout},
	}
}

// Upload reads the whole file, sends it as a base64 data URL and returns secure_url.
func (c *CloudinaryClient) Upload(ctx context.Context, path string, kind Kind, publicID string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}

	body, contentType, err := c.buildForm(raw, kind, publicID)
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}

	url := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}

	// secure_url is the only success signal, the status code is not trusted.
	var result struct {
		SecureURL string `json:"secure_url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", &UploadError{
			PublicID: publicID,
			Kind:     kind,
			Err:      fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err),
		}
	}

	if result.SecureURL == "" {
		err := ErrNotHosted
		if result.Error.Message != "" {
			err = fmt.Errorf("%w: %s", ErrNotHosted, result.Error.Message)
		}
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}

	return result.SecureURL, nil
}

func (c *CloudinaryClient) buildForm(raw []byte, kind Kind, publicID string) (*bytes.Buffer, string, error) {
	if len(raw) == 0 {
		return nil, "", errors.New("empty media file")
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"file", "data:" + kind.mimeType() + ";base64," + base64.StdEncoding.EncodeToString(raw)},
		{"upload_preset", c.preset},
		{"cloud_name", c.cloudName},
		{"folder", kind.Folder()},
		{"public_id", publicID},
	}
	if kind == Video {
		fields = append(fields, [2]string{"resource_type", "video"})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
