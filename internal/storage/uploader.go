package storage

import (
	"context"
	"errors"
	"fmt"
)

// Kind selects the upload endpoint and payload encoding.
type Kind string

const (
	Image Kind = "image"
	Video Kind = "video"
)

const (
	ImageFolder = "hygieat/vendors"
	VideoFolder = "hygieat/vendors/videos"
)

func (k Kind) Folder() string {
	if k == Video {
		return VideoFolder
	}
	return ImageFolder
}

func (k Kind) mimeType() string {
	if k == Video {
		return "video/mp4"
	}
	return "image/jpeg"
}

// Uploader pushes one local file to the media host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, kind Kind, publicID string) (string, error)
}

var ErrNotHosted = errors.New("media host returned no secure_url")

// UploadError wraps every failure coming out of an Uploader.
type UploadError struct {
	PublicID string
	Kind     Kind
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s %s: %v", e.Kind, e.PublicID, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Resolve returns the hosted URL for ref, uploading only when ref is local.
// A hosted ref never reaches the uploader.
func Resolve(ctx context.Context, up Uploader, ref Reference, kind Kind, publicID string) (string, error) {
	switch {
	case ref.IsHosted():
		return ref.URL(), nil
	case ref.IsZero():
		return "", nil
	}

	url, err := up.Upload(ctx, ref.Path(), kind, publicID)
	if err != nil {
		var upErr *UploadError
		if errors.As(err, &upErr) {
			return "", err
		}
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}
	if url == "" {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: ErrNotHosted}
	}
	return url, nil
}
