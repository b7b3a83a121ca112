// Package images uploads pictures used by buildings, POIs and rich text.
package images

import (
	"context"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-situm/core"
)

const (
	imagesPath      = "/api/v1/images"
	imageField      = "image"
	defaultFilename = "image.png"
)

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type UploadOptions struct {
	// RTF marks the image as embedded in rich text content.
	RTF         bool
	Filename    string
	ContentType string
}

type Service struct {
	api core.API
}

func NewService(api core.API) *Service {
	return &Service{api: api}
}

// Upload sends content as a multipart form. The session is resolved first
// so credential problems surface before the payload is read.
func (s *Service) Upload(ctx context.Context, content io.Reader, opts UploadOptions) (Image, error) {
	if s == nil || s.api == nil {
		return Image{}, core.NewConfigurationError("images service requires an api")
	}
	if content == nil {
		return Image{}, core.NewBadInputError("images: content is required",
			goerrors.FieldError{Field: imageField, Message: "required"})
	}
	if _, err := s.api.AuthSession(ctx); err != nil {
		return Image{}, err
	}

	payload, err := io.ReadAll(content)
	if err != nil {
		return Image{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "images: read content").
			WithCode(http.StatusBadRequest).
			WithTextCode(core.ServiceErrorBadInput)
	}
	if len(payload) == 0 {
		return Image{}, core.NewBadInputError("images: content is empty",
			goerrors.FieldError{Field: imageField, Message: "empty"})
	}

	filename := strings.TrimSpace(opts.Filename)
	if filename == "" {
		filename = defaultFilename
	}
	body := &core.MultipartBody{
		Files: []core.MultipartFile{{
			Field:       imageField,
			Filename:    filename,
			ContentType: opts.ContentType,
			Content:     payload,
		}},
	}
	if opts.RTF {
		body.Fields = map[string]string{"rtf": "true"}
	}

	var image Image
	if err := s.api.Post(ctx, core.RequestDescriptor{Path: imagesPath, Multipart: body}, &image); err != nil {
		return Image{}, err
	}
	return image, nil
}
