// README: Upload service issues presigned PUT URLs for document and photo uploads.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBadRequest      = errors.New("bad upload request")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Presigner signs a PUT for key; implemented by infra.S3Presigner.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

type Service struct {
	presigner  Presigner
	publicBase string
	ttl        time.Duration
	newID      func() string
}

func NewService(p Presigner, publicBase string, ttl time.Duration) *Service {
	return &Service{
		presigner:  p,
		publicBase: strings.TrimRight(publicBase, "/"),
		ttl:        ttl,
		newID:      uuid.NewString,
	}
}

var segment = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func (s *Service) Presign(ctx context.Context, req Request) (Response, error) {
	ext, ok := allowedTypes[strings.ToLower(req.FileType)]
	if !ok {
		return Response{}, ErrUnsupportedType
	}
	if req.Category == "" || req.FileIdentifier == "" {
		return Response{}, ErrBadRequest
	}
	key := s.ObjectKey(req, ext)
	url, err := s.presigner.PresignPut(ctx, key, strings.ToLower(req.FileType), s.ttl)
	if err != nil {
		return Response{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return Response{UploadURL: url, FileURL: s.publicBase + "/" + key}, nil
}

// ObjectKey is <category>/<subcategory>/<identifier>-<uuid><ext>; the original
// file name only contributes its extension when it matches the content type.
func (s *Service) ObjectKey(req Request, ext string) string {
	if e := strings.ToLower(path.Ext(req.FileName)); e == ".jpeg" && ext == ".jpg" {
		ext = e
	}
	parts := []string{clean(req.Category)}
	if sub := clean(req.Subcategory); sub != "" {
		parts = append(parts, sub)
	}
	parts = append(parts, clean(req.FileIdentifier)+"-"+s.newID()+ext)
	return strings.Join(parts, "/")
}

func clean(v string) string {
	return strings.Trim(segment.ReplaceAllString(strings.TrimSpace(v), "_"), "_")
}
