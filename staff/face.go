package staff

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/model"
)

type FaceInput struct {
	Descriptor []float64
	Score      float64
	Image      string // optional base64 data URL
}

// decodeDataURL splits "data:image/jpeg;base64,...." into its content type and bytes.
func decodeDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, ErrInvalidImage
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrInvalidImage
	}
	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidImage
	}
	return strings.TrimSuffix(meta, ";base64"), body, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ".jpg"
}

// RegisterFace stores (or replaces) the employee's reference descriptor.
func (s *Service) RegisterFace(ctx context.Context, employeeID string, in FaceInput) (*model.FaceDescriptor, error) {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	if !face.ValidDescriptor(in.Descriptor) {
		return nil, face.ErrBadDescriptor
	}
	if in.Score > 0 && in.Score < face.RegistrationMinScore {
		return nil, face.ErrLowQualityImage
	}

	location := in.Image
	if in.Image != "" {
		contentType, body, err := decodeDataURL(in.Image)
		if err != nil {
			return nil, err
		}
		if s.images != nil {
			key := fmt.Sprintf("faces/%s%s", employeeID, extension(contentType))
			location, err = s.images.Put(ctx, key, contentType, body)
			if err != nil {
				return nil, err
			}
		}
	}

	record := &model.FaceDescriptor{
		EmployeeID:     employeeID,
		Descriptor:     in.Descriptor,
		RegisteredDate: s.Now(),
		ImageURL:       location,
	}
	if err := s.faces.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Face(ctx context.Context, employeeID string) (*model.FaceDescriptor, error) {
	return s.faces.Get(ctx, employeeID)
}

// WriteFaceImage streams the stored photo and returns its content type.
func (s *Service) WriteFaceImage(ctx context.Context, employeeID string, w io.Writer) (string, error) {
	record, err := s.faces.Get(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if record == nil || record.ImageURL == "" {
		return "", ErrNotFound
	}

	if strings.HasPrefix(record.ImageURL, "data:") {
		contentType, body, err := decodeDataURL(record.ImageURL)
		if err != nil {
			return "", err
		}
		_, err = w.Write(body)
		return contentType, err
	}

	if s.images == nil {
		return "", ErrNotFound
	}
	if err := s.images.Read(ctx, record.ImageURL, w); err != nil {
		return "", err
	}
	return "image/" + strings.TrimPrefix(extensionOf(record.ImageURL), "."), nil
}

func extensionOf(location string) string {
	i := strings.LastIndex(location, ".")
	if i < 0 || i < strings.LastIndex(location, "/") {
		return ".jpeg"
	}
	ext := location[i:]
	if ext == ".jpg" {
		return ".jpeg"
	}
	return ext
}
