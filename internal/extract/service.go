package extract

import (
	"context"
	"fmt"
	"mime"

	"github.com/speakfile/speakfile/internal/ports"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// InputType классифицирует заявленный media type в тег происхождения записи.
func InputType(mediaType string) (string, error) {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = mediaType
	}
	switch mt {
	case "application/pdf":
		return ports.InputTypePDF, nil
	case "text/plain":
		return ports.InputTypeTxt, nil
	}
	return "", fmt.Errorf("%w: %q", ports.ErrUnsupportedMediaType, mediaType)
}

func (s *Service) Extract(ctx context.Context, data []byte, mediaType string) (string, error) {
	tag, err := InputType(mediaType)
	if err != nil {
		return "", err
	}

	switch tag {
	case ports.InputTypePDF:
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ports.ErrExtractionFailed, err)
		}
		return text, nil
	default: // txt
		return string(data), nil
	}
}
