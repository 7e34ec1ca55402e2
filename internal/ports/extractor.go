package ports

import "context"

type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) (string, error)
}
