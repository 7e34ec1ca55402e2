package ports

import "context"

// Низкоуровневый клиент к блоб-хранилищу
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
	Remove(ctx context.Context, key string) error
}
