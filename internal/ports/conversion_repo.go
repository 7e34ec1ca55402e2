package ports

import "context"

type ConversionRepo interface {
	Create(ctx context.Context, c Conversion) (string, error)
	ListByUser(ctx context.Context, userID string) ([]Conversion, error)
	Delete(ctx context.Context, userID, id string) error
}
