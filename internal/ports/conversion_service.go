package ports

import "context"

type ConvertInput struct {
	UserID   string
	Text     string
	Voice    string
	FileName string
	FileData []byte
	FileType string // заявленный media type загруженного файла
}

type ConvertResult struct {
	ConversionID string
	AudioURL     string
	TextLength   int
	InputType    string
}

type ConversionService interface {
	Convert(ctx context.Context, in ConvertInput) (*ConvertResult, error)
	List(ctx context.Context, userID string) ([]Conversion, error)
	Delete(ctx context.Context, userID, conversionID string) error
}
