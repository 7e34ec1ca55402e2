package ports

import "errors"

// Ошибки-виды для маппинга в HTTP-статусы
var (
	ErrBadRequest           = errors.New("bad request")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrEmptyContent         = errors.New("empty content")
	ErrContentTooLarge      = errors.New("content too large")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrSynthesisFailed      = errors.New("synthesis failed")
	ErrArtifactStoreFailed  = errors.New("artifact store failed")
	ErrRecordStoreFailed    = errors.New("record store failed")
	ErrRecordNotFound       = errors.New("record not found")
)
