package ports

import "context"

// текст → аудио (mp3)
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
