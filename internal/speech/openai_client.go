package speech

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/speakfile/speakfile/internal/ports"
)

// Альтернативный бэкенд синтеза (TTS_PROVIDER=openai)
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *OpenAIClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          openaiVoice(voiceID),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSynthesisFailed, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSynthesisFailed, err)
	}
	return audio, nil
}

// openaiVoice маппит последний сегмент voiceID на голос OpenAI
func openaiVoice(voiceID string) openai.SpeechVoice {
	parts := strings.Split(voiceID, "-")
	name := strings.ToLower(parts[len(parts)-1])

	switch name {
	case "alloy":
		return openai.VoiceAlloy
	case "echo":
		return openai.VoiceEcho
	case "fable":
		return openai.VoiceFable
	case "onyx":
		return openai.VoiceOnyx
	case "nova":
		return openai.VoiceNova
	case "shimmer":
		return openai.VoiceShimmer
	}
	return openai.VoiceAlloy
}
