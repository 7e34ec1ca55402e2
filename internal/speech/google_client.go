package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/speakfile/speakfile/internal/ports"
)

type GoogleClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewGoogleClient() *GoogleClient {
	key := os.Getenv("GOOGLE_TTS_API_KEY")
	if key == "" {
		panic("GOOGLE_TTS_API_KEY not set")
	}

	url := os.Getenv("GOOGLE_TTS_URL")
	if url == "" {
		url = "https://texttospeech.googleapis.com/v1/text:synthesize"
	}

	return &GoogleClient{
		apiKey:     key,
		url:        url,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type googleVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type googleAudioConfig struct {
	AudioEncoding    string   `json:"audioEncoding"`
	Pitch            float64  `json:"pitch"`
	SpeakingRate     float64  `json:"speakingRate"`
	EffectsProfileID []string `json:"effectsProfileId"`
}

type googleSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice       googleVoice       `json:"voice"`
	AudioConfig googleAudioConfig `json:"audioConfig"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// TEXT → SPEECH
func (c *GoogleClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	var reqBody googleSynthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice = googleVoice{
		LanguageCode: languageCode(voiceID),
		Name:         voiceID,
	}
	// фиксированные параметры синтеза, не настраиваются per request
	reqBody.AudioConfig = googleAudioConfig{
		AudioEncoding:    "MP3",
		Pitch:            0,
		SpeakingRate:     1.0,
		EffectsProfileID: []string{"small-bluetooth-speaker-class-device"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+"?key="+c.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ports.ErrSynthesisFailed, string(body))
	}

	var out googleSynthesizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSynthesisFailed, err)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrSynthesisFailed, err)
	}
	return audio, nil
}

// languageCode берёт первые два сегмента voiceID: "en-US-Neural2-C" → "en-US"
func languageCode(voiceID string) string {
	parts := strings.Split(voiceID, "-")
	if len(parts) < 2 {
		return voiceID
	}
	return parts[0] + "-" + parts[1]
}
