package domain

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/speakfile/speakfile/internal/extract"
	"github.com/speakfile/speakfile/internal/ports"
)

const maxTextChars = 5000

type conversionService struct {
	extractor    ports.Extractor
	synth        ports.Synthesizer
	artifacts    ports.ArtifactStore
	repo         ports.ConversionRepo
	defaultVoice string
	log          *logger.ZapLogger
}

func NewConversionService(
	extractor ports.Extractor,
	synth ports.Synthesizer,
	artifacts ports.ArtifactStore,
	repo ports.ConversionRepo,
	defaultVoice string,
	log *logger.ZapLogger,
) ports.ConversionService {
	return &conversionService{
		extractor:    extractor,
		synth:        synth,
		artifacts:    artifacts,
		repo:         repo,
		defaultVoice: defaultVoice,
		log:          log,
	}
}

// Convert — весь жизненный цикл одного запроса, строго последовательно.
// При сбое на любом шаге уже загруженные артефакты не откатываются.
func (s *conversionService) Convert(ctx context.Context, in ports.ConvertInput) (*ports.ConvertResult, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ports.ErrBadRequest)
	}
	if len(in.FileData) == 0 && in.Text == "" {
		return nil, fmt.Errorf("%w: either file or text is required", ports.ErrBadRequest)
	}

	text := in.Text
	inputType := ports.InputTypeText
	var originalName, originalURL *string

	if len(in.FileData) > 0 {
		tag, err := extract.InputType(in.FileType)
		if err != nil {
			return nil, err
		}

		extracted, err := s.extractor.Extract(ctx, in.FileData, in.FileType)
		if err != nil {
			return nil, err
		}
		text = extracted
		inputType = tag

		uploadKey := artifactKey("uploads", in.UserID, path.Ext(in.FileName))
		fileURL, err := s.artifacts.Put(ctx, uploadKey, in.FileData, in.FileType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrArtifactStoreFailed, err)
		}
		name := in.FileName
		originalName = &name
		originalURL = &fileURL
	}

	// проверки содержимого — строго после извлечения
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ports.ErrEmptyContent)
	}
	textLength := utf8.RuneCountInString(text)
	if textLength > maxTextChars {
		return nil, fmt.Errorf("%w: %d characters, limit is %d", ports.ErrContentTooLarge, textLength, maxTextChars)
	}

	voice := in.Voice
	if voice == "" {
		voice = s.defaultVoice
	}

	audioKey := artifactKey("audio", in.UserID, ".mp3")

	audio, err := s.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}

	audioURL, err := s.artifacts.Put(ctx, audioKey, audio, "audio/mpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrArtifactStoreFailed, err)
	}

	id, err := s.repo.Create(ctx, ports.Conversion{
		UserID:           in.UserID,
		Text:             text,
		InputType:        inputType,
		OriginalFileName: originalName,
		OriginalFileURL:  originalURL,
		AudioURL:         audioURL,
		Status:           ports.StatusCompleted,
		TextLength:       textLength,
		CompletedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrRecordStoreFailed, err)
	}

	return &ports.ConvertResult{
		ConversionID: id,
		AudioURL:     audioURL,
		TextLength:   textLength,
		InputType:    inputType,
	}, nil
}

func (s *conversionService) List(ctx context.Context, userID string) ([]ports.Conversion, error) {
	conversions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrRecordStoreFailed, err)
	}
	return conversions, nil
}

// Delete удаляет запись и каскадно её артефакты. Сбой удаления артефакта
// логируется и не прерывает операцию: авторитетно только удаление записи.
func (s *conversionService) Delete(ctx context.Context, userID, conversionID string) error {
	conversions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrRecordStoreFailed, err)
	}

	var target *ports.Conversion
	for i := range conversions {
		if conversions[i].ID == conversionID {
			target = &conversions[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ports.ErrRecordNotFound, conversionID)
	}

	if key := keyFromURL("audio", target.AudioURL); key != "" {
		if err := s.artifacts.Remove(ctx, key); err != nil {
			s.log.Log(logger.LogEntry{Level: "warn", Message: "failed to delete audio artifact " + key, Error: err})
		}
	}
	if target.OriginalFileURL != nil {
		if key := keyFromURL("uploads", *target.OriginalFileURL); key != "" {
			if err := s.artifacts.Remove(ctx, key); err != nil {
				s.log.Log(logger.LogEntry{Level: "warn", Message: "failed to delete original file artifact " + key, Error: err})
			}
		}
	}

	if err := s.repo.Delete(ctx, userID, conversionID); err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ports.ErrRecordStoreFailed, err)
	}
	return nil
}

// artifactKey собирает логическое имя: папка + userID + timestamp + случайный хвост.
// Уникальность вероятностная, центрального аллокатора нет.
func artifactKey(folder, userID, ext string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%s-%d-%s%s", folder, userID, time.Now().UnixNano(), suffix, ext)
}

// keyFromURL восстанавливает ключ артефакта из сохранённого URL:
// последний сегмент пути + каноничная папка
func keyFromURL(folder, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return folder + "/" + base
}
