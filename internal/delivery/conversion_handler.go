package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/speakfile/speakfile/internal/ports"
)

const (
	maxFileBytes = 10 << 20 // лимит на файл
	maxBodyBytes = 12 << 20 // файл + остальные поля формы
)

type ConversionHandler struct {
	conversions ports.ConversionService
	log         *logger.ZapLogger
}

func NewConversionHandler(conversions ports.ConversionService, log *logger.ZapLogger) *ConversionHandler {
	return &ConversionHandler{
		conversions: conversions,
		log:         log,
	}
}

func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid multipart form: "+err.Error())
		return
	}

	in := ports.ConvertInput{
		UserID: r.FormValue("userId"),
		Text:   r.FormValue("text"),
		Voice:  r.FormValue("voice"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()

		if header.Size > maxFileBytes {
			writeError(w, http.StatusBadRequest, "Bad Request", "file exceeds 10MB limit")
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Bad Request", "failed to read file: "+err.Error())
			return
		}

		in.FileName = header.Filename
		in.FileData = data
		in.FileType = declaredMediaType(header.Header.Get("Content-Type"), header.Filename)
	case errors.Is(err, http.ErrMissingFile):
		// конвертируем inline text
	default:
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid file part: "+err.Error())
		return
	}

	result, err := h.conversions.Convert(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"conversionId": result.ConversionID,
		"audioUrl":     result.AudioURL,
		"textLength":   result.TextLength,
		"inputType":    result.InputType,
		"message":      "Conversion completed successfully",
	})
}

func (h *ConversionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "missing userId")
		return
	}

	conversions, err := h.conversions.List(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if conversions == nil {
		conversions = []ports.Conversion{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(conversions),
		"conversions": conversions,
	})
}

func (h *ConversionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	conversionID := chi.URLParam(r, "conversionId")

	if err := h.conversions.Delete(r.Context(), userID, conversionID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":             true,
		"message":             "Conversion deleted",
		"deletedConversionId": conversionID,
	})
}

func (h *ConversionHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "speakfile",
	})
}

func (h *ConversionHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrBadRequest),
		errors.Is(err, ports.ErrUnsupportedMediaType),
		errors.Is(err, ports.ErrEmptyContent),
		errors.Is(err, ports.ErrContentTooLarge):
		writeError(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, ports.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.log.Log(logger.LogEntry{Level: "error", Message: "conversion request failed", Error: err})
		writeError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// declaredMediaType: заголовок части формы, иначе по расширению файла
func declaredMediaType(contentType, filename string) string {
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return contentType
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, label, message string) {
	writeJSON(w, status, map[string]any{
		"error":   label,
		"message": message,
	})
}
