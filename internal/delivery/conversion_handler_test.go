package delivery_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/speakfile/speakfile/internal/delivery"
	"github.com/speakfile/speakfile/internal/ports"
)

type fakeConversionService struct {
	convertResult *ports.ConvertResult
	convertErr    error
	listResult    []ports.Conversion
	listErr       error
	deleteErr     error

	lastInput ports.ConvertInput
}

func (f *fakeConversionService) Convert(_ context.Context, in ports.ConvertInput) (*ports.ConvertResult, error) {
	f.lastInput = in
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return f.convertResult, nil
}

func (f *fakeConversionService) List(_ context.Context, _ string) ([]ports.Conversion, error) {
	return f.listResult, f.listErr
}

func (f *fakeConversionService) Delete(_ context.Context, _, _ string) error {
	return f.deleteErr
}

func newServer(svc ports.ConversionService) *httptest.Server {
	r := chi.NewRouter()
	h := delivery.NewConversionHandler(svc, logger.NewZapLogger(zap.NewNop().Sugar()))
	delivery.RegisterRoutes(r, h)
	return httptest.NewServer(r)
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	return body
}

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{
		convertResult: &ports.ConvertResult{
			ConversionID: "conv-1",
			AudioURL:     "https://cdn.test/bucket/audio/u1-1-abcd1234.mp3",
			TextLength:   11,
			InputType:    ports.InputTypeText,
		},
	}
	server := newServer(svc)
	defer server.Close()

	buf, contentType := multipartBody(t, map[string]string{
		"userId": "u1",
		"text":   "hello world",
	}, "", nil)

	resp, err := http.Post(server.URL+"/convert", contentType, buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, "conv-1", body["conversionId"])
	require.Equal(t, svc.convertResult.AudioURL, body["audioUrl"])
	require.Equal(t, float64(11), body["textLength"])
	require.Equal(t, "text", body["inputType"])
	require.NotEmpty(t, body["message"])

	require.Equal(t, "u1", svc.lastInput.UserID)
	require.Equal(t, "hello world", svc.lastInput.Text)
}

func TestConvert_FileUpload(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{
		convertResult: &ports.ConvertResult{ConversionID: "conv-2", AudioURL: "https://cdn.test/a.mp3", TextLength: 4, InputType: ports.InputTypeTxt},
	}
	server := newServer(svc)
	defer server.Close()

	buf, contentType := multipartBody(t, map[string]string{"userId": "u1"}, "notes.txt", []byte("text"))

	resp, err := http.Post(server.URL+"/convert", contentType, buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.Equal(t, "notes.txt", svc.lastInput.FileName)
	require.Equal(t, []byte("text"), svc.lastInput.FileData)
	// CreateFormFile объявляет octet-stream, тип восстановлен по расширению
	require.True(t, strings.HasPrefix(svc.lastInput.FileType, "text/plain"))
}

func TestConvert_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{
		convertErr: fmt.Errorf("%w: userId is required", ports.ErrBadRequest),
	}
	server := newServer(svc)
	defer server.Close()

	buf, contentType := multipartBody(t, map[string]string{"text": "hello"}, "", nil)

	resp, err := http.Post(server.URL+"/convert", contentType, buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Bad Request", body["error"])
	require.Contains(t, body["message"], "userId")
}

func TestConvert_OversizedFile(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{}
	server := newServer(svc)
	defer server.Close()

	buf, contentType := multipartBody(t, map[string]string{"userId": "u1"}, "big.txt", make([]byte, 11<<20))

	resp, err := http.Post(server.URL+"/convert", contentType, buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Contains(t, body["message"], "10MB")
}

func TestConvert_UpstreamFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{
		convertErr: fmt.Errorf("%w: quota exceeded", ports.ErrSynthesisFailed),
	}
	server := newServer(svc)
	defer server.Close()

	buf, contentType := multipartBody(t, map[string]string{"userId": "u1", "text": "hello"}, "", nil)

	resp, err := http.Post(server.URL+"/convert", contentType, buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestList(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{
		listResult: []ports.Conversion{
			{ID: "conv-1", UserID: "u1", AudioURL: "https://cdn.test/a.mp3"},
			{ID: "conv-2", UserID: "u1", AudioURL: "https://cdn.test/b.mp3"},
		},
	}
	server := newServer(svc)
	defer server.Close()

	resp, err := http.Get(server.URL + "/conversions/u1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(2), body["count"])
	require.Len(t, body["conversions"], 2)
}

func TestList_Empty(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{}
	server := newServer(svc)
	defer server.Close()

	resp, err := http.Get(server.URL + "/conversions/u1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, float64(0), body["count"])
	require.NotNil(t, body["conversions"])
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{}
	server := newServer(svc)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/conversions/u1/conv-1", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, "conv-1", body["deletedConversionId"])
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	svc := &fakeConversionService{
		deleteErr: fmt.Errorf("%w: conv-9", ports.ErrRecordNotFound),
	}
	server := newServer(svc)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/conversions/u1/conv-9", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Not Found", body["error"])
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := newServer(&fakeConversionService{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "speakfile", body["service"])
	require.NotEmpty(t, body["timestamp"])
}
