package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"parla/internal/session"
)

const defaultRequestTimeout = 60 * time.Second

// Whisper talks to a whisper.cpp-compatible inference server over HTTP
// multipart. It implements the session transcriber.
type Whisper struct {
	endpoint string
	apiKey   string
	language string
	client   *http.Client
}

// Option tunes a Whisper client.
type Option func(*Whisper)

// WithAPIKey sets a bearer token for hosted endpoints.
func WithAPIKey(key string) Option {
	return func(w *Whisper) { w.apiKey = key }
}

// WithLanguage pins the recognition language instead of auto-detect.
func WithLanguage(language string) Option {
	return func(w *Whisper) { w.language = language }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Whisper) { w.client = client }
}

// NewWhisper builds a client for one inference endpoint.
func NewWhisper(endpoint string, opts ...Option) *Whisper {
	w := &Whisper{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Transcribe posts the captured buffer as a WAV file and returns the text.
func (w *Whisper) Transcribe(ctx context.Context, buffer session.AudioBuffer) (string, error) {
	if len(buffer.PCM) == 0 {
		return "", errors.New("empty audio buffer")
	}

	sampleRate := buffer.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	channels := buffer.Channels
	if channels <= 0 {
		channels = 1
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(encodeWAV(buffer.PCM, sampleRate, channels)); err != nil {
		return "", err
	}

	writer.WriteField("response_format", "json")
	if w.language != "" {
		writer.WriteField("language", w.language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post audio: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference server error %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("parse inference response: %w", err)
	}
	return decoded.Text, nil
}
