// Package speech converts text to spoken audio through the ElevenLabs
// text-to-speech REST API.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ContentType is the audio format requested from the provider.
const ContentType = "audio/mpeg"

const maxErrorBody = 1024

// Audio is synthesized speech.
type Audio struct {
	Data        []byte
	ContentType string
}

// System synthesizes speech.
type System interface {
	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

type request struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type elevenLabs struct {
	client   *http.Client
	endpoint string
	apiKey   string
	modelID  string
	voice    VoiceSettings
	maxText  int
	logger   *slog.Logger
}

// New creates a speech system. A nil client uses a client with the configured timeout.
func New(cfg *Config, client *http.Client, logger *slog.Logger) System {
	if client == nil {
		client = &http.Client{Timeout: cfg.TimeoutDuration()}
	}

	return &elevenLabs{
		client:   client,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/text-to-speech/" + url.PathEscape(cfg.VoiceID),
		apiKey:   cfg.APIKey,
		modelID:  cfg.ModelID,
		voice:    cfg.Voice,
		maxText:  cfg.MaxTextLength,
		logger:   logger.With("system", "speech"),
	}
}

func (s *elevenLabs) Synthesize(ctx context.Context, text string) (*Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if n := utf8.RuneCountInString(text); n > s.maxText {
		return nil, fmt.Errorf("%w: %d > %d characters", ErrTextTooLong, n, s.maxText)
	}
	if s.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(request{
		Text:          text,
		ModelID:       s.modelID,
		VoiceSettings: s.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create speech request: %w", err)
	}
	req.Header.Set("Accept", ContentType)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesize, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf(
			"%w: provider returned %d: %s",
			ErrSynthesize, resp.StatusCode, strings.TrimSpace(string(detail)),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", ErrSynthesize, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrSynthesize)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = ContentType
	}

	s.logger.Debug("speech synthesized", "characters", len(text), "bytes", len(data))
	return &Audio{Data: data, ContentType: contentType}, nil
}
