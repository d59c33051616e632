package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

const maxAudioBytes = 25 << 20

// TTSConfig holds the text-to-speech service settings.
type TTSConfig struct {
	URL     string
	Timeout time.Duration
}

// Synthesizer calls the text-to-speech service. It implements
// ports.NarrationSynthesizer.
type Synthesizer struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

// NewSynthesizer returns a Synthesizer posting to cfg.URL.
func NewSynthesizer(cfg TTSConfig, log zerolog.Logger) *Synthesizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Synthesizer{url: cfg.URL, http: &http.Client{Timeout: timeout}, log: log}
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang domain.NarrationLanguage) ([]byte, string, error) {
	buf, err := json.Marshal(synthesizeRequest{Text: text, Language: string(lang)})
	if err != nil {
		return nil, "", fmt.Errorf("synthesize: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(buf))
	if err != nil {
		return nil, "", fmt.Errorf("synthesize: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues("tts_synthesize", "error").Observe(time.Since(start).Seconds())
		return nil, "", fmt.Errorf("synthesize: %w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues("tts_synthesize", strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("synthesize: %w", decodeError(resp))
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, "", fmt.Errorf("synthesize: read audio: %w", err)
	}
	s.log.Debug().Str("language", string(lang)).Int("bytes", len(audio)).Msg("speech synthesized")
	return audio, resp.Header.Get("Content-Type"), nil
}
