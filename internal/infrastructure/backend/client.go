// Package backend is the portal's HTTP client for the Girumdom REST backend
// and the text-to-speech service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.Backend over HTTP. Authenticated calls carry the
// caller's credential as a bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client for cfg.BaseURL.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// errorEnvelope covers both error shapes the backend uses.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.http
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		client = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.http), src)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return fmt.Errorf("%s: %w: %v", op, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, decodeError(resp))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeError(resp *http.Response) *domain.BackendError {
	be := &domain.BackendError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return be
	}
	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil {
		be.Message = env.Error
		if be.Message == "" {
			be.Message = env.Message
		}
	}
	return be
}
