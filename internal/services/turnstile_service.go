package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jumpinai/intake-service/internal/dtos"
	"github.com/jumpinai/intake-service/internal/utils"
)

const (
	TurnstileVerifyURL      = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	DefaultTurnstileTimeout = 10 * time.Second

	maxVerifyResponseBytes = 64 << 10
)

// BotCheckService decides whether a challenge token came from a human.
// Verify never returns an error: every failure mode is a rejection.
type BotCheckService interface {
	Verify(ctx context.Context, token, remoteIP string) bool
	Ping(ctx context.Context) error
}

type TurnstileOption func(*turnstileService)

// WithTurnstileEndpoint overrides the siteverify URL (tests, regional proxies).
func WithTurnstileEndpoint(url string) TurnstileOption {
	return func(s *turnstileService) {
		if url != "" {
			s.endpoint = url
		}
	}
}

// WithTurnstileTimeout bounds the single outbound call.
func WithTurnstileTimeout(d time.Duration) TurnstileOption {
	return func(s *turnstileService) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithTurnstileHTTPClient swaps the transport entirely. The client's own
// Timeout is kept as-is.
func WithTurnstileHTTPClient(c *http.Client) TurnstileOption {
	return func(s *turnstileService) {
		if c != nil {
			s.client = c
		}
	}
}

type turnstileService struct {
	secretKey string
	endpoint  string
	client    *http.Client
}

// NewTurnstileService builds the gate around a server-held secret. An empty
// secret yields a gate that rejects everything.
func NewTurnstileService(secretKey string, opts ...TurnstileOption) BotCheckService {
	s := &turnstileService{
		secretKey: secretKey,
		endpoint:  TurnstileVerifyURL,
		client:    &http.Client{Timeout: DefaultTurnstileTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *turnstileService) Verify(ctx context.Context, token, remoteIP string) bool {
	if s.secretKey == "" {
		utils.Logger.Error("Turnstile secret key not configured; rejecting token")
		return false
	}

	body, err := json.Marshal(dtos.TurnstileVerifyRequest{
		Secret:   s.secretKey,
		Response: token,
		RemoteIP: remoteIP,
	})
	if err != nil {
		utils.Logger.WithError(err).Error("Encoding Turnstile verify request")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		utils.Logger.WithError(err).Error("Building Turnstile verify request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		entry := utils.Logger.WithError(err)
		if errors.Is(err, context.Canceled) {
			entry.Info("Turnstile verification abandoned; request cancelled")
		} else {
			entry.Warn("Turnstile verification transport failure")
		}
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxVerifyResponseBytes))
		utils.Logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"reason": http.StatusText(resp.StatusCode),
		}).Warn("Turnstile verification endpoint returned non-2xx")
		return false
	}

	var out dtos.TurnstileVerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxVerifyResponseBytes)).Decode(&out); err != nil {
		utils.Logger.WithError(err).Warn("Turnstile verification response is not valid JSON")
		return false
	}

	if !out.Success {
		utils.Logger.WithFields(logrus.Fields{
			"error_codes": out.ErrorCodes,
			"hostname":    out.Hostname,
		}).Info("Turnstile token rejected")
		return false
	}

	return true
}

func (s *turnstileService) Ping(_ context.Context) error {
	if s.secretKey == "" {
		return errors.New("turnstile secret key not configured")
	}
	return nil
}
