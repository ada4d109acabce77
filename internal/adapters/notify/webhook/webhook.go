package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"patient-access-portal/internal/platform/httpclient"
	"patient-access-portal/internal/ports/notify"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("webhook url not configured")

type Config struct {
	URL     string
	Timeout time.Duration
	// Headers extra (p.ej. Authorization del gateway SMS).
	Headers map[string]string
}

// Sender entrega el código a un gateway HTTP propio (POST JSON).
type Sender struct {
	client  *httpclient.Client
	url     string
	headers map[string]string
	log     *zap.Logger
	now     func() time.Time
}

type payload struct {
	Contact string    `json:"contact"`
	Code    string    `json:"code"`
	SentAt  time.Time `json:"sent_at"`
}

func New(cfg Config, log *zap.Logger) (*Sender, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, ErrNotConfigured
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return nil, fmt.Errorf("webhook url must be absolute: %q", u)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{
		client:  httpclient.New(cfg.Timeout),
		url:     u,
		headers: cfg.Headers,
		log:     log.Named("webhook"),
		now:     time.Now,
	}, nil
}

func (s *Sender) Send(ctx context.Context, contact, code string) error {
	in := payload{Contact: contact, Code: code, SentAt: s.now().UTC()}

	if err := s.client.DoJSON(ctx, http.MethodPost, s.url, s.headers, in, nil); err != nil {
		s.log.Warn("webhook delivery failed", zap.String("url", s.url), zap.Error(err))
		return fmt.Errorf("webhook send: %w", err)
	}
	return nil
}

var _ notify.Sender = (*Sender)(nil)
