package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"patient-access-portal/internal/ports/notify"

	"github.com/arsmn/go-smsir/smsir"
	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("sms client not configured")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

// DefaultRegion para números sin prefijo internacional.
const DefaultRegion = "MZ"

type Config struct {
	APIKey     string
	SecretKey  string
	TemplateID string
	// Region ISO 3166 usada al parsear números locales.
	Region string
}

// Sender envía el código vía sms.ir usando un template con parámetro "code".
type Sender struct {
	templateID string
	region     string
	log        *zap.Logger

	send func(ctx context.Context, req *smsir.UltraFastSendRequest) error
}

func New(cfg Config, log *zap.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.TemplateID) == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := smsir.NewClient().WithAuthentication(cfg.APIKey, cfg.SecretKey)

	return &Sender{
		templateID: strings.TrimSpace(cfg.TemplateID),
		region:     regionOrDefault(cfg.Region),
		log:        log.Named("sms"),
		send: func(ctx context.Context, req *smsir.UltraFastSendRequest) error {
			_, err := client.Verification.UltraFastSend(ctx, req)
			return err
		},
	}, nil
}

func (s *Sender) Send(ctx context.Context, contact, code string) error {
	mobile, err := NormalizePhone(contact, s.region)
	if err != nil {
		return err
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     mobile,
		TemplateID: s.templateID,
		Parameters: []smsir.UltraFastParameter{
			{Key: "code", Value: code},
		},
	}
	if err := s.send(ctx, req); err != nil {
		s.log.Warn("sms send failed", zap.String("mobile", maskPhone(mobile)), zap.Error(err))
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	s.log.Info("verification code sent", zap.String("mobile", maskPhone(mobile)))
	return nil
}

// NormalizePhone lleva el número a E.164 ("+258 84 123 4567" => "+258841234567").
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	num, err := phonenumbers.Parse(raw, regionOrDefault(region))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func regionOrDefault(r string) string {
	r = strings.ToUpper(strings.TrimSpace(r))
	if r == "" {
		return DefaultRegion
	}
	return r
}

// maskPhone deja visibles solo los últimos 3 dígitos.
func maskPhone(p string) string {
	if len(p) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(p)-3) + p[len(p)-3:]
}

var _ notify.Sender = (*Sender)(nil)
