package notify

import "context"

// Sender entrega el código de verificación fuera de banda al contacto
// registrado del paciente (SMS, webhook, log en dev).
type Sender interface {
	Send(ctx context.Context, contact, code string) error
}

// SenderFunc adapta una función a Sender (útil en tests).
type SenderFunc func(ctx context.Context, contact, code string) error

func (f SenderFunc) Send(ctx context.Context, contact, code string) error {
	return f(ctx, contact, code)
}
