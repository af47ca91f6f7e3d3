package notifier

import "context"

// Notifier delivers bot messages to the operator.
type Notifier interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Noop is used when Telegram is not configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Send(_ string) error { return nil }
func (n *Noop) SendWithRetry(_ context.Context, _ string, _ int) error { return nil }
