// Package push delivers push notifications to device tokens.
package push

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Result is the outcome of one delivery attempt to one token.
type Result int

const (
	// Delivered means the transport accepted the message for the token.
	Delivered Result = iota
	// InvalidToken means the token is unknown or unregistered and should be dropped.
	InvalidToken
	// TransientError means delivery failed but the token may still be valid.
	TransientError
)

func (r Result) String() string {
	switch r {
	case Delivered:
		return "delivered"
	case InvalidToken:
		return "invalid_token"
	default:
		return "transient_error"
	}
}

// Message is a notification plus optional structured data for the client.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Transport sends one message to one device token.
type Transport interface {
	Send(ctx context.Context, token string, msg Message) (Result, error)
}

// ErrDisabled is returned by the disabled transport.
var ErrDisabled = errors.New("push delivery disabled")

type disabledTransport struct {
	logger *zap.Logger
}

// NewDisabledTransport returns a Transport that delivers nothing. Used when
// push is not configured so notifications are still persisted.
func NewDisabledTransport(logger *zap.Logger) Transport {
	return &disabledTransport{logger: logger}
}

func (t *disabledTransport) Send(_ context.Context, _ string, msg Message) (Result, error) {
	t.logger.Debug("push disabled, message not sent", zap.String("title", msg.Title))
	return TransientError, ErrDisabled
}
