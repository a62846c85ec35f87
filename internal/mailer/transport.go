// Package mailer renders per-recipient messages and delivers them.
package mailer

import (
	"context"
	"errors"

	"github.com/outreach/internal/model"
)

var (
	ErrSendFailed    = errors.New("mailer: send failed")
	ErrInvalidConfig = errors.New("mailer: invalid configuration")
)

// Transport delivers one rendered message. Implementations must not keep
// state between calls; every call authenticates with the credential it is given.
type Transport interface {
	Send(ctx context.Context, sender, credential string, msg model.Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, sender, credential string, msg model.Message) error

func (f TransportFunc) Send(ctx context.Context, sender, credential string, msg model.Message) error {
	return f(ctx, sender, credential, msg)
}
