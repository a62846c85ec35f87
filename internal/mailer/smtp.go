package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/wneessen/go-mail"

	"github.com/outreach/internal/model"
)

// TLS modes:
// - starttls connects in plain text and upgrades (port 587)
// - tls wraps the connection from the start (port 465)
// - plain never encrypts, for local relays only
const (
	TLSModeStartTLS = "starttls"
	TLSModeTLS      = "tls"
	TLSModePlain    = "plain"
)

// DefaultDialTimeout bounds connecting to the relay, TLS handshake included.
const DefaultDialTimeout = 30 * time.Second

// SMTPConfig describes the relay every message goes through.
type SMTPConfig struct {
	Host        string
	Port        int
	TLSMode     string
	DialTimeout time.Duration
}

// SMTPTransport sends mail through an SMTP relay, authenticating as the batch
// sender. A new connection is opened for every message.
type SMTPTransport struct {
	cfg SMTPConfig
}

func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port must be between 1 and 65535", ErrInvalidConfig)
	}
	cfg.TLSMode = strings.ToLower(cfg.TLSMode)
	switch cfg.TLSMode {
	case TLSModeStartTLS, TLSModeTLS, TLSModePlain:
	case "":
		cfg.TLSMode = TLSModeStartTLS
	default:
		return nil, fmt.Errorf("%w: unsupported TLS mode %q", ErrInvalidConfig, cfg.TLSMode)
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	return &SMTPTransport{cfg: cfg}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, sender, credential string, msg model.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := composeMessage(sender, msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	client, err := t.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer client.Close()

	if credential != "" {
		if err := client.Auth(sasl.NewPlainClient("", sender, credential)); err != nil {
			return fmt.Errorf("%w: authenticate: %v", ErrSendFailed, err)
		}
	}

	if err := client.SendMail(sender, []string{msg.To}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	// The message is already accepted; some relays drop the connection after DATA.
	_ = client.Quit()
	return nil
}

func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	tlsConfig := &tls.Config{ServerName: t.cfg.Host}
	dialer := &net.Dialer{Timeout: t.cfg.DialTimeout}

	var (
		conn net.Conn
		err  error
	)
	if t.cfg.TLSMode == TLSModeTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s (%s): %w", addr, t.cfg.TLSMode, err)
	}

	if t.cfg.TLSMode != TLSModeStartTLS {
		return smtp.NewClient(conn), nil
	}

	client, err := smtp.NewClientStartTLS(conn, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("starttls with %s: %w", addr, err)
	}
	return client, nil
}

// composeMessage renders msg as a MIME document: a plain text body and, if
// present, the attachment read straight from the shared bytes.
func composeMessage(sender string, msg model.Message) ([]byte, error) {
	m := mail.NewMsg()
	if err := m.From(sender); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	m.Subject(stripLineBreaks(msg.Subject))
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if a := msg.Attachment; a != nil {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write message: %w", err)
	}
	return buf.Bytes(), nil
}

func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}
