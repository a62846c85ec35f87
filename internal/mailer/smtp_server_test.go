package mailer

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreach/internal/model"
)

type delivery struct {
	from string
	to   []string
	data string
}

// relay is an in-process SMTP server that accepts one username/password pair.
type relay struct {
	username string
	password string

	mu        sync.Mutex
	delivered []delivery
}

func (r *relay) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &relaySession{relay: r}, nil
}

func (r *relay) deliveries() []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]delivery(nil), r.delivered...)
}

type relaySession struct {
	relay  *relay
	authed bool
	cur    delivery
}

func (s *relaySession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *relaySession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != s.relay.username || password != s.relay.password {
			return errors.New("invalid credentials")
		}
		s.authed = true
		return nil
	}), nil
}

func (s *relaySession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}
	s.cur = delivery{from: from}
	return nil
}

func (s *relaySession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.cur.to = append(s.cur.to, to)
	return nil
}

func (s *relaySession) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.cur.data = string(b)

	s.relay.mu.Lock()
	s.relay.delivered = append(s.relay.delivered, s.cur)
	s.relay.mu.Unlock()
	return nil
}

func (s *relaySession) Reset()        { s.cur = delivery{} }
func (s *relaySession) Logout() error { return nil }

// startRelay serves r on a loopback port and returns a plain-text transport
// pointed at it.
func startRelay(t *testing.T, r *relay) *SMTPTransport {
	t.Helper()

	srv := smtp.NewServer(r)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(l)
	t.Cleanup(func() { srv.Close() })

	addr := l.Addr().(*net.TCPAddr)
	tr, err := NewSMTPTransport(SMTPConfig{Host: "127.0.0.1", Port: addr.Port, TLSMode: TLSModePlain})
	require.NoError(t, err)
	return tr
}

func TestSMTPSend_DeliversThroughRelay(t *testing.T) {
	t.Parallel()

	r := &relay{username: "me@gmail.com", password: "abcd efgh"}
	tr := startRelay(t, r)

	msg := model.Message{
		To:      "hr@acme.com",
		Subject: "Application to Acme",
		Body:    "Hello Acme",
		Attachment: &model.Attachment{
			Filename:    "cv.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4 resume"),
		},
	}

	err := tr.Send(context.Background(), "me@gmail.com", "abcd efgh", msg)
	require.NoError(t, err)

	got := r.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, "me@gmail.com", got[0].from)
	assert.Equal(t, []string{"hr@acme.com"}, got[0].to)
	assert.Contains(t, got[0].data, "Subject: Application to Acme")
	assert.Contains(t, got[0].data, `filename="cv.pdf"`)
}

func TestSMTPSend_BadCredential(t *testing.T) {
	t.Parallel()

	r := &relay{username: "me@gmail.com", password: "abcd efgh"}
	tr := startRelay(t, r)

	err := tr.Send(context.Background(), "me@gmail.com", "wrong", model.Message{To: "hr@acme.com", Body: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.True(t, strings.Contains(err.Error(), "authenticate"), err.Error())
	assert.Empty(t, r.deliveries())
}

func TestSMTPSend_RelayUnreachable(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	tr, err := NewSMTPTransport(SMTPConfig{Host: "127.0.0.1", Port: port, TLSMode: TLSModePlain})
	require.NoError(t, err)
	assert.Equal(t, DefaultDialTimeout, tr.cfg.DialTimeout)

	err = tr.Send(context.Background(), "me@gmail.com", "key", model.Message{To: "hr@acme.com", Body: "x"})
	assert.ErrorIs(t, err, ErrSendFailed)
}
