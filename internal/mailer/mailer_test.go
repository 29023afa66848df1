package mailer

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/config"
)

// smtpStub is a minimal SMTP server that accepts every command and records
// the DATA section of each message.
type smtpStub struct {
	ln   net.Listener
	mu   sync.Mutex
	data []string
}

func newSMTPStub(t *testing.T) *smtpStub {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &smtpStub{ln: ln}
	t.Cleanup(func() { ln.Close() })
	go s.serve()
	return s
}

func (s *smtpStub) port(t *testing.T) int {
	_, p, err := net.SplitHostPort(s.ln.Addr().String())
	require.NoError(t, err)
	n, err := strconv.Atoi(p)
	require.NoError(t, err)
	return n
}

func (s *smtpStub) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *smtpStub) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	reply := func(line string) { conn.Write([]byte(line + "\r\n")) }

	reply("220 localhost ESMTP")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250 localhost")
		case cmd == "DATA":
			reply("354 go ahead")
			var body strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				body.WriteString(l)
			}
			s.mu.Lock()
			s.data = append(s.data, body.String())
			s.mu.Unlock()
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func (s *smtpStub) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data...)
}

func TestSMTPMailer_Send(t *testing.T) {
	stub := newSMTPStub(t)
	m, err := NewSMTPMailer("127.0.0.1", stub.port(t), "", "", "noreply@yamdb.local")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = m.Send(ctx, Message{To: []string{"bob@x.com"}, Subject: "Confirmation code", Body: "code: abc"})
	require.NoError(t, err)

	msgs := stub.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Subject: Confirmation code")
	assert.Contains(t, msgs[0], "bob@x.com")
	assert.Contains(t, msgs[0], "noreply@yamdb.local")
	assert.Contains(t, msgs[0], "code: abc")
}

func TestSMTPMailer_StalledServerHonoursDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	// accept and never greet
	var held []net.Conn
	var mu sync.Mutex
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range held {
			c.Close()
		}
	})

	port := ln.Addr().(*net.TCPAddr).Port
	m, err := NewSMTPMailer("127.0.0.1", port, "", "", "noreply@yamdb.local")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Send(ctx, Message{To: []string{"bob@x.com"}, Subject: "hi", Body: "code"}) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Send did not return after the context deadline")
	}
}

func TestSMTPMailer_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	m, err := NewSMTPMailer("127.0.0.1", port, "user", "pass", "noreply@yamdb.local")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, m.Send(ctx, Message{To: []string{"bob@x.com"}}))
}

func TestSMTPMailer_RejectsBadInput(t *testing.T) {
	m, err := NewSMTPMailer("127.0.0.1", 25, "", "", "noreply@yamdb.local")
	require.NoError(t, err)

	assert.ErrorContains(t, m.Send(context.Background(), Message{}), "no recipients")
	assert.ErrorContains(t, m.Send(context.Background(), Message{To: []string{"not an address"}}), "recipients")

	_, err = NewSMTPMailer("", 25, "", "", "noreply@yamdb.local")
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)), "noreply@yamdb.local")

	require.NoError(t, m.Send(context.Background(), Message{To: []string{"bob@x.com"}, Subject: "hi", Body: "code: abc"}))
	assert.Contains(t, buf.String(), "code: abc")
}

func TestNew_PicksBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	m, err := New(&config.Config{MailBackend: "smtp", SMTPHost: "h", SMTPPort: 25}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	m, err = New(&config.Config{MailBackend: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
}
