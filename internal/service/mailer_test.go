package service

import (
	"context"
	"net"
	"testing"
	"time"

	"go_corporate_auth/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmtpMailerHonorsContextDeadline(t *testing.T) {
	// 接続は受けるがグリーティングを返さないサーバー
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()
	t.Cleanup(func() {
		select {
		case conn := <-accepted:
			conn.Close()
		default:
		}
	})

	m := &SmtpMailer{cfg: &config.SMTPConfig{
		Host: "127.0.0.1",
		Port: ln.Addr().(*net.TCPAddr).Port,
		From: "noreply@example.com",
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = m.Send(ctx, "alice@acme.co", "subject", "<p>html</p>", "text")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
