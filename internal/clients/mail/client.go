// Package mail provides an SMTP notification sink
package mail

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
)

// Client sends HTML reports over implicit-TLS SMTP (port 465 style).
type Client struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
	logger   *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new mail client from config.
func NewClient(cfg common.MailConfig, opts ...ClientOption) *Client {
	c := &Client{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		to:       cfg.To,
		logger:   common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SendHTML delivers an HTML body with an optional inline PNG chart. The
// chart is attached as multipart/related with Content-ID <chart> so the
// body can reference it via cid:chart. A nil chart sends plain HTML.
func (c *Client) SendHTML(ctx context.Context, subject, htmlBody string, chartPNG []byte) error {
	msg := buildMessage(c.from, c.to, subject, htmlBody, chartPNG)

	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	dialer := &net.Dialer{}
	tlsConn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: c.host})
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server %s: %w", addr, err)
	}

	client, err := smtp.NewClient(tlsConn, c.host)
	if err != nil {
		tlsConn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	// Honor context cancellation for the handshake onward.
	if deadline, ok := ctx.Deadline(); ok {
		tlsConn.SetDeadline(deadline)
	}

	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth failed: %w", err)
	}

	if err := client.Mail(c.from); err != nil {
		return fmt.Errorf("SMTP MAIL failed: %w", err)
	}
	if err := client.Rcpt(c.to); err != nil {
		return fmt.Errorf("SMTP RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize message: %w", err)
	}

	if err := client.Quit(); err != nil {
		c.logger.Warn().Err(err).Msg("SMTP QUIT failed after delivery")
	}

	c.logger.Info().Str("to", c.to).Str("subject", subject).Msg("Report email sent")
	return nil
}

// buildMessage assembles the raw RFC 2822 message bytes.
func buildMessage(from, to, subject, htmlBody string, chartPNG []byte) []byte {
	var sb strings.Builder

	boundary := "pulse-boundary-7a3f1c"

	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")

	if chartPNG == nil {
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		sb.WriteString("\r\n")
		sb.WriteString(htmlBody)
		return []byte(sb.String())
	}

	fmt.Fprintf(&sb, "Content-Type: multipart/related; boundary=%q\r\n", boundary)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: image/png\r\n")
	sb.WriteString("Content-Transfer-Encoding: base64\r\n")
	sb.WriteString("Content-ID: <chart>\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(chartPNG)))
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s--\r\n", boundary)

	return []byte(sb.String())
}

// wrapBase64 folds base64 content at 76 columns per RFC 2045.
func wrapBase64(s string) string {
	const width = 76
	var sb strings.Builder
	for len(s) > width {
		sb.WriteString(s[:width])
		sb.WriteString("\r\n")
		s = s[width:]
	}
	sb.WriteString(s)
	return sb.String()
}

// Ensure Client implements MailClient
var _ interfaces.MailClient = (*Client)(nil)
