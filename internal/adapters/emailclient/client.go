// Package emailclient sends transactional email through an HTTP relay with a
// Postmark-compatible API.
package emailclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logging"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/secret"
)

const (
	// TokenHeader carries the server token on every request.
	TokenHeader = "X-Postmark-Server-Token"

	defaultTimeout = 10 * time.Second
	emailPath      = "email"
	userAgent      = "newsletter-api/1"
)

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the settings for creating a Client.
type Config struct {
	BaseURL            string
	Sender             domain.SubscriberEmail
	AuthorizationToken secret.String
	// Timeout bounds each Send. Defaults to 10s.
	Timeout time.Duration

	// HTTPClient overrides the default *http.Client. The per-call timeout is
	// still enforced through the request context.
	HTTPClient HTTPDoer
	Logger     *zap.Logger
}

// Client delivers one email per Send call. It never retries.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	httpClient HTTPDoer
	logger     *zap.Logger
	endpoint   string
	sender     domain.SubscriberEmail
	token      secret.String
	timeout    time.Duration
}

// sendEmailRequest is the relay's wire format.
type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("email client base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid email client base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("email client base URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("email client base URL must include a host")
	}
	if cfg.Sender.String() == "" {
		return nil, errors.New("email client sender is required")
	}
	if cfg.AuthorizationToken.IsZero() {
		return nil, errors.New("email client authorization token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: hc,
		logger:     logger.Named("email-client"),
		endpoint:   u.JoinPath(emailPath).String(),
		sender:     cfg.Sender,
		token:      cfg.AuthorizationToken,
		timeout:    timeout,
	}, nil
}

// Send POSTs a single email to the relay. A 2xx response is success; anything
// else is returned as a *DeliveryError.
func (c *Client) Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	body, err := json.Marshal(sendEmailRequest{
		From:     c.sender.String(),
		To:       recipient.String(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(TokenHeader, c.token.Expose())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		de := classifyTransportError(ctx, err)
		c.logger.Warn("Email delivery failed",
			logging.Email("recipient", recipient.String()),
			zap.Stringer("kind", de.Kind),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return de
	}
	defer func() {
		// Drain and close body to reuse connections.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Email delivery rejected",
			logging.Email("recipient", recipient.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)
		return &DeliveryError{Kind: KindRejected, Status: resp.StatusCode}
	}

	c.logger.Debug("Email delivered",
		logging.Email("recipient", recipient.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func classifyTransportError(ctx context.Context, err error) *DeliveryError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &DeliveryError{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &DeliveryError{Kind: KindTimeout, Err: err}
	}
	return &DeliveryError{Kind: KindTransport, Err: err}
}
