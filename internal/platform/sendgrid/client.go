package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/kanoon-backend/internal/platform/envutil"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
	MaxRetries       int
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:           envutil.String("SENDGRID_API_KEY", "", nil),
		BaseURL:          envutil.String("SENDGRID_BASE_URL", "https://api.sendgrid.com", log),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", "", log),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "KanoonAI", log),
		Timeout:          envutil.Seconds("SENDGRID_TIMEOUT_SECONDS", 30*time.Second, log),
		MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 3, log),
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{
		log:        log.With("client", "SendGridClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseDelay:  time.Second,
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	baseDelay  time.Duration
}

type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SendEmailRequest struct {
	From       EmailAddress
	ReplyTo    *EmailAddress
	To         []EmailAddress
	Subject    string
	Text       string
	HTML       string
	Categories []string
}

type SendEmailResult struct {
	StatusCode int
	MessageID  string
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             EmailAddress      `json:"from"`
	ReplyTo          *EmailAddress     `json:"reply_to,omitempty"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
	Categories       []string          `json:"categories,omitempty"`
}

type personalization struct {
	To []EmailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("sendgrid client unavailable")
	}
	if strings.TrimSpace(req.From.Email) == "" {
		req.From.Email = c.cfg.DefaultFromEmail
		if strings.TrimSpace(req.From.Name) == "" {
			req.From.Name = c.cfg.DefaultFromName
		}
	}
	req.From.Email = strings.TrimSpace(req.From.Email)
	req.Subject = strings.TrimSpace(req.Subject)

	if req.From.Email == "" {
		return nil, fmt.Errorf("sendgrid: From.Email required (or set SENDGRID_FROM_EMAIL)")
	}
	if len(req.To) == 0 {
		return nil, fmt.Errorf("sendgrid: To required")
	}
	if req.Subject == "" {
		return nil, fmt.Errorf("sendgrid: Subject required")
	}
	contents := []mailContent{}
	if t := strings.TrimSpace(req.Text); t != "" {
		contents = append(contents, mailContent{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(req.HTML); h != "" {
		contents = append(contents, mailContent{Type: "text/html", Value: h})
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("sendgrid: Text or HTML content required")
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{To: req.To}},
		From:             req.From,
		ReplyTo:          req.ReplyTo,
		Subject:          req.Subject,
		Content:          contents,
		Categories:       req.Categories,
	}
	resp, err := c.do(ctx, http.MethodPost, "/v3/mail/send", wire)
	if err != nil {
		return nil, err
	}
	return &SendEmailResult{
		StatusCode: resp.StatusCode,
		MessageID:  strings.TrimSpace(resp.Header.Get("X-Message-Id")),
	}, nil
}

type errorItem struct {
	Message string `json:"message"`
	Field   any    `json:"field,omitempty"`
}

type errorResponse struct {
	Errors []errorItem `json:"errors"`
}

type HTTPError struct {
	StatusCode int
	Body       string
	Errors     []errorItem
	retryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "sendgrid: <nil error>"
	}
	if len(e.Errors) > 0 && strings.TrimSpace(e.Errors[0].Message) != "" {
		return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Errors[0].Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, msg)
}

func (c *client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	backoff := c.baseDelay
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			return resp, nil
		}
		if !isRetryable(err) || attempt >= c.cfg.MaxRetries {
			return nil, err
		}
		sleepFor := backoff
		var he *HTTPError
		if errors.As(err, &he) && he.retryAfter > 0 {
			sleepFor = he.retryAfter
		}
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		if sleepFor > 0 {
			sleepFor += time.Duration(rand.Int63n(int64(sleepFor)/4 + 1))
		}
		c.log.Warn("SendGrid request retrying", "path", path, "attempt", attempt+1, "sleep", sleepFor.String(), "error", err.Error())

		timer := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 {
			he.Errors = er.Errors
		}
		if secs, convErr := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); convErr == nil && secs > 0 {
			he.retryAfter = time.Duration(secs) * time.Second
		}
		return nil, he
	}
	return resp, nil
}

func isRetryable(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}
