package sendgrid

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sg "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	SubjectPrefix    string
	MaxRetries       int
}

type EmailAddress struct {
	Email string
	Name  string
}

type SendEmailRequest struct {
	From       *EmailAddress
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

type client struct {
	log  *logger.Logger
	cfg  Config
	from *sgmail.Email
	// send is replaced in tests.
	send func(ctx context.Context, body []byte) (int, map[string][]string, error)
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.DefaultFromEmail) == "" {
		return nil, fmt.Errorf("missing SENDGRID_FROM_EMAIL")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHost
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	c := &client{
		log:  log.With("client", "SendGridClient"),
		cfg:  cfg,
		from: sgmail.NewEmail(cfg.DefaultFromName, cfg.DefaultFromEmail),
	}
	c.send = c.sendHTTP
	return c, nil
}

func (c *client) sendHTTP(ctx context.Context, body []byte) (int, map[string][]string, error) {
	req := sg.GetRequest(c.cfg.APIKey, endpoint, c.cfg.BaseURL)
	req.Method = http.MethodPost
	req.Body = body
	res, err := sg.MakeRequestWithContext(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, res.Headers, nil
}

func (c *client) build(req SendEmailRequest) (*sgmail.SGMailV3, error) {
	if len(req.To) == 0 {
		return nil, fmt.Errorf("email needs at least one recipient")
	}
	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.HTML) == "" {
		return nil, fmt.Errorf("email needs text or html content")
	}

	p := sgmail.NewPersonalization()
	p.Subject = c.cfg.SubjectPrefix + req.Subject
	for _, to := range req.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Email))
	}

	m := sgmail.NewV3Mail()
	from := c.from
	if req.From != nil {
		from = sgmail.NewEmail(req.From.Name, req.From.Email)
	}
	m.SetFrom(from)
	m.AddPersonalizations(p)
	if req.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", req.Text))
	}
	if req.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", req.HTML))
	}
	if len(req.Categories) > 0 {
		m.AddCategories(req.Categories...)
	}
	return m, nil
}

// Send posts one message, retrying throttled and 5xx responses with backoff.
func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	m, err := c.build(req)
	if err != nil {
		return nil, err
	}
	body := sgmail.GetRequestBody(m)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * 250 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		status, headers, err := c.send(ctx, body)
		if err != nil {
			lastErr = err
			continue
		}
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("sendgrid status %d", status)
			c.log.Warn("sendgrid retryable response", "status", status, "attempt", attempt+1)
			continue
		}
		if status >= http.StatusBadRequest {
			return nil, fmt.Errorf("sendgrid rejected message: status %d", status)
		}
		return &SendEmailResult{StatusCode: status, MessageID: firstHeader(headers, "X-Message-Id")}, nil
	}
	return nil, fmt.Errorf("sendgrid send failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

func firstHeader(h map[string][]string, key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
