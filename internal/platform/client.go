package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/felixgeelhaar/pressdesk/internal/log"
	"github.com/felixgeelhaar/pressdesk/internal/version"
)

// DefaultBaseURL is the backend address used when nothing else is configured.
const DefaultBaseURL = "http://localhost:8001"

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// HealthRetries is the number of retries for Health. Other calls are never retried.
	HealthRetries int
	Logger        *log.Logger
}

// Client is the pressdesk backend API client. It holds no credential: every
// authenticated method takes the bearer token explicitly.
type Client struct {
	baseURL string
	resty   *resty.Client
	health  *retryablehttp.Client
	logger  *log.Logger
}

// NewClient creates a new backend API client
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	tl := transportLogger{logger: logger.With("component", "platform")}

	restyClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(tl).
		SetHeader("User-Agent", version.UserAgent()).
		SetHeader("Accept", "application/json")

	healthClient := retryablehttp.NewClient()
	healthClient.RetryMax = max(opts.HealthRetries, 0)
	healthClient.RetryWaitMin = 200 * time.Millisecond
	healthClient.RetryWaitMax = 2 * time.Second
	healthClient.HTTPClient.Timeout = timeout
	healthClient.Logger = tl
	healthClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: baseURL,
		resty:   restyClient,
		health:  healthClient,
		logger:  logger,
	}
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	method string
	path   string
	token  string
	body   any
	// auth marks the login/register endpoints, whose non-2xx answers are
	// always credential rejections.
	auth bool
}

// do executes the call and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, rc call, out any) error {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if rc.token != "" {
		req.SetAuthToken(rc.token)
	}
	if rc.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(rc.body)
	}

	resp, err := req.Execute(rc.method, rc.path)
	if err != nil {
		return &APIError{Kind: NetworkFailure, Path: rc.path, Cause: err}
	}

	c.logger.Debug("backend response",
		"method", rc.method,
		"path", rc.path,
		"status", resp.StatusCode(),
		"duration", resp.Time())

	if !resp.IsSuccess() {
		return statusError(rc.path, resp.StatusCode(), resp.Body(), rc.auth)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{
			Kind:       MalformedResponse,
			StatusCode: resp.StatusCode(),
			Path:       rc.path,
			Cause:      fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

func malformed(path, reason string) *APIError {
	return &APIError{Kind: MalformedResponse, StatusCode: http.StatusOK, Path: path, Cause: fmt.Errorf("%s", reason)}
}

// transportLogger routes resty and retryablehttp output into the pressdesk
// logger. Failures are returned to callers, so everything is logged at debug.
type transportLogger struct {
	logger *log.Logger
}

func (t transportLogger) Errorf(format string, v ...interface{}) {
	t.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (t transportLogger) Warnf(format string, v ...interface{}) {
	t.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (t transportLogger) Debugf(format string, v ...interface{}) {
	t.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (t transportLogger) Error(msg string, keysAndValues ...interface{}) {
	t.logger.Debug(msg, keysAndValues...)
}

func (t transportLogger) Info(msg string, keysAndValues ...interface{}) {
	t.logger.Debug(msg, keysAndValues...)
}

func (t transportLogger) Debug(msg string, keysAndValues ...interface{}) {
	t.logger.Debug(msg, keysAndValues...)
}

func (t transportLogger) Warn(msg string, keysAndValues ...interface{}) {
	t.logger.Debug(msg, keysAndValues...)
}
