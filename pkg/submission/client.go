// Package submission posts completed wizards to the lead endpoints and
// translates their {success, responseId, error} replies.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// Default endpoint paths.
const (
	SurveyPath  = "/api/survey"
	InquiryPath = "/api/inquiry"
)

// Mode selects the request body shape.
type Mode string

const (
	// ModeSurvey posts {"responses": [...]}.
	ModeSurvey Mode = "survey"
	// ModeInquiry posts a flat key/value object.
	ModeInquiry Mode = "inquiry"
)

// maxReplyBytes caps how much of an endpoint reply is read.
const maxReplyBytes = 1 << 20

// SurveyRequest is the survey endpoint body.
type SurveyRequest struct {
	Responses []wizard.Response `json:"responses"`
}

// Reply is the endpoint response body.
type Reply struct {
	Success    bool   `json:"success"`
	ResponseID string `json:"responseId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithBaseURL resolves relative endpoints against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client is a wizard.Submitter for one endpoint flavour.
type Client struct {
	mode    Mode
	http    *http.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

var _ wizard.Submitter = (*Client)(nil)

// New constructs a Client posting in mode.
func New(mode Mode, opts ...Option) *Client {
	c := &Client{
		mode:    mode,
		http:    http.DefaultClient,
		timeout: 15 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// NewSurvey returns a client posting survey bodies.
func NewSurvey(opts ...Option) *Client {
	return New(ModeSurvey, opts...)
}

// NewInquiry returns a client posting flat inquiry bodies.
func NewInquiry(opts ...Option) *Client {
	return New(ModeInquiry, opts...)
}

// Submit posts sub and maps the reply. A reply without success:true yields a
// *wizard.SubmissionError carrying the endpoint's error text.
func (c *Client) Submit(ctx context.Context, sub wizard.Submission) (wizard.Result, error) {
	target, err := c.resolve(sub.Endpoint)
	if err != nil {
		return wizard.Result{}, err
	}
	body, err := c.encode(sub)
	if err != nil {
		return wizard.Result{}, err
	}

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return wizard.Result{}, fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return wizard.Result{}, &wizard.SubmissionError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return wizard.Result{}, &wizard.SubmissionError{Err: err}
	}

	var reply Reply
	decodeErr := json.Unmarshal(raw, &reply)
	c.logger.Debug("submission reply",
		zap.String("endpoint", target),
		zap.Int("status", resp.StatusCode),
		zap.Bool("success", reply.Success),
	)

	switch {
	case decodeErr != nil:
		return wizard.Result{}, &wizard.SubmissionError{Err: fmt.Errorf("decode reply (status %d): %w", resp.StatusCode, decodeErr)}
	case !reply.Success:
		var statusErr error
		if resp.StatusCode >= 300 {
			statusErr = errors.New(resp.Status)
		}
		return wizard.Result{}, &wizard.SubmissionError{Message: reply.Error, Err: statusErr}
	}
	return wizard.Result{ResponseID: reply.ResponseID}, nil
}

func (c *Client) resolve(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = SurveyPath
		if c.mode == ModeInquiry {
			endpoint = InquiryPath
		}
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint, nil
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("submission: relative endpoint %q needs a base URL", endpoint)
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint, nil
}

func (c *Client) encode(sub wizard.Submission) ([]byte, error) {
	var payload any
	switch c.mode {
	case ModeInquiry:
		fields := sub.Fields
		if fields == nil {
			fields = map[string]string{}
		}
		payload = fields
	default:
		responses := sub.Responses
		if responses == nil {
			responses = []wizard.Response{}
		}
		payload = SurveyRequest{Responses: responses}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("submission: encode body: %w", err)
	}
	return body, nil
}
