package invitation

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

	"github.com/spigell/hire-agent/internal/logger"
	"github.com/spigell/hire-agent/internal/utils"
	"go.uber.org/zap"
)

const (
	contentType    = "application/json"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 2000
)

// Client posts invitations to the external invitation API.
type Client struct {
	url            string
	recruiterEmail string
	http           *http.Client
	logger         *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger.WithFields(l)
	}
}

// WithRecruiterEmail sets the address used when a request carries none.
func WithRecruiterEmail(email string) Option {
	return func(cl *Client) {
		cl.recruiterEmail = strings.TrimSpace(email)
	}
}

// NewClient returns a client for the API at url.
func NewClient(url string, opts ...Option) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("invitation api url is not configured")
	}

	c := &Client{
		url:    url,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type apiRequest struct {
	RecruiterEmail         string `json:"recruiter_email"`
	JDContent              string `json:"jd_content"`
	InterviewerRequirement string `json:"interviewer_requirement"`
	ResumeText             string `json:"resume_text"`
}

type apiResponse struct {
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	JobTitle string          `json:"job_title"`
	UserID   json.RawMessage `json:"user_id"`
	Message  string          `json:"message"`
}

// Send posts one invitation. A non-2xx answer yields *UpstreamAPIError with
// the response body.
func (c *Client) Send(ctx context.Context, req Request) (*Result, error) {
	email := strings.TrimSpace(req.RecruiterEmail)
	if email == "" {
		email = c.recruiterEmail
	}

	payload, err := json.Marshal(apiRequest{
		RecruiterEmail:         email,
		JDContent:              req.JD,
		InterviewerRequirement: req.InterviewerRequirement,
		ResumeText:             req.Resume,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal invitation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build invitation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentType)

	log := c.logger.With(logger.StringFields(
		logger.StringField{Key: logger.FieldCorrelationID, Value: req.CorrelationID},
	)...)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error("invitation api request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("send invitation: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read invitation response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error("invitation api returned an error",
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, &UpstreamAPIError{StatusCode: resp.StatusCode, Body: utils.Head(strings.TrimSpace(string(body)), maxErrorBody)}
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode invitation response: %w", err)
	}

	log.Info("invitation sent",
		zap.String("candidate_email", decoded.Email),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Email:    decoded.Email,
		Name:     decoded.Name,
		JobTitle: decoded.JobTitle,
		UserID:   rawID(decoded.UserID),
		Message:  decoded.Message,
	}, nil
}

// rawID accepts numeric and string ids.
func rawID(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}
