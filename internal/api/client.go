// Package api is a thin client for the todo backend's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/todolists/internal/logging"
	"github.com/idilsaglam/todolists/internal/model"
)

const (
	RequestIDHeader = "X-Request-Id"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Client talks to a todo backend. It is safe for concurrent use.
type Client struct {
	// BaseURL is the backend origin without the /api prefix, e.g. http://localhost:8058.
	BaseURL string
	// Token, when set, is sent as a bearer API key.
	Token string
	// Timeout applies to calls whose context carries no deadline.
	Timeout time.Duration

	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     logrus.FieldLogger
}

// NewClient returns a Client for baseURL which keeps session cookies in jar.
// The limiter defaults to the backend's 60 requests per minute.
func NewClient(baseURL string, jar http.CookieJar) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Timeout:    10 * time.Second,
		HTTPClient: &http.Client{Jar: jar},
		Limiter:    rate.NewLimiter(rate.Every(time.Second), 10),
		Logger:     logging.Discard(),
	}
}

type errorBody struct {
	Error *string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if _, ok := ctx.Deadline(); !ok && c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limit")
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	logger := c.Logger.WithFields(logrus.Fields{
		"request_id": reqID,
		"method":     method,
		"path":       path,
	})

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("api request failed")
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrapf(err, "%s %s: read body", method, path)
	}
	logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if err := responseError(resp.StatusCode, b); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return errors.Wrapf(err, "%s %s: decode response", method, path)
	}
	return nil
}

// responseError turns a failed status or an error payload into a *model.Error.
func responseError(status int, b []byte) error {
	var eb errorBody
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &eb)
	}

	if status >= 200 && status < 300 && eb.Error == nil {
		return nil
	}

	msg := http.StatusText(status)
	if eb.Error != nil && *eb.Error != "" {
		msg = *eb.Error
	}
	return &model.Error{Code: model.ErrCodeFromStatus(status), Message: msg}
}

// Describe renders err for display: the API's message for application errors,
// the full chain otherwise.
func Describe(err error) string {
	var e *model.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
