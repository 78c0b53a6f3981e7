// Package api is the REST client for the maintenance backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/julianstephens/mantenix/internal/constants"
	apperrors "github.com/julianstephens/mantenix/internal/errors"
	"github.com/julianstephens/mantenix/internal/logger"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoCompany    = errors.New("company id is not configured")
)

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

type Options struct {
	BaseURL   string
	CompanyID string
	Token     string
	Timeout   time.Duration
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	Breakers   BreakerSettings
}

type Client struct {
	base      *url.URL
	companyID string
	token     string
	http      *http.Client
	breakers  *BreakerRegistry
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, apperrors.Validation("new api client", "base URL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apperrors.Validation("new api client", "invalid base URL %q", opts.BaseURL)
	}
	if opts.CompanyID == "" {
		return nil, ErrNoCompany
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultRequestTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:      base,
		companyID: opts.CompanyID,
		token:     opts.Token,
		http:      hc,
		breakers:  NewBreakerRegistry(opts.Breakers),
	}, nil
}

func (c *Client) CompanyID() string { return c.companyID }

// Breakers exposes the registry for health reporting.
func (c *Client) Breakers() *BreakerRegistry { return c.breakers }

// do runs one request through the family's breaker and returns the raw body.
func (c *Client) do(ctx context.Context, family, method, path string, body interface{}) ([]byte, error) {
	out, err := c.breakers.Get(family).Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.Wrap(apperrors.KindNetwork, method+" "+path, err)
		}
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	u := c.base.JoinPath(path)
	q := u.Query()
	q.Set("companyId", c.companyID)
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Wrap(apperrors.KindNetwork, method+" "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, method+" "+path, err)
	}
	logger.Debug("API request", "method", method, "path", path, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       errorBody(data),
		}
	}
	return data, nil
}

const maxErrorBodyRunes = 200

// errorBody extracts a message from an error response, falling back to a
// truncated copy of the body.
func errorBody(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	s := strings.TrimSpace(string(data))
	if r := []rune(s); len(r) > maxErrorBodyRunes {
		s = string(r[:maxErrorBodyRunes])
	}
	return s
}
