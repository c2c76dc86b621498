// Package client is a typed wrapper over the RishStay HTTP API. Calls that
// need authentication take an explicit *Session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dcode-github/rishstay/models"
)

const tokenHeader = "auth-token"

// Session identifies a signed-in user.
type Session struct {
	Token  string
	UserID string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
	Errors  []models.FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("rishstay: %d %s", e.Status, e.Message)
	}
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("rishstay: %d %s (%s)", e.Status, e.Message, strings.Join(fields, "; "))
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  []models.FieldError `json:"errors"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	session     *Session
	body        io.Reader
	contentType string
}

func (c *Client) jsonRequest(method, path string, s *Session, payload interface{}) (*request, error) {
	req := &request{method: method, path: path, session: s}
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		req.body = bytes.NewReader(buf)
		req.contentType = "application/json"
	}
	return req, nil
}

// do sends req and decodes the data member of the response into out.
func (c *Client) do(ctx context.Context, req *request, out interface{}) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.session != nil {
		httpReq.Header.Set(tokenHeader, req.session.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message, Errors: env.Errors}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, s *Session, payload, out interface{}) error {
	req, err := c.jsonRequest(method, path, s, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, req, out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}
