// Package planapi is the HTTP client for the plan service: fetching
// clarifying questions, continuation decisions, and generated plans.
package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"coachai/internal/coach"
)

// ErrMalformedResponse indicates the service answered 2xx but the body is
// missing required fields. Checked with errors.Is.
var ErrMalformedResponse = errors.New("malformed plan service response")

// DefaultTimeout bounds a single plan service call. Plan generation goes
// through a model and can take a while.
const DefaultTimeout = 2 * time.Minute

// Client calls the plan service over HTTP with JSON bodies.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a client for the service at baseURL (no trailing slash needed).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type clarifyRequest struct {
	Goal string `json:"goal"`
}

type clarifyResponse struct {
	Questions []string `json:"questions"`
}

type conversationRequest struct {
	Goal    string         `json:"goal"`
	QAPairs []coach.QAPair `json:"qa_pairs"`
}

// Clarify fetches the initial clarifying questions for a goal.
func (c *Client) Clarify(ctx context.Context, goal string) ([]string, error) {
	var resp clarifyResponse
	if err := c.post(ctx, "/api/clarify", clarifyRequest{Goal: goal}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions returned", ErrMalformedResponse)
	}
	return resp.Questions, nil
}

// Continue asks the service whether another clarifying question is needed.
func (c *Client) Continue(ctx context.Context, goal string, qaPairs []coach.QAPair) (coach.Decision, error) {
	var decision coach.Decision
	if err := c.post(ctx, "/api/continue", conversationRequest{Goal: goal, QAPairs: qaPairs}, &decision); err != nil {
		return coach.Decision{}, err
	}
	if decision.Action == "" {
		return coach.Decision{}, fmt.Errorf("%w: decision has no action", ErrMalformedResponse)
	}
	return decision, nil
}

// GeneratePlan requests a full plan. The response is validated once here so
// downstream code never has to access plan fields defensively.
func (c *Client) GeneratePlan(ctx context.Context, goal string, qaPairs []coach.QAPair) (*coach.Plan, error) {
	var plan coach.Plan
	if err := c.post(ctx, "/api/plan", conversationRequest{Goal: goal, QAPairs: qaPairs}, &plan); err != nil {
		return nil, err
	}
	if err := validatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// validatePlan fails fast on responses missing required fields. Steps may
// be empty only for a goal classified impossible.
func validatePlan(p *coach.Plan) error {
	if p.Goal == "" {
		return fmt.Errorf("%w: plan has no goal", ErrMalformedResponse)
	}
	impossible := p.RealisticHoursNeeded != nil && p.RealisticHoursNeeded.Impossible
	if len(p.Steps) == 0 && !impossible {
		return fmt.Errorf("%w: plan has no steps", ErrMalformedResponse)
	}
	return nil
}

// post sends a JSON request and decodes a JSON response. Any non-2xx
// status is a failure; the body is read (briefly) for the error message.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("plan service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("plan service returned %s: %s", resp.Status, bytes.TrimSpace(detail))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
