package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/codearena/judge-api/internal/types"
)

const name = "github.com/codearena/judge-api/internal/judge"

var tracer = otel.Tracer(name)

const bytesPerMegabyte int64 = 1024 * 1024

// ErrAwaitTimeout is returned when the poll attempt budget is exhausted while
// the judge still reports the run as queued or processing.
var ErrAwaitTimeout = errors.New("exhausted poll attempts waiting for judge completion")

type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to submit run to judge: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

type PollError struct {
	Token string
	Err   error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("failed to poll judge for token %q: %v", e.Token, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// Executor is the subset of the judge client that drives one run to
// completion. The evaluator consumes this.
type Executor interface {
	Submit(ctx context.Context, req types.ExecutionRequest) (string, error)
	AwaitCompletion(
		ctx context.Context,
		token string,
		maxAttempts uint64,
		interval time.Duration,
	) (*types.ExecutionResult, error)
}

// Ensure Client implements Executor interface.
var _ Executor = (*Client)(nil)

// Client talks to the external execution judge. It is stateless; a token
// returned by Submit is only meaningful to the deployment this client points
// at.
type Client struct {
	client    *http.Client
	baseURL   string
	authToken string
}

func NewClient(client *http.Client, baseURL string, authToken string) *Client {
	return &Client{
		client:    client,
		baseURL:   baseURL,
		authToken: authToken,
	}
}

type submitResponse struct {
	Token string `json:"token"`
}

// Submit sends one run to the judge and returns its token. The declared
// memory limit arrives in megabytes and is converted to the judge's byte
// convention before transmission.
func (c *Client) Submit(ctx context.Context, req types.ExecutionRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "Client.Submit", trace.WithAttributes(
		attribute.Int("language.id", req.LanguageID),
	))
	defer span.End()

	if req.MemoryLimit != nil {
		limitBytes := *req.MemoryLimit * bytesPerMegabyte
		req.MemoryLimit = &limitBytes
	}

	body, err := json.Marshal(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode execution request")
		return "", &SubmitError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/submissions?base64_encoded=false&wait=false",
		bytes.NewReader(body),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return "", &SubmitError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuth(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge unreachable")
		return "", &SubmitError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("invalid status code: %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge rejected submission")
		return "", &SubmitError{Err: err}
	}

	var parsed submitResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode judge response")
		return "", &SubmitError{Err: err}
	}

	span.SetAttributes(attribute.String("token", parsed.Token))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "submitted run")
	return parsed.Token, nil
}

// Poll fetches the current state of a run.
func (c *Client) Poll(ctx context.Context, token string) (*types.ExecutionResult, error) {
	ctx, span := tracer.Start(ctx, "Client.Poll", trace.WithAttributes(
		attribute.String("token", token),
	))
	defer span.End()

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/submissions/"+url.PathEscape(token)+"?base64_encoded=false",
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to construct request")
		return nil, &PollError{Token: token, Err: err}
	}
	c.setAuth(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge unreachable")
		return nil, &PollError{Token: token, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("invalid status code: %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge returned error status")
		return nil, &PollError{Token: token, Err: err}
	}

	var result types.ExecutionResult
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode judge response")
		return nil, &PollError{Token: token, Err: err}
	}

	span.SetAttributes(attribute.Int("status.id", result.Status.ID))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "polled run")
	return &result, nil
}

// AwaitCompletion polls until the judge reports a terminal status, sleeping
// interval between attempts. Transport failures count against the same
// attempt budget as still-queued responses; they never escape this loop as
// anything other than the final error once the budget is gone. This is the
// only judge client operation that blocks for longer than a single request.
func (c *Client) AwaitCompletion(
	ctx context.Context,
	token string,
	maxAttempts uint64,
	interval time.Duration,
) (*types.ExecutionResult, error) {
	ctx, span := tracer.Start(ctx, "Client.AwaitCompletion", trace.WithAttributes(
		attribute.String("token", token),
		attribute.Int64("maxAttempts", int64(maxAttempts)),
		attribute.String("interval", interval.String()),
	))
	defer span.End()

	if maxAttempts == 0 {
		span.RecordError(ErrAwaitTimeout)
		span.SetStatus(codes.Error, "zero poll attempt budget")
		return nil, ErrAwaitTimeout
	}

	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewConstant(interval))

	var result *types.ExecutionResult
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		polled, err := c.Poll(ctx, token)
		if err != nil {
			return retry.RetryableError(err)
		}

		if polled.Status.InFlight() {
			return retry.RetryableError(
				fmt.Errorf("%w: status %d", ErrAwaitTimeout, polled.Status.ID),
			)
		}

		result = polled
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run did not complete within poll budget")
		return nil, fmt.Errorf("%w: %w", ErrAwaitTimeout, err)
	}

	span.SetAttributes(attribute.Int("status.id", result.Status.ID))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "run completed")
	return result, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("X-Auth-Token", c.authToken)
	}
}
