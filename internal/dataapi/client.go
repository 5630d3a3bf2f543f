package dataapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

// Client dispatches Data API commands: it is stateless between calls,
// per spec.md 4.7 ("the client is stateless between calls; per-call
// state is the timeout manager plus the request id").
type Client struct {
	Fetcher fetcher.Fetcher
	Engine  *serdes.Engine
	Bus     *events.Bus
	// MaxRetries bounds the safely-retryable transport retry loop
	// below (0 disables retries entirely).
	MaxRetries int
}

// NewClient builds a dataapi.Client over the given transport, ser/des
// engine, and event bus.
func NewClient(f fetcher.Fetcher, engine *serdes.Engine, bus *events.Bus) *Client {
	return &Client{Fetcher: f, Engine: engine, Bus: bus, MaxRetries: 3}
}

// DispatchParams names one command invocation's routing and
// serialization inputs.
type DispatchParams struct {
	Endpoint          string
	APIPath           string
	Keyspace          string
	CollectionOrTable string
	Headers           map[string]string
	Command           Command
	Target            serdes.Target
	Category          options.Category
	TimeoutMode       timeoutmgr.Mode
	Timeouts          options.TimeoutDescriptor
	BigNumbers        bool
}

// Dispatch serializes, sends, and interprets one Data API command. It
// emits commandStarted before the attempt and exactly one of
// commandSucceeded/commandFailed after (spec.md Testable Property 3),
// plus commandWarnings when the response carries any.
func (c *Client) Dispatch(ctx context.Context, p DispatchParams) (Envelope, error) {
	requestID := uuid.NewString()
	url := BuildURL(p.Endpoint, p.APIPath, p.Keyspace, p.CollectionOrTable)
	start := time.Now()

	c.emit(&events.Event{
		Kind: options.EventCommandStarted, RequestID: requestID, Name: p.Command.Name,
		Timestamp: start, Keyspace: p.Keyspace, URL: url, Command: p.Command.Body,
	})

	env, err := c.dispatchOnce(ctx, p, url, requestID)
	duration := time.Since(start)

	if err != nil {
		c.emit(&events.Event{
			Kind: options.EventCommandFailed, RequestID: requestID, Name: p.Command.Name,
			Timestamp: time.Now(), Keyspace: p.Keyspace, URL: url, Duration: duration, Err: err,
		})
		return Envelope{}, err
	}

	if env.HasWarnings() {
		c.emit(&events.Event{
			Kind: options.EventCommandWarnings, RequestID: requestID, Name: p.Command.Name,
			Timestamp: time.Now(), Keyspace: p.Keyspace, URL: url, Warnings: env.Status.Warnings,
		})
	}
	c.emit(&events.Event{
		Kind: options.EventCommandSucceeded, RequestID: requestID, Name: p.Command.Name,
		Timestamp: time.Now(), Keyspace: p.Keyspace, URL: url, Duration: duration,
	})
	return env, nil
}

func (c *Client) emit(e *events.Event) {
	if c.Bus != nil {
		c.Bus.Emit(e)
	}
}

// dispatchOnce serializes the body, runs the transport with the
// safely-retryable backoff loop, and parses the envelope, promoting a
// non-empty errors[] to a ResponseError.
func (c *Client) dispatchOnce(ctx context.Context, p DispatchParams, url, requestID string) (Envelope, error) {
	serialized, err := c.Engine.Serialize(p.Target, p.Command.Body)
	if err != nil {
		return Envelope{}, err
	}
	body, err := json.Marshal(map[string]any{p.Command.Name: serialized})
	if err != nil {
		return Envelope{}, err
	}

	headers := make(map[string]string, len(p.Headers)+2)
	for k, v := range p.Headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	headers["X-Request-Id"] = requestID

	mgr := timeoutmgr.New(p.TimeoutMode, p.Timeouts, p.Category)

	var resp fetcher.Response
	retryErr := c.withRetry(ctx, func() error {
		deadline, mkErr := mgr.Advance()
		attemptCtx := ctx
		if deadline > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, deadline)
			defer cancel()
		}
		r, fetchErr := c.Fetcher.Fetch(attemptCtx, fetcher.Request{
			URL: url, Method: "POST", Headers: headers, Body: body, Deadline: deadline,
		})
		if fetchErr != nil {
			if attemptCtx.Err() != nil {
				return backoff.Permanent(mkErr())
			}
			return classify(fetchErr)
		}
		resp = r
		return nil
	})
	if retryErr != nil {
		return Envelope{}, retryErr
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return Envelope{}, &FetchError{Err: err}
	}
	if env.HasErrors() {
		return Envelope{}, &ResponseError{Descriptors: env.Errors, Raw: env}
	}

	if err := c.deserializeData(&env, p.BigNumbers); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

func (c *Client) deserializeData(env *Envelope, bigNumbers bool) error {
	if env.Data == nil {
		return nil
	}
	var schema serdes.ProjectionSchema
	if env.Status != nil {
		schema = env.Status.ProjectionSchema
	}
	if env.Data.Document != nil {
		out, err := c.Engine.Deserialize(serdes.TargetRecord, any(env.Data.Document), schema, bigNumbers)
		if err != nil {
			return err
		}
		env.Data.Document = out.(map[string]any)
	}
	for i, doc := range env.Data.Documents {
		out, err := c.Engine.Deserialize(serdes.TargetRecord, any(doc), schema, bigNumbers)
		if err != nil {
			return err
		}
		env.Data.Documents[i] = out.(map[string]any)
	}
	return nil
}

// classify wraps a fetcher-level failure for the retry loop: transport
// errors that occurred before any bytes were exchanged with the server
// (a connect/DNS failure in the dial step) are safely retryable;
// everything else is permanent, matching spec.md 4.7's "retry only on
// network-level errors classified safely retryable" / never for
// ambiguous failures.
func classify(err error) error {
	te, ok := err.(*fetcher.TransportError)
	if !ok {
		return backoff.Permanent(&FetchError{Err: err})
	}
	var opErr *net.OpError
	if te.Cancelled || te.Op != "do request" || !errors.As(te.Err, &opErr) || opErr.Op != "dial" {
		return backoff.Permanent(&FetchError{Err: te})
	}
	return &FetchError{Err: te}
}

// withRetry runs fn with jittered exponential backoff, allowing up to
// MaxRetries retries after the first attempt and stopping at the first
// backoff.Permanent error.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	if c.MaxRetries <= 0 {
		return fn()
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.MaxRetries)), ctx)
	return backoff.Retry(fn, bo)
}
