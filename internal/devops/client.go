// Copyright DataStax, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package devops implements the DevOps HTTP client (C8): the same
// dispatch scaffolding as C7, generalized with long-running command
// polling. Grounded on the teacher's astraops.AuthenticatedClient
// (newHTTPClient transport tuning, setHeaders, readErrorFromResponse,
// WaitUntil), with its concrete ACTIVE/TERMINATED-only polling loop
// generalized into a reusable legal-states state machine; in this
// module only the database create/terminate commands poll through it.
package devops

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/options"
)

// Client dispatches DevOps commands against a fixed base URL.
type Client struct {
	Fetcher fetcher.Fetcher
	Bus     *events.Bus
	BaseURL string
}

// NewClient builds a devops.Client over the given transport, pointed
// at baseURL (spec.md 6.3: `https://api.astra.datastax.com/v2` plus
// `-dev`/`-test` variants).
func NewClient(f fetcher.Fetcher, bus *events.Bus, baseURL string) *Client {
	return &Client{Fetcher: f, Bus: bus, BaseURL: baseURL}
}

// Params names one DevOps call's routing/serialization inputs.
type Params struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    any
	Timeout time.Duration
	// Name identifies the admin command for events (e.g. "createDatabase").
	Name string
}

// Result is a raw DevOps response: status code, headers, and decoded
// body bytes (left undecoded since each caller knows its own payload
// shape).
type Result struct {
	Status  int
	Headers map[string][]string
	Body    []byte
}

// Dispatch sends one DevOps request and promotes a non-2xx status to
// ResponseError. It emits adminCommandStarted before the attempt and
// exactly one of adminCommandSucceeded/adminCommandFailed after.
func (c *Client) Dispatch(ctx context.Context, p Params) (Result, error) {
	start := time.Now()
	c.emit(&events.Event{Kind: options.EventAdminCommandStarted, Name: p.Name, Timestamp: start, URL: c.BaseURL + p.Path})

	res, err := c.dispatchOnce(ctx, p)
	duration := time.Since(start)
	if err != nil {
		c.emit(&events.Event{Kind: options.EventAdminCommandFailed, Name: p.Name, Timestamp: time.Now(), Duration: duration, Err: err})
		return Result{}, err
	}
	c.emit(&events.Event{Kind: options.EventAdminCommandSucceeded, Name: p.Name, Timestamp: time.Now(), Duration: duration})
	return res, nil
}

func (c *Client) dispatchOnce(ctx context.Context, p Params) (Result, error) {
	var body []byte
	if p.Body != nil {
		b, err := json.Marshal(p.Body)
		if err != nil {
			return Result{}, err
		}
		body = b
	}

	attemptCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	resp, err := c.Fetcher.Fetch(attemptCtx, fetcher.Request{
		URL: c.BaseURL + p.Path, Method: p.Method, Headers: p.Headers, Body: body, Deadline: p.Timeout,
	})
	if err != nil {
		return Result{}, err
	}

	if resp.Status < 200 || resp.Status >= 300 {
		var descriptors []ErrorDescriptor
		var envelope struct {
			Errors      []ErrorDescriptor `json:"errors"`
			Description string            `json:"description"`
		}
		if json.Unmarshal(resp.Body, &envelope) == nil {
			descriptors = envelope.Errors
			if len(descriptors) == 0 && envelope.Description != "" {
				descriptors = []ErrorDescriptor{{Message: envelope.Description}}
			}
		}
		return Result{}, &ResponseError{Status: resp.Status, Descriptors: descriptors, Raw: resp.Body}
	}

	headers := make(map[string][]string, len(resp.Headers))
	for k, v := range resp.Headers {
		headers[k] = v
	}
	return Result{Status: resp.Status, Headers: headers, Body: resp.Body}, nil
}

func (c *Client) emit(e *events.Event) {
	if c.Bus != nil {
		c.Bus.Emit(e)
	}
}
