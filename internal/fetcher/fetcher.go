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

// Package fetcher abstracts the transport layer (C4): one HTTP
// request in, one uniform response envelope out. Fetchers do not
// retry and do not interpret status codes above the transport layer.
package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Request describes one outgoing HTTP request.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
	// Deadline, if non-zero, bounds this single attempt; the fetcher
	// must cancel cooperatively once it elapses.
	Deadline time.Duration
}

// Response is the uniform envelope every Fetcher implementation
// returns, regardless of transport.
type Response struct {
	Status      int
	StatusText  string
	Headers     http.Header
	Body        []byte
	HTTPVersion string
	URL         string
}

// Fetcher executes one HTTP request. Implementations: HTTP/2
// preferred, HTTP/1 fallback, or a user-supplied custom fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// FetcherFunc adapts a plain function to Fetcher, for user-supplied
// custom fetchers.
type FetcherFunc func(ctx context.Context, req Request) (Response, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// do is shared by the HTTP/1 and HTTP/2 fetchers: build the
// *http.Request, apply the deadline, run it through the given
// *http.Client, and normalize the result into a Response.
func do(ctx context.Context, client *http.Client, req Request) (Response, error) {
	if req.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Deadline)
		defer cancel()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return Response{}, &TransportError{Op: "build request", Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Response{}, &TransportError{Op: "do request", Err: err, Cancelled: ctx.Err() != nil}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &TransportError{Op: "read body", Err: err}
	}

	return Response{
		Status:      resp.StatusCode,
		StatusText:  resp.Status,
		Headers:     resp.Header,
		Body:        body,
		HTTPVersion: resp.Proto,
		URL:         req.URL,
	}, nil
}
