package fetcher

import (
	"context"
	"net/http"

	"golang.org/x/net/http2"
)

// HTTP2 is the HTTP/2-preferring fetcher (spec.md 4.4): when the
// server supports it, requests multiplex over a single connection and
// cancellation of an in-flight request is cooperative via the request
// context, same as HTTP1.
type HTTP2 struct {
	client *http.Client
}

// NewHTTP2 builds an HTTP/2 fetcher. If the runtime can't configure
// HTTP/2 transport (e.g. unusual custom RoundTripper), it falls back
// to a plain HTTP/1 client rather than failing construction.
func NewHTTP2() *HTTP2 {
	transport := &http.Transport{}
	_ = http2.ConfigureTransports(transport)
	return &HTTP2{client: &http.Client{Transport: transport}}
}

// Fetch implements Fetcher.
func (h *HTTP2) Fetch(ctx context.Context, req Request) (Response, error) {
	return do(ctx, h.client, req)
}

// Preferred picks HTTP2 over HTTP1 when both are available, per the
// "if both are configured, HTTP/2 is used" rule in spec.md 4.4.
func Preferred(preferHTTP2 bool, custom Fetcher) Fetcher {
	if custom != nil {
		return custom
	}
	if preferHTTP2 {
		return NewHTTP2()
	}
	return NewHTTP1()
}
