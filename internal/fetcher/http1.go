package fetcher

import (
	"context"
	"net"
	"net/http"
	"time"
)

// HTTP1 is the plain HTTP/1.1 fetcher, generalizing the teacher's
// newHTTPClient() (rsds143/astra-mgmt-go astraops.go) connection-pool
// tuning into a reusable Fetcher.
type HTTP1 struct {
	client *http.Client
}

// NewHTTP1 builds an HTTP/1.1 fetcher with pooled connections, mirroring
// the teacher's transport tuning.
func NewHTTP1() *HTTP1 {
	return &HTTP1{client: &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 100,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 0, // bounded per-request via context instead
			ExpectContinueTimeout: 1 * time.Second,
		},
	}}
}

// Fetch implements Fetcher.
func (h *HTTP1) Fetch(ctx context.Context, req Request) (Response, error) {
	return do(ctx, h.client, req)
}
