package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTP1FetchRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cmd", r.URL.Path)
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewHTTP1()
	resp, err := f.Fetch(context.Background(), Request{URL: srv.URL + "/cmd", Method: "POST"})
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Contains(t, string(resp.Body), "ok")
}

func TestBuildUserAgentAppendsLibraryIdentity(t *testing.T) {
	ua := BuildUserAgent("my-app/1.0")
	assert.Equal(t, "my-app/1.0 "+LibraryIdentity, ua)
}

func TestBuildUserAgentNoCaller(t *testing.T) {
	assert.Equal(t, LibraryIdentity, BuildUserAgent(""))
}

func TestFetcherFuncAdapts(t *testing.T) {
	called := false
	var f Fetcher = FetcherFunc(func(ctx context.Context, req Request) (Response, error) {
		called = true
		return Response{Status: 204}, nil
	})
	resp, err := f.Fetch(context.Background(), Request{})
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 204, resp.Status)
}
