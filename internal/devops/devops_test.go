package devops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/options"
)

func testBus() *events.Bus {
	l, _ := zap.NewDevelopment()
	return events.New(l.Sugar())
}

func TestDispatchPromotesNon2xx(t *testing.T) {
	f := fetcher.FetcherFunc(func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 401, Body: []byte(`{"errors":[{"message":"bad token"}]}`)}, nil
	})
	c := NewClient(f, testBus(), "https://api.astra.datastax.com/v2")

	_, err := c.Dispatch(context.Background(), Params{Method: "GET", Path: "/databases", Name: "listDatabases"})
	require.Error(t, err)
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "bad token", respErr.Descriptors[0].Message)
}

func TestDispatchEmitsStartedThenSucceeded(t *testing.T) {
	var kinds []options.EventKind
	bus := testBus()
	bus.On(options.SelectAll(), func(e *events.Event) { kinds = append(kinds, e.Kind) })

	f := fetcher.FetcherFunc(func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 200, Body: []byte(`[]`)}, nil
	})
	c := NewClient(f, bus, "https://api.astra.datastax.com/v2")

	_, err := c.Dispatch(context.Background(), Params{Method: "GET", Path: "/databases", Name: "listDatabases"})
	require.NoError(t, err)
	assert.Equal(t, []options.EventKind{options.EventAdminCommandStarted, options.EventAdminCommandSucceeded}, kinds)
}

func TestPollUntilReachesTarget(t *testing.T) {
	states := []string{"PENDING", "PENDING", "ACTIVE"}
	i := 0
	bus := testBus()
	c := NewClient(fetcher.FetcherFunc(nil), bus, "https://host")

	var pollEvents int
	bus.On(options.SelectKind(options.EventAdminCommandPolling), func(e *events.Event) { pollEvents++ })

	raw, err := c.PollUntil(context.Background(), PollConfig{
		Name: "createDatabase", Target: "ACTIVE", LegalStates: []string{"PENDING", "INITIALIZING", "ACTIVE"},
		Interval: time.Millisecond,
		Check: func(ctx context.Context) (string, []byte, error) {
			s := states[i]
			i++
			return s, []byte(s), nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", string(raw))
	assert.Equal(t, 3, pollEvents)
}

func TestPollUntilUnexpectedState(t *testing.T) {
	c := NewClient(fetcher.FetcherFunc(nil), testBus(), "https://host")
	_, err := c.PollUntil(context.Background(), PollConfig{
		Name: "createDatabase", Target: "ACTIVE", LegalStates: []string{"PENDING"},
		Interval: time.Millisecond,
		Check: func(ctx context.Context) (string, []byte, error) {
			return "ERROR", []byte("ERROR"), nil
		},
	})
	require.Error(t, err)
	var stateErr *UnexpectedStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "ERROR", stateErr.GotState)
}

func TestHandleNonBlockingPoll(t *testing.T) {
	c := NewClient(fetcher.FetcherFunc(nil), testBus(), "https://host")
	h := c.NewHandle(PollConfig{
		Name: "createKeyspace", Target: "ACTIVE", LegalStates: []string{"PENDING", "ACTIVE"},
		Check: func(ctx context.Context) (string, []byte, error) { return "PENDING", nil, nil },
	})
	reached, _, err := h.Poll(context.Background())
	require.NoError(t, err)
	assert.False(t, reached)
}
