package dataapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://host/api/json/v1", BuildURL("https://host", "api/json/v1", "", ""))
	assert.Equal(t, "https://host/api/json/v1/ks", BuildURL("https://host", "api/json/v1", "ks", ""))
	assert.Equal(t, "https://host/api/json/v1/ks/coll", BuildURL("https://host", "api/json/v1", "ks", "coll"))
}

func testBus() *events.Bus {
	l, _ := zap.NewDevelopment()
	return events.New(l.Sugar())
}

func TestDispatchSuccessEmitsStartedThenSucceeded(t *testing.T) {
	var kinds []options.EventKind
	bus := testBus()
	bus.On(options.SelectAll(), func(e *events.Event) { kinds = append(kinds, e.Kind) })

	f := fetcher.FetcherFunc(func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 200, Body: []byte(`{"status":{"insertedIds":["1"]}}`)}, nil
	})
	c := NewClient(f, serdes.NewEngine(serdes.DefaultRegistry(false)), bus)

	env, err := c.Dispatch(context.Background(), DispatchParams{
		Endpoint: "https://host", APIPath: DefaultAPIPath, Keyspace: "ks",
		Command:  Command{Name: "insertOne", Body: map[string]any{"document": map[string]any{"a": 1}}},
		Target:   serdes.TargetRecord, Category: options.CategoryGeneralMethod,
		TimeoutMode: timeoutmgr.SingleAttempt, Timeouts: options.DefaultTimeoutDescriptor(),
	})
	require.NoError(t, err)
	assert.False(t, env.HasErrors())
	assert.Equal(t, []options.EventKind{options.EventCommandStarted, options.EventCommandSucceeded}, kinds)
}

func TestDispatchPromotesResponseErrors(t *testing.T) {
	bus := testBus()
	f := fetcher.FetcherFunc(func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 200, Body: []byte(`{"errors":[{"message":"invalid filter"}]}`)}, nil
	})
	c := NewClient(f, serdes.NewEngine(serdes.DefaultRegistry(false)), bus)

	_, err := c.Dispatch(context.Background(), DispatchParams{
		Endpoint: "https://host", APIPath: DefaultAPIPath, Keyspace: "ks",
		Command:  Command{Name: "findOne", Body: map[string]any{}},
		Target:   serdes.TargetRecord, Category: options.CategoryGeneralMethod,
		TimeoutMode: timeoutmgr.SingleAttempt, Timeouts: options.DefaultTimeoutDescriptor(),
	})
	require.Error(t, err)
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "invalid filter", respErr.Descriptors[0].Message)
}

func TestDispatchEmitsWarnings(t *testing.T) {
	var kinds []options.EventKind
	bus := testBus()
	bus.On(options.SelectAll(), func(e *events.Event) { kinds = append(kinds, e.Kind) })

	f := fetcher.FetcherFunc(func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 200, Body: []byte(`{"status":{"warnings":["deprecated field"]}}`)}, nil
	})
	c := NewClient(f, serdes.NewEngine(serdes.DefaultRegistry(false)), bus)

	_, err := c.Dispatch(context.Background(), DispatchParams{
		Endpoint: "https://host", APIPath: DefaultAPIPath, Keyspace: "ks",
		Command:  Command{Name: "updateOne", Body: map[string]any{}},
		Target:   serdes.TargetRecord, Category: options.CategoryGeneralMethod,
		TimeoutMode: timeoutmgr.SingleAttempt, Timeouts: options.DefaultTimeoutDescriptor(),
	})
	require.NoError(t, err)
	assert.Contains(t, kinds, options.EventCommandWarnings)
}
