package astradata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsds143/astra-data-go/auth"
	"github.com/rsds143/astra-data-go/internal/devops"
	"github.com/rsds143/astra-data-go/internal/fetcher"
)

func newTestAdmin(t *testing.T, f fetcher.FetcherFunc) *Admin {
	t.Helper()
	client := &Client{auth: auth.Chain{auth.NewStaticToken("test-token")}, fetcher: f, bus: testEventBus()}
	devopsClient := devops.NewClient(f, client.bus.Child(), "https://api.astra.datastax.com/v2")
	return &Admin{client: client, auth: client.auth, devops: devopsClient, bus: devopsClient.Bus}
}

func TestListDatabasesParsesResponse(t *testing.T) {
	admin := newTestAdmin(t, jsonFetcher(`[{"id":"db1","status":"ACTIVE","info":{"name":"shop"}}]`))
	dbs, err := admin.ListDatabases(context.Background())
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "db1", dbs[0].ID)
	assert.Equal(t, "shop", dbs[0].Info.Name)
}

func TestCreateDatabaseNonBlockingReturnsImmediately(t *testing.T) {
	calls := 0
	f := func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		calls++
		if req.Method == "POST" {
			return fetcher.Response{Status: 201, Headers: map[string][]string{"Location": {"new-db-id"}}}, nil
		}
		return fetcher.Response{Status: 200, Body: []byte(`{"id":"new-db-id","status":"PENDING"}`)}, nil
	}
	admin := newTestAdmin(t, f)

	db, handle, err := admin.CreateDatabase(context.Background(), CreateDatabaseParams{Name: "shop"}, CreateDatabaseOptions{Blocking: false})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", db.Status)
	assert.NotNil(t, handle)
	assert.Equal(t, 2, calls)
}

// CreateDatabase's returned Handle lets a non-blocking caller drive the
// same poll cycle manually, one Check call at a time, without waiting
// on the 10s default interval a blocking CreateDatabase would sleep
// between ticks.
func TestCreateDatabaseHandlePollsManually(t *testing.T) {
	status := "PENDING"
	f := func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		if req.Method == "POST" {
			return fetcher.Response{Status: 201, Headers: map[string][]string{"Location": {"new-db-id"}}}, nil
		}
		return fetcher.Response{Status: 200, Body: []byte(`{"id":"new-db-id","status":"` + status + `"}`)}, nil
	}
	admin := newTestAdmin(t, f)

	_, handle, err := admin.CreateDatabase(context.Background(), CreateDatabaseParams{Name: "shop"}, CreateDatabaseOptions{Blocking: false})
	require.NoError(t, err)

	reached, _, err := handle.Poll(context.Background())
	require.NoError(t, err)
	assert.False(t, reached)

	status = "ACTIVE"
	reached, raw, err := handle.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, reached)
	assert.Contains(t, string(raw), "ACTIVE")
}

func TestTerminateDatabaseNonBlockingReturnsImmediately(t *testing.T) {
	calls := 0
	f := func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		calls++
		return fetcher.Response{Status: 202}, nil
	}
	admin := newTestAdmin(t, f)
	err := admin.TerminateDatabase(context.Background(), "db1", TerminateDatabaseOptions{Blocking: false})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
