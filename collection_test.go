package astradata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsds143/astra-data-go/auth"
	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

func testEventBus() *events.Bus {
	l, _ := zap.NewDevelopment()
	return events.New(l.Sugar())
}

// newTestCollection wires a Collection directly against a fake
// fetcher, bypassing NewClient/Client.Db so tests never touch the
// network (mirrors internal/dataapi's own testBus()/FetcherFunc style).
func newTestCollection(t *testing.T, f fetcher.FetcherFunc) (*Collection, *Client, *Db) {
	t.Helper()
	client := &Client{
		opts:     options.ClientOptions{TimeoutDefaults: options.DefaultTimeoutDescriptor()},
		auth:     auth.Chain{auth.NewStaticToken("test-token")},
		fetcher:  f,
		bus:      testEventBus(),
		registry: serdes.DefaultRegistry(false),
	}
	db := &Db{
		client:   client,
		endpoint: "https://db-id-region.apps.astra.datastax.com",
		uuid:     "db-id",
		region:   "region",
		env:      options.EnvironmentAstra,
		opts:     options.DbOptions{},
		auth:     client.auth,
		bus:      client.bus.Child(),
	}
	coll := &Collection{db: db, name: "people", opts: options.SpawnOptions{}, bus: db.bus.Child(), client: db.dataAPIClient()}
	return coll, client, db
}

func jsonFetcher(body string) fetcher.FetcherFunc {
	return func(_ context.Context, _ fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 200, Body: []byte(body)}, nil
	}
}

func TestInsertOneReturnsInsertedID(t *testing.T) {
	coll, _, _ := newTestCollection(t, jsonFetcher(`{"status":{"insertedIds":["abc"]}}`))
	res, err := coll.InsertOne(context.Background(), map[string]any{"name": "ada"}, options.CallOptions{})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.InsertedID)
}

func TestFindOneReturnsNotFoundWithoutError(t *testing.T) {
	coll, _, _ := newTestCollection(t, jsonFetcher(`{"data":{"document":null}}`))
	doc, found, err := coll.FindOne(context.Background(), map[string]any{"_id": "missing"}, FindOptions{})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, doc)
}

func TestFindOneReturnsDocument(t *testing.T) {
	coll, _, _ := newTestCollection(t, jsonFetcher(`{"data":{"document":{"name":"ada"}}}`))
	doc, found, err := coll.FindOne(context.Background(), map[string]any{"name": "ada"}, FindOptions{})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ada", doc["name"])
}

func TestFindDrainsMultiplePages(t *testing.T) {
	calls := 0
	f := func(_ context.Context, _ fetcher.Request) (fetcher.Response, error) {
		calls++
		if calls == 1 {
			return fetcher.Response{Status: 200, Body: []byte(
				`{"data":{"documents":[{"name":"a"},{"name":"b"}]},"status":{"nextPageState":"p2"}}`)}, nil
		}
		return fetcher.Response{Status: 200, Body: []byte(`{"data":{"documents":[{"name":"c"}]}}`)}, nil
	}
	coll, _, _ := newTestCollection(t, f)

	cur, err := coll.Find(map[string]any{}, FindOptions{})
	require.NoError(t, err)
	docs, err := cur.ToArray(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, 2, calls)
}

func TestDeleteOneReturnsDeletedCount(t *testing.T) {
	coll, _, _ := newTestCollection(t, jsonFetcher(`{"status":{"deletedCount":1}}`))
	n, err := coll.DeleteOne(context.Background(), map[string]any{"_id": "abc"}, options.CallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountDocumentsReturnsCount(t *testing.T) {
	coll, _, _ := newTestCollection(t, jsonFetcher(`{"status":{"count":42}}`))
	n, err := coll.CountDocuments(context.Background(), map[string]any{}, 1000, options.CallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestInsertManyOrderedStopsAtDuplicateKey(t *testing.T) {
	calls := 0
	f := func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		calls++
		if calls == 1 {
			return fetcher.Response{Status: 200, Body: []byte(`{"status":{"insertedIds":["1","2"]},"errors":[{"message":"duplicate key","id":"3"}]}`)}, nil
		}
		t.Fatalf("dispatched a second chunk after an ordered failure")
		return fetcher.Response{}, nil
	}
	coll, _, _ := newTestCollection(t, f)

	docs := make([]map[string]any, 0, 25)
	for i := 0; i < 25; i++ {
		docs = append(docs, map[string]any{"n": i})
	}
	res, err := coll.InsertMany(context.Background(), docs, InsertManyOptions{Ordered: true, ChunkSize: 20})
	require.Error(t, err)
	assert.Equal(t, 2, res.InsertedCount)
}

func TestBulkWriteOrderedCombinesInsertAndDelete(t *testing.T) {
	calls := 0
	f := func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		calls++
		switch calls {
		case 1:
			return fetcher.Response{Status: 200, Body: []byte(`{"status":{"insertedIds":["x"]}}`)}, nil
		default:
			return fetcher.Response{Status: 200, Body: []byte(`{"status":{"deletedCount":1}}`)}, nil
		}
	}
	coll, _, _ := newTestCollection(t, f)

	result, err := coll.BulkWrite(context.Background(), []WriteModel{
		{Kind: WriteInsertOne, Document: map[string]any{"name": "a"}},
		{Kind: WriteDeleteOne, Filter: map[string]any{"name": "b"}},
	}, BulkWriteOptions{Ordered: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.InsertedCount)
	assert.Equal(t, 1, result.DeletedCount)
}

func TestDistinctDeduplicatesAcrossPages(t *testing.T) {
	calls := 0
	f := func(_ context.Context, _ fetcher.Request) (fetcher.Response, error) {
		calls++
		if calls == 1 {
			return fetcher.Response{Status: 200, Body: []byte(
				`{"data":{"documents":[{"color":"red"},{"color":"blue"}]},"status":{"nextPageState":"p2"}}`)}, nil
		}
		return fetcher.Response{Status: 200, Body: []byte(`{"data":{"documents":[{"color":"red"}]}}`)}, nil
	}
	coll, _, _ := newTestCollection(t, f)

	values, err := coll.Distinct(context.Background(), "color", map[string]any{}, options.CallOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"red", "blue"}, values)
}

func TestDataAPIResponseErrorSurfacesOnFindOne(t *testing.T) {
	coll, _, _ := newTestCollection(t, jsonFetcher(`{"errors":[{"message":"invalid filter"}]}`))
	_, _, err := coll.FindOne(context.Background(), map[string]any{}, FindOptions{})
	require.Error(t, err)
	var respErr *dataapi.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "invalid filter", respErr.Descriptors[0].Message)
}
