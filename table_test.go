package astradata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/options"
)

func newTestTable(t *testing.T, f fetcher.FetcherFunc) *Table {
	t.Helper()
	_, _, db := newTestCollection(t, f)
	return &Table{db: db, name: "people_by_id", opts: options.SpawnOptions{}, bus: db.bus.Child(), client: db.dataAPIClient()}
}

func TestTableInsertOneReturnsPrimaryKey(t *testing.T) {
	tbl := newTestTable(t, jsonFetcher(`{"status":{"insertedIds":[{"id":"42"}]}}`))
	res, err := tbl.InsertOne(context.Background(), map[string]any{"id": "42", "name": "ada"}, options.CallOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "42"}, res.PrimaryKey)
}

func TestTableFindOneReturnsRow(t *testing.T) {
	tbl := newTestTable(t, jsonFetcher(`{"data":{"document":{"id":"42","name":"ada"}}}`))
	row, found, err := tbl.FindOne(context.Background(), map[string]any{"id": "42"}, FindOptions{})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ada", row["name"])
}

func TestTableUpdateOneReportsCounts(t *testing.T) {
	tbl := newTestTable(t, jsonFetcher(`{"status":{"matchedCount":1,"modifiedCount":1}}`))
	res, err := tbl.UpdateOne(context.Background(), map[string]any{"id": "42"}, map[string]any{"$set": map[string]any{"name": "grace"}}, UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.MatchedCount)
	assert.Equal(t, 1, res.ModifiedCount)
}

func TestTableDeleteOneReturnsDeletedCount(t *testing.T) {
	tbl := newTestTable(t, jsonFetcher(`{"status":{"deletedCount":1}}`))
	n, err := tbl.DeleteOne(context.Background(), map[string]any{"id": "42"}, options.CallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTableInsertManyRecoversPartialFailure(t *testing.T) {
	f := func(_ context.Context, _ fetcher.Request) (fetcher.Response, error) {
		return fetcher.Response{Status: 200, Body: []byte(
			`{"status":{"insertedIds":[{"id":"1"}]},"errors":[{"message":"duplicate key"}]}`)}, nil
	}
	tbl := newTestTable(t, f)
	rows := []map[string]any{{"id": "1"}, {"id": "2"}}
	res, err := tbl.InsertMany(context.Background(), rows, InsertManyRowsOptions{Ordered: true})
	require.Error(t, err)
	assert.Equal(t, 1, res.InsertedCount)
	require.Len(t, res.PrimaryKeys, 1)
	assert.Equal(t, "1", res.PrimaryKeys[0]["id"])
}
