package astradata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsds143/astra-data-go/internal/fetcher"
)

func newTestDbAdmin(t *testing.T, f fetcher.FetcherFunc) *DbAdmin {
	t.Helper()
	_, _, db := newTestCollection(t, f)
	return &DbAdmin{db: db, devopsAuth: db.auth}
}

func TestCreateKeyspaceDispatchesToDevOps(t *testing.T) {
	var seenPath, seenMethod string
	f := func(_ context.Context, req fetcher.Request) (fetcher.Response, error) {
		seenPath, seenMethod = req.URL, req.Method
		return fetcher.Response{Status: 201}, nil
	}
	a := newTestDbAdmin(t, f)
	err := a.CreateKeyspace(context.Background(), "new_ks")
	require.NoError(t, err)
	assert.Equal(t, "POST", seenMethod)
	assert.Contains(t, seenPath, "/keyspaces/new_ks")
}

func TestListCollectionsReadsNames(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"status":{"names":["people","orders"]}}`))
	names, err := a.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"people", "orders"}, names)
}

func TestListTablesReadsNames(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"status":{"names":["people_by_id"]}}`))
	names, err := a.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"people_by_id"}, names)
}

func TestCreateCollectionWithVectorOptions(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"status":{}}`))
	err := a.CreateCollection(context.Background(), "docs", CreateCollectionOptions{VectorDimension: 1536, VectorMetric: "cosine"})
	require.NoError(t, err)
}

func TestDropCollection(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"status":{}}`))
	err := a.DropCollection(context.Background(), "docs")
	require.NoError(t, err)
}

func TestCreateTableWithPrimaryKey(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"status":{}}`))
	err := a.CreateTable(context.Background(), "people_by_id", []ColumnDefinition{
		{Name: "id", Type: "text"},
		{Name: "name", Type: "text"},
	}, PrimaryKeyDefinition{PartitionBy: []string{"id"}})
	require.NoError(t, err)
}

func TestCreateIndexAndVectorIndex(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"status":{}}`))
	require.NoError(t, a.CreateIndex(context.Background(), "name_idx", CreateIndexOptions{Column: "name"}))
	require.NoError(t, a.CreateVectorIndex(context.Background(), "embedding_idx", CreateIndexOptions{Column: "embedding", Metric: "cosine"}))
}

func TestAdminCommandErrorSurfaces(t *testing.T) {
	a := newTestDbAdmin(t, jsonFetcher(`{"errors":[{"message":"collection already exists"}]}`))
	err := a.CreateCollection(context.Background(), "docs", CreateCollectionOptions{})
	require.Error(t, err)
}
