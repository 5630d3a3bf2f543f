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

package astradata

import (
	"context"

	"github.com/rsds143/astra-data-go/bulk"
	"github.com/rsds143/astra-data-go/cursor"
	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
)

// Table is the typed row-CRUD facade (spec.md 3.2): a
// (Db, keyspace, name, schema serdes) tuple. Rows come back with a
// primary-key-aware result shape rather than a bare "_id", since a
// table's key is declared (partition key(s) plus optional clustering
// key(s)) rather than a synthetic document id.
type Table struct {
	db     *Db
	name   string
	opts   options.SpawnOptions
	bus    *events.Bus
	client *dataapi.Client
}

func (t *Table) dispatcher() *entityDispatcher {
	return &entityDispatcher{db: t.db, name: t.name, opts: t.opts, client: t.client}
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

func identityRow(row map[string]any) (map[string]any, error) { return row, nil }

// InsertOneRowResult reports the primary key of one inserted row.
type InsertOneRowResult struct {
	PrimaryKey map[string]any
}

// InsertOne inserts a single row.
func (t *Table) InsertOne(ctx context.Context, row map[string]any, call options.CallOptions) (InsertOneRowResult, error) {
	env, err := t.dispatcher().dispatch(ctx, dataapi.Command{Name: "insertOne", Body: map[string]any{"document": row}},
		options.CategoryGeneralMethod, call, timeoutmgr.SingleAttempt)
	if err != nil {
		return InsertOneRowResult{}, err
	}
	return InsertOneRowResult{PrimaryKey: primaryKeyOf(env)}, nil
}

func primaryKeyOf(env dataapi.Envelope) map[string]any {
	if env.Status == nil || len(env.Status.InsertedIDs) == 0 {
		return nil
	}
	if pk, ok := env.Status.InsertedIDs[0].(map[string]any); ok {
		return pk
	}
	return nil
}

// InsertManyRowsOptions configures insertMany's ordering/concurrency
// fan-out, mirroring Collection.InsertMany (spec.md 5).
type InsertManyRowsOptions struct {
	Ordered     bool
	Concurrency int
	ChunkSize   int
}

// InsertManyRowsResult is the combined outcome of a row insertMany call.
type InsertManyRowsResult struct {
	PrimaryKeys   []map[string]any
	InsertedCount int
}

type tableChunkInserter struct {
	tbl *Table
}

func (ti *tableChunkInserter) InsertChunk(ctx context.Context, rows []any, ordered bool) (bulk.ChunkResult, error) {
	env, err := ti.tbl.dispatcher().dispatch(ctx, dataapi.Command{
		Name: "insertMany",
		Body: map[string]any{"documents": rows, "options": map[string]any{"ordered": ordered}},
	}, options.CategoryGeneralMethod, options.CallOptions{}, timeoutmgr.SingleAttempt)
	if err != nil {
		if respErr, ok := err.(*dataapi.ResponseError); ok && respErr.Raw.Status != nil {
			return bulk.ChunkResult{InsertedIDs: respErr.Raw.Status.InsertedIDs, Errors: respErr.Descriptors}, nil
		}
		return bulk.ChunkResult{}, err
	}
	var ids []any
	if env.Status != nil {
		ids = env.Status.InsertedIDs
	}
	return bulk.ChunkResult{InsertedIDs: ids}, nil
}

// InsertMany inserts rows per opts.Ordered/opts.Concurrency, fanning
// out through the bulk package (C11) exactly as Collection.InsertMany
// does.
func (t *Table) InsertMany(ctx context.Context, rows []map[string]any, opts InsertManyRowsOptions) (InsertManyRowsResult, error) {
	anyRows := make([]any, len(rows))
	for i, r := range rows {
		anyRows[i] = r
	}
	result, err := bulk.InsertMany(ctx, &tableChunkInserter{tbl: t}, anyRows, bulk.Options{
		Ordered: opts.Ordered, Concurrency: opts.Concurrency, ChunkSize: opts.ChunkSize,
	})
	pks := make([]map[string]any, 0, len(result.InsertedIDs))
	for _, id := range result.InsertedIDs {
		if pk, ok := id.(map[string]any); ok {
			pks = append(pks, pk)
		}
	}
	return InsertManyRowsResult{PrimaryKeys: pks, InsertedCount: result.InsertedCount}, err
}

// FindOne finds a single row matching filter (typically an equality
// filter over the primary key).
func (t *Table) FindOne(ctx context.Context, filter map[string]any, opts FindOptions) (map[string]any, bool, error) {
	body := map[string]any{"filter": filter}
	if opts.Sort != nil {
		body["sort"] = opts.Sort
	}
	if opts.Projection != nil {
		body["projection"] = opts.Projection
	}
	env, err := t.dispatcher().dispatch(ctx, dataapi.Command{Name: "findOne", Body: body},
		options.CategoryGeneralMethod, opts.Call, timeoutmgr.SingleAttempt)
	if err != nil {
		return nil, false, err
	}
	if env.Data == nil || env.Data.Document == nil {
		return nil, false, nil
	}
	return env.Data.Document, true, nil
}

type tablePageFetcher struct {
	tbl  *Table
	call options.CallOptions
}

func (f *tablePageFetcher) FetchPage(ctx context.Context, spec cursor.FindSpec, pageState *string) (cursor.Page, error) {
	body := map[string]any{"filter": spec.Filter}
	if spec.Sort != nil {
		body["sort"] = spec.Sort
	}
	if spec.Projection != nil {
		body["projection"] = spec.Projection
	}
	opts := map[string]any{}
	if spec.Limit > 0 {
		opts["limit"] = spec.Limit
	}
	if spec.Skip > 0 {
		opts["skip"] = spec.Skip
	}
	if pageState != nil {
		opts["pageState"] = *pageState
	}
	if len(opts) > 0 {
		body["options"] = opts
	}

	env, err := f.tbl.dispatcher().dispatch(ctx, dataapi.Command{Name: "find", Body: body},
		options.CategoryGeneralMethod, f.call, timeoutmgr.Multipart)
	if err != nil {
		return cursor.Page{}, err
	}
	page := cursor.Page{Documents: env.Data.Documents}
	if env.Status != nil {
		page.NextPageState = env.Status.NextPageState
		page.SortVector = env.Status.SortVector
	}
	return page, nil
}

// Find returns a lazily-executed cursor over rows matching filter.
func (t *Table) Find(filter map[string]any, opts FindOptions) (*cursor.Cursor[map[string]any], error) {
	cur := cursor.New[map[string]any](&tablePageFetcher{tbl: t, call: opts.Call}, identityRow)
	cur, err := cur.Filter(filter)
	if err != nil {
		return nil, err
	}
	if opts.Sort != nil {
		if cur, err = cur.Sort(opts.Sort); err != nil {
			return nil, err
		}
	}
	if opts.Projection != nil {
		if cur, err = cur.Project(opts.Projection); err != nil {
			return nil, err
		}
	}
	if opts.Limit > 0 {
		if cur, err = cur.Limit(opts.Limit); err != nil {
			return nil, err
		}
	}
	if opts.Skip > 0 {
		if cur, err = cur.Skip(opts.Skip); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// UpdateOne applies update to the first row matching filter (normally
// a full primary-key equality filter).
func (t *Table) UpdateOne(ctx context.Context, filter, update map[string]any, opts UpdateOptions) (UpdateResult, error) {
	body := map[string]any{"filter": filter, "update": update}
	env, err := t.dispatcher().dispatch(ctx, dataapi.Command{Name: "updateOne", Body: body},
		options.CategoryGeneralMethod, opts.Call, timeoutmgr.SingleAttempt)
	if err != nil {
		return UpdateResult{}, err
	}
	result := UpdateResult{}
	if env.Status != nil {
		result.MatchedCount = env.Status.MatchedCount
		result.ModifiedCount = env.Status.ModifiedCount
	}
	return result, nil
}

// DeleteOne deletes the first row matching filter.
func (t *Table) DeleteOne(ctx context.Context, filter map[string]any, call options.CallOptions) (int, error) {
	env, err := t.dispatcher().dispatch(ctx, dataapi.Command{Name: "deleteOne", Body: map[string]any{"filter": filter}},
		options.CategoryGeneralMethod, call, timeoutmgr.SingleAttempt)
	return deletedCount(env), err
}

// DeleteMany deletes every row matching filter.
func (t *Table) DeleteMany(ctx context.Context, filter map[string]any, call options.CallOptions) (int, error) {
	env, err := t.dispatcher().dispatch(ctx, dataapi.Command{Name: "deleteMany", Body: map[string]any{"filter": filter}},
		options.CategoryGeneralMethod, call, timeoutmgr.Multipart)
	return deletedCount(env), err
}
