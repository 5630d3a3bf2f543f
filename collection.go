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

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/rsds143/astra-data-go/bulk"
	"github.com/rsds143/astra-data-go/cursor"
	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
)

// Collection is the document-CRUD facade (spec.md 4.10): a
// (Db, keyspace, name, ser/des) tuple exposing the Data API's
// document commands.
type Collection struct {
	db     *Db
	name   string
	opts   options.SpawnOptions
	bus    *events.Bus
	client *dataapi.Client
}

func (c *Collection) dispatcher() *entityDispatcher {
	return &entityDispatcher{db: c.db, name: c.name, opts: c.opts, client: c.client}
}

// Name returns the collection's name.
func (c *Collection) Name() string { return c.name }

func identityDoc(doc map[string]any) (map[string]any, error) { return doc, nil }

// InsertOneResult reports the id assigned/confirmed for one inserted
// document.
type InsertOneResult struct {
	InsertedID any
}

// InsertOne inserts a single document.
func (c *Collection) InsertOne(ctx context.Context, document map[string]any, call options.CallOptions) (InsertOneResult, error) {
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "insertOne", Body: map[string]any{"document": document}},
		options.CategoryGeneralMethod, call, timeoutmgr.SingleAttempt)
	if err != nil {
		return InsertOneResult{}, err
	}
	var id any
	if env.Status != nil && len(env.Status.InsertedIDs) > 0 {
		id = env.Status.InsertedIDs[0]
	}
	return InsertOneResult{InsertedID: id}, nil
}

// InsertManyOptions configures insertMany's ordering/concurrency fan-out
// (spec.md 5).
type InsertManyOptions struct {
	Ordered     bool
	Concurrency int
	ChunkSize   int
	Call        options.CallOptions
}

// InsertManyResult is the combined outcome of an insertMany call.
type InsertManyResult struct {
	InsertedIDs   []any
	InsertedCount int
}

// collectionChunkInserter adapts one Collection to bulk.Inserter,
// dispatching one insertMany command per chunk (spec.md 8: "a batch of
// 20 documents fits in one HTTP request").
type collectionChunkInserter struct {
	col *Collection
}

func (ci *collectionChunkInserter) InsertChunk(ctx context.Context, docs []any, ordered bool) (bulk.ChunkResult, error) {
	env, err := ci.col.dispatcher().dispatch(ctx, dataapi.Command{
		Name: "insertMany",
		Body: map[string]any{"documents": docs, "options": map[string]any{"ordered": ordered}},
	}, options.CategoryGeneralMethod, options.CallOptions{}, timeoutmgr.SingleAttempt)
	if err != nil {
		var respErr *dataapi.ResponseError
		if okErr, ok := err.(*dataapi.ResponseError); ok {
			respErr = okErr
		}
		if respErr != nil && respErr.Raw.Status != nil {
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

// InsertMany inserts docs per opts.Ordered/opts.Concurrency (spec.md
// 5), fanning out through the bulk package (C11).
func (c *Collection) InsertMany(ctx context.Context, docs []map[string]any, opts InsertManyOptions) (InsertManyResult, error) {
	anyDocs := make([]any, len(docs))
	for i, d := range docs {
		anyDocs[i] = d
	}
	result, err := bulk.InsertMany(ctx, &collectionChunkInserter{col: c}, anyDocs, bulk.Options{
		Ordered: opts.Ordered, Concurrency: opts.Concurrency, ChunkSize: opts.ChunkSize,
	})
	return InsertManyResult{InsertedIDs: result.InsertedIDs, InsertedCount: result.InsertedCount}, err
}

// FindOptions configures find/findOne (spec.md 4.9/6.2).
type FindOptions struct {
	Sort              map[string]any
	Projection        map[string]any
	Limit             int
	Skip              int
	IncludeSimilarity bool
	IncludeSortVector bool
	Call              options.CallOptions
}

// FindOne finds a single document matching filter. The boolean return
// reports whether a document was found.
func (c *Collection) FindOne(ctx context.Context, filter map[string]any, opts FindOptions) (map[string]any, bool, error) {
	body := map[string]any{"filter": filter}
	if opts.Sort != nil {
		body["sort"] = opts.Sort
	}
	if opts.Projection != nil {
		body["projection"] = opts.Projection
	}
	findOpts := map[string]any{}
	if opts.IncludeSimilarity {
		findOpts["includeSimilarity"] = true
	}
	if len(findOpts) > 0 {
		body["options"] = findOpts
	}
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "findOne", Body: body},
		options.CategoryGeneralMethod, opts.Call, timeoutmgr.SingleAttempt)
	if err != nil {
		return nil, false, err
	}
	if env.Data == nil || env.Data.Document == nil {
		return nil, false, nil
	}
	return env.Data.Document, true, nil
}

// collectionPageFetcher adapts a Collection's find command to
// cursor.PageFetcher (spec.md 4.9).
type collectionPageFetcher struct {
	col  *Collection
	call options.CallOptions
}

func (f *collectionPageFetcher) FetchPage(ctx context.Context, spec cursor.FindSpec, pageState *string) (cursor.Page, error) {
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
	if spec.IncludeSimilarity {
		opts["includeSimilarity"] = true
	}
	if spec.IncludeSortVector {
		opts["includeSortVector"] = true
	}
	if pageState != nil {
		opts["pageState"] = *pageState
	}
	if len(opts) > 0 {
		body["options"] = opts
	}

	env, err := f.col.dispatcher().dispatch(ctx, dataapi.Command{Name: "find", Body: body},
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

// Find returns a lazily-executed cursor over documents matching
// filter (spec.md 4.9).
func (c *Collection) Find(filter map[string]any, opts FindOptions) (*cursor.Cursor[map[string]any], error) {
	cur := cursor.New[map[string]any](&collectionPageFetcher{col: c, call: opts.Call}, identityDoc)
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
	if opts.IncludeSimilarity {
		if cur, err = cur.IncludeSimilarity(true); err != nil {
			return nil, err
		}
	}
	if opts.IncludeSortVector {
		if cur, err = cur.IncludeSortVector(true); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// UpdateOptions configures updateOne/updateMany/replaceOne (spec.md
// 4.10's Data API command options, upsert included).
type UpdateOptions struct {
	Upsert bool
	Sort   map[string]any
	Call   options.CallOptions
}

// UpdateResult reports the server's update accounting.
type UpdateResult struct {
	MatchedCount  int
	ModifiedCount int
	UpsertedID    any
}

func (c *Collection) update(ctx context.Context, name string, filter, update map[string]any, opts UpdateOptions, category options.Category) (UpdateResult, error) {
	body := map[string]any{"filter": filter, "update": update}
	if opts.Sort != nil {
		body["sort"] = opts.Sort
	}
	if opts.Upsert {
		body["options"] = map[string]any{"upsert": true}
	}
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: name, Body: body}, category, opts.Call, timeoutmgr.SingleAttempt)
	if err != nil {
		return UpdateResult{}, err
	}
	result := UpdateResult{}
	if env.Status != nil {
		result.MatchedCount = env.Status.MatchedCount
		result.ModifiedCount = env.Status.ModifiedCount
		if len(env.Status.InsertedIDs) > 0 {
			result.UpsertedID = env.Status.InsertedIDs[0]
		}
	}
	return result, nil
}

// UpdateOne updates the first document matching filter.
func (c *Collection) UpdateOne(ctx context.Context, filter, update map[string]any, opts UpdateOptions) (UpdateResult, error) {
	return c.update(ctx, "updateOne", filter, update, opts, options.CategoryGeneralMethod)
}

// UpdateMany updates every document matching filter.
func (c *Collection) UpdateMany(ctx context.Context, filter, update map[string]any, opts UpdateOptions) (UpdateResult, error) {
	return c.update(ctx, "updateMany", filter, update, opts, options.CategoryGeneralMethod)
}

// ReplaceOne replaces the first document matching filter.
func (c *Collection) ReplaceOne(ctx context.Context, filter, replacement map[string]any, opts UpdateOptions) (UpdateResult, error) {
	body := map[string]any{"filter": filter, "replacement": replacement}
	if opts.Upsert {
		body["options"] = map[string]any{"upsert": true}
	}
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "replaceOne", Body: body},
		options.CategoryGeneralMethod, opts.Call, timeoutmgr.SingleAttempt)
	if err != nil {
		return UpdateResult{}, err
	}
	result := UpdateResult{}
	if env.Status != nil {
		result.MatchedCount = env.Status.MatchedCount
		result.ModifiedCount = env.Status.ModifiedCount
		if len(env.Status.InsertedIDs) > 0 {
			result.UpsertedID = env.Status.InsertedIDs[0]
		}
	}
	return result, nil
}

// FindAndModifyOptions configures findOneAndUpdate/Replace/Delete.
type FindAndModifyOptions struct {
	Sort           map[string]any
	Projection     map[string]any
	Upsert         bool
	ReturnUpdated  bool
	Call           options.CallOptions
}

func (c *Collection) findAndModify(ctx context.Context, name string, body map[string]any, opts FindAndModifyOptions) (map[string]any, bool, error) {
	if opts.Sort != nil {
		body["sort"] = opts.Sort
	}
	if opts.Projection != nil {
		body["projection"] = opts.Projection
	}
	cmdOpts := map[string]any{}
	if opts.Upsert {
		cmdOpts["upsert"] = true
	}
	if opts.ReturnUpdated {
		cmdOpts["returnDocument"] = "after"
	}
	if len(cmdOpts) > 0 {
		body["options"] = cmdOpts
	}
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: name, Body: body},
		options.CategoryGeneralMethod, opts.Call, timeoutmgr.SingleAttempt)
	if err != nil {
		return nil, false, err
	}
	if env.Data == nil || env.Data.Document == nil {
		return nil, false, nil
	}
	return env.Data.Document, true, nil
}

// FindOneAndUpdate applies update to the first matching document and
// returns it.
func (c *Collection) FindOneAndUpdate(ctx context.Context, filter, update map[string]any, opts FindAndModifyOptions) (map[string]any, bool, error) {
	return c.findAndModify(ctx, "findOneAndUpdate", map[string]any{"filter": filter, "update": update}, opts)
}

// FindOneAndReplace replaces the first matching document and returns it.
func (c *Collection) FindOneAndReplace(ctx context.Context, filter, replacement map[string]any, opts FindAndModifyOptions) (map[string]any, bool, error) {
	return c.findAndModify(ctx, "findOneAndReplace", map[string]any{"filter": filter, "replacement": replacement}, opts)
}

// FindOneAndDelete deletes the first matching document and returns it.
func (c *Collection) FindOneAndDelete(ctx context.Context, filter map[string]any, opts FindAndModifyOptions) (map[string]any, bool, error) {
	return c.findAndModify(ctx, "findOneAndDelete", map[string]any{"filter": filter}, opts)
}

// DeleteOne deletes the first document matching filter.
func (c *Collection) DeleteOne(ctx context.Context, filter map[string]any, call options.CallOptions) (int, error) {
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "deleteOne", Body: map[string]any{"filter": filter}},
		options.CategoryGeneralMethod, call, timeoutmgr.SingleAttempt)
	return deletedCount(env), err
}

// DeleteMany deletes every document matching filter.
func (c *Collection) DeleteMany(ctx context.Context, filter map[string]any, call options.CallOptions) (int, error) {
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "deleteMany", Body: map[string]any{"filter": filter}},
		options.CategoryGeneralMethod, call, timeoutmgr.Multipart)
	return deletedCount(env), err
}

func deletedCount(env dataapi.Envelope) int {
	if env.Status == nil {
		return 0
	}
	return env.Status.DeletedCount
}

// CountDocuments counts documents matching filter, capped at
// upperBound (the Data API refuses to count past its server-side
// limit without an explicit, smaller bound).
func (c *Collection) CountDocuments(ctx context.Context, filter map[string]any, upperBound int, call options.CallOptions) (int, error) {
	body := map[string]any{"filter": filter, "options": map[string]any{"upperBound": upperBound}}
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "countDocuments", Body: body},
		options.CategoryGeneralMethod, call, timeoutmgr.SingleAttempt)
	if err != nil {
		return 0, err
	}
	if env.Status == nil {
		return 0, nil
	}
	return env.Status.Count, nil
}

// EstimatedDocumentCount returns the server's cheap, approximate
// count.
func (c *Collection) EstimatedDocumentCount(ctx context.Context, call options.CallOptions) (int, error) {
	env, err := c.dispatcher().dispatch(ctx, dataapi.Command{Name: "estimatedDocumentCount", Body: map[string]any{}},
		options.CategoryGeneralMethod, call, timeoutmgr.SingleAttempt)
	if err != nil {
		return 0, err
	}
	if env.Status == nil {
		return 0, nil
	}
	return env.Status.Count, nil
}

// Distinct returns the distinct values of key across documents
// matching filter.
func (c *Collection) Distinct(ctx context.Context, key string, filter map[string]any, call options.CallOptions) ([]any, error) {
	cur, err := c.Find(filter, FindOptions{Projection: map[string]any{key: 1}, Call: call})
	if err != nil {
		return nil, err
	}
	seen := map[any]bool{}
	var out []any
	for {
		doc, ok, err := cur.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		v, present := doc[key]
		if !present || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
}

// WriteModelKind discriminates one bulkWrite entry's operation.
type WriteModelKind int

const (
	WriteInsertOne WriteModelKind = iota
	WriteUpdateOne
	WriteUpdateMany
	WriteReplaceOne
	WriteDeleteOne
	WriteDeleteMany
)

// WriteModel is one entry of a bulkWrite call (spec.md 4.10's
// "bulkWrite" CRUD operation): exactly one of Document/Filter+Update/
// Filter+Replacement/Filter is populated, per Kind.
type WriteModel struct {
	Kind        WriteModelKind
	Document    map[string]any
	Filter      map[string]any
	Update      map[string]any
	Replacement map[string]any
	Upsert      bool
}

// BulkWriteOptions configures bulkWrite's ordering/concurrency, mirroring
// insertMany's (spec.md 5).
type BulkWriteOptions struct {
	Ordered     bool
	Concurrency int
	Call        options.CallOptions
}

// BulkWriteResult is the combined per-kind accounting across every
// WriteModel that bulkWrite executed.
type BulkWriteResult struct {
	InsertedCount int
	MatchedCount  int
	ModifiedCount int
	DeletedCount  int
	UpsertedCount int
	InsertedIDs   []any
	UpsertedIDs   []any
}

func (r *BulkWriteResult) add(other BulkWriteResult) {
	r.InsertedCount += other.InsertedCount
	r.MatchedCount += other.MatchedCount
	r.ModifiedCount += other.ModifiedCount
	r.DeletedCount += other.DeletedCount
	r.UpsertedCount += other.UpsertedCount
	r.InsertedIDs = append(r.InsertedIDs, other.InsertedIDs...)
	r.UpsertedIDs = append(r.UpsertedIDs, other.UpsertedIDs...)
}

// execModel runs one WriteModel and folds its outcome into a
// BulkWriteResult.
func (c *Collection) execModel(ctx context.Context, m WriteModel, call options.CallOptions) (BulkWriteResult, error) {
	switch m.Kind {
	case WriteInsertOne:
		res, err := c.InsertOne(ctx, m.Document, call)
		if err != nil {
			return BulkWriteResult{}, err
		}
		out := BulkWriteResult{InsertedCount: 1}
		if res.InsertedID != nil {
			out.InsertedIDs = []any{res.InsertedID}
		}
		return out, nil
	case WriteUpdateOne, WriteUpdateMany:
		upd := c.UpdateOne
		if m.Kind == WriteUpdateMany {
			upd = c.UpdateMany
		}
		res, err := upd(ctx, m.Filter, m.Update, UpdateOptions{Upsert: m.Upsert, Call: call})
		if err != nil {
			return BulkWriteResult{}, err
		}
		out := BulkWriteResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
		if res.UpsertedID != nil {
			out.UpsertedCount = 1
			out.UpsertedIDs = []any{res.UpsertedID}
		}
		return out, nil
	case WriteReplaceOne:
		res, err := c.ReplaceOne(ctx, m.Filter, m.Replacement, UpdateOptions{Upsert: m.Upsert, Call: call})
		if err != nil {
			return BulkWriteResult{}, err
		}
		out := BulkWriteResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}
		if res.UpsertedID != nil {
			out.UpsertedCount = 1
			out.UpsertedIDs = []any{res.UpsertedID}
		}
		return out, nil
	case WriteDeleteOne, WriteDeleteMany:
		del := c.DeleteOne
		if m.Kind == WriteDeleteMany {
			del = c.DeleteMany
		}
		n, err := del(ctx, m.Filter, call)
		if err != nil {
			return BulkWriteResult{}, err
		}
		return BulkWriteResult{DeletedCount: n}, nil
	default:
		return BulkWriteResult{}, &InvalidArgumentsError{Reason: "unknown WriteModel kind"}
	}
}

// BulkWrite executes models per opts.Ordered/opts.Concurrency, the
// same strict-sequential-abort vs. fan-out-and-combine semantics as
// InsertMany (spec.md 5), generalized from single-document inserts to
// heterogeneous write models.
func (c *Collection) BulkWrite(ctx context.Context, models []WriteModel, opts BulkWriteOptions) (BulkWriteResult, error) {
	if opts.Ordered {
		var result BulkWriteResult
		for i, m := range models {
			out, err := c.execModel(ctx, m, opts.Call)
			result.add(out)
			if err != nil {
				return result, &bulk.Error{
					PartialResult:            bulk.PartialResult{InsertedIDs: result.InsertedIDs, InsertedCount: result.InsertedCount},
					DetailedErrorDescriptors: []bulk.ChunkFailure{{StartIndex: i, Err: err}},
				}
			}
		}
		return result, nil
	}

	results := make([]BulkWriteResult, len(models))
	errs := make([]error, len(models))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, m := range models {
		i, m := i, m
		g.Go(func() error {
			out, err := c.execModel(gctx, m, opts.Call)
			results[i] = out
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	var result BulkWriteResult
	var combined error
	var detailed []bulk.ChunkFailure
	for i, out := range results {
		result.add(out)
		if errs[i] != nil {
			combined = multierr.Append(combined, errs[i])
			detailed = append(detailed, bulk.ChunkFailure{StartIndex: i, Err: errs[i]})
		}
	}
	if combined == nil {
		return result, nil
	}
	return result, &bulk.Error{
		PartialResult:            bulk.PartialResult{InsertedIDs: result.InsertedIDs, InsertedCount: result.InsertedCount},
		DetailedErrorDescriptors: detailed,
	}
}
