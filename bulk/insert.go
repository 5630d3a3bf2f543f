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

package bulk

import (
	"context"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/rsds143/astra-data-go/internal/dataapi"
)

// ChunkResult is the outcome of dispatching one insertMany chunk. A
// chunk can partially succeed: the Data API returns insertedIds for
// the documents that made it in alongside errors[] for the ones that
// didn't, in the same response (spec.md 6.2's "errors are reported
// inside errors[] even on HTTP 200" applies per-document here too).
type ChunkResult struct {
	InsertedIDs []any
	Errors      []dataapi.ErrorDescriptor
}

// Inserter dispatches one insertMany chunk. Only a transport/context
// failure (nothing could be learned about which documents landed)
// should be returned as err; server-acknowledged per-document
// failures belong in ChunkResult.Errors with whatever InsertedIDs did
// land alongside them.
type Inserter interface {
	InsertChunk(ctx context.Context, docs []any, ordered bool) (ChunkResult, error)
}

// Options configures InsertMany/BulkWrite fan-out (spec.md 5).
type Options struct {
	// Ordered, when true, dispatches chunks strictly sequentially and
	// aborts at the first chunk reporting any document failure.
	// When false, chunks fan out up to Concurrency at once and all
	// results are combined regardless of individual failures.
	Ordered     bool
	Concurrency int
	ChunkSize   int
}

// InsertMany fans documents out to inserter per Options, returning the
// combined partial result. The returned error, if any, is an *Error
// (BulkWriteError/InsertManyError) carrying everything inserted before
// the operation concluded.
func InsertMany(ctx context.Context, inserter Inserter, docs []any, opts Options) (*PartialResult, error) {
	chunks := Chunk(docs, opts.ChunkSize)
	if opts.Ordered {
		return insertOrdered(ctx, inserter, chunks)
	}
	return insertUnordered(ctx, inserter, chunks, opts.Concurrency)
}

// insertOrdered dispatches chunks sequentially, in order, aborting
// (without dispatching further chunks) at the first one carrying any
// document failure (spec.md 5: "ordered insertMany is strictly
// sequential and aborts on first failure").
func insertOrdered(ctx context.Context, inserter Inserter, chunks [][]any) (*PartialResult, error) {
	result := &PartialResult{}
	var descriptors []dataapi.ErrorDescriptor
	var detailed []ChunkFailure

	start := 0
	for _, chunk := range chunks {
		res, err := inserter.InsertChunk(ctx, chunk, true)
		result.InsertedIDs = append(result.InsertedIDs, res.InsertedIDs...)
		result.InsertedCount += len(res.InsertedIDs)

		if err != nil {
			detailed = append(detailed, ChunkFailure{StartIndex: start, Err: err})
			return result, &Error{PartialResult: *result, ErrorDescriptors: descriptors, DetailedErrorDescriptors: detailed}
		}
		if len(res.Errors) > 0 {
			descriptors = append(descriptors, res.Errors...)
			detailed = append(detailed, ChunkFailure{StartIndex: start, Descriptors: res.Errors})
			return result, &Error{PartialResult: *result, ErrorDescriptors: descriptors, DetailedErrorDescriptors: detailed}
		}
		start += len(chunk)
	}
	return result, nil
}

// insertUnordered fans chunks out up to concurrency at once
// (concurrency <= 0 means unbounded: one goroutine per chunk, matching
// errgroup's zero-value SetLimit meaning "no limit"). There is no
// ordering guarantee between chunks; all results are combined and
// every failure is reported in the returned *Error's ErrorDescriptors
// and DetailedErrorDescriptors rather than aborting early (multierr
// only combines chunk transport errors to detect that one occurred)
// (spec.md 5: "no guarantee; partial successes are reported via a
// BulkWriteError ... carrying detailedErrorDescriptors").
func insertUnordered(ctx context.Context, inserter Inserter, chunks [][]any, concurrency int) (*PartialResult, error) {
	results := make([]ChunkResult, len(chunks))
	chunkErrs := make([]error, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			res, err := inserter.InsertChunk(gctx, chunk, false)
			results[i] = res
			chunkErrs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	result := &PartialResult{}
	var descriptors []dataapi.ErrorDescriptor
	var detailed []ChunkFailure
	var combined error

	start := 0
	for i, chunk := range chunks {
		res := results[i]
		result.InsertedIDs = append(result.InsertedIDs, res.InsertedIDs...)
		result.InsertedCount += len(res.InsertedIDs)
		if err := chunkErrs[i]; err != nil {
			combined = multierr.Append(combined, err)
			detailed = append(detailed, ChunkFailure{StartIndex: start, Err: err})
		}
		if len(res.Errors) > 0 {
			descriptors = append(descriptors, res.Errors...)
			detailed = append(detailed, ChunkFailure{StartIndex: start, Descriptors: res.Errors})
		}
		start += len(chunk)
	}

	if combined == nil && len(descriptors) == 0 {
		return result, nil
	}
	return result, &Error{PartialResult: *result, ErrorDescriptors: descriptors, DetailedErrorDescriptors: detailed}
}
