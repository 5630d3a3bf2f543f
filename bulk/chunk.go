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

// Package bulk implements ordering and concurrency support for
// insertMany/bulkWrite (C11): chunking into the server's per-request
// batch size, a strictly sequential ordered path that aborts on first
// failure, and a bounded-concurrency unordered path that preserves
// per-document ids in input order (spec.md 5 "CONCURRENCY & RESOURCE
// MODEL").
package bulk

// DefaultChunkSize is the default number of documents per insertMany
// request (spec.md 8 Boundary behaviors: "a batch of 20 documents ...
// fits in one HTTP request").
const DefaultChunkSize = 20

// Chunk splits docs into groups of at most size, preserving order.
// size <= 0 falls back to DefaultChunkSize.
func Chunk[T any](docs []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(docs) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(docs)+size-1)/size)
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}
