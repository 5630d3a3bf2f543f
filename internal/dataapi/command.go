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

// Package dataapi implements the Data API HTTP client (C7): command
// assembly, dispatch through the fetcher with a timeout-manager
// deadline, event emission, and response envelope interpretation.
// Grounded on DeanPDX/astra-db-go's command.go (resolveOptions, url(),
// single-key MarshalJSON, Execute/ExtractErrors), generalized to route
// through the ser/des engine (C6) and the event bus (C5) instead of
// plain encoding/json and log output.
package dataapi

import (
	"github.com/rsds143/astra-data-go/serdes"
)

// Command is one Data API command: a single-key object
// { "<name>": <body> } per spec.md 6.2. The body is wrapped under Name
// only after running through the ser/des engine (C6), so Command
// itself carries no JSON marshaling of its own.
type Command struct {
	Name string
	Body any
}

// Envelope is the decoded response body: status/data/errors, with
// errors[] inspected *before* treating an HTTP 200 as success
// (spec.md 6.2).
type Envelope struct {
	Status *Status          `json:"status,omitempty"`
	Data   *Data            `json:"data,omitempty"`
	Errors []ErrorDescriptor `json:"errors,omitempty"`
}

// Status carries the optional per-response metadata: warnings,
// insertedIds, the projection schema used to deserialize rows, a
// pagination cursor, and admin-specific fields.
type Status struct {
	Warnings         []string                `json:"warnings,omitempty"`
	InsertedIDs      []any                   `json:"insertedIds,omitempty"`
	ProjectionSchema serdes.ProjectionSchema `json:"projectionSchema,omitempty"`
	NextPageState    *string                 `json:"nextPageState,omitempty"`
	SortVector       []float32               `json:"sortVector,omitempty"`

	// Count is countDocuments'/estimatedDocumentCount's result.
	Count int `json:"count,omitempty"`
	// Names lists schema object names for findCollections/findTables-
	// shaped admin responses.
	Names []string `json:"names,omitempty"`
	// MatchedCount/ModifiedCount/DeletedCount are updateOne/Many's and
	// deleteOne/Many's per-command accounting.
	MatchedCount  int `json:"matchedCount,omitempty"`
	ModifiedCount int `json:"modifiedCount,omitempty"`
	DeletedCount  int `json:"deletedCount,omitempty"`
	MoreData      bool `json:"moreData,omitempty"`
}

// Data carries the response payload: a single document or a
// documents/rows array.
type Data struct {
	Document  map[string]any   `json:"document,omitempty"`
	Documents []map[string]any `json:"documents,omitempty"`
	NextPageState *string      `json:"nextPageState,omitempty"`
}

// HasErrors reports whether the envelope carries a non-empty errors[]
// array, which must be treated as failure even on HTTP 200.
func (e Envelope) HasErrors() bool { return len(e.Errors) > 0 }

// HasWarnings reports whether status.warnings is non-empty, driving
// the commandWarnings event (spec.md Testable Property 3).
func (e Envelope) HasWarnings() bool { return e.Status != nil && len(e.Status.Warnings) > 0 }
