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

// Package astradata is the root of the client library: Client, Db,
// Collection, Table, Admin, and DbAdmin, built over the serdes (C6),
// dataapi (C7), devops (C8), cursor (C9), and bulk (C11) engines.
package astradata

import (
	"fmt"

	"github.com/rsds143/astra-data-go/bulk"
	"github.com/rsds143/astra-data-go/cursor"
	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/internal/devops"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

// InvalidArgumentsError is raised for an illegal combination of
// arguments at a call site (e.g. both sort and a vector shortcut on
// the same find), distinct from InvalidOptionsError (a configuration
// layer problem, not a call-site one).
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Reason)
}

// The remaining entries of spec.md 7's error taxonomy are each owned
// by the engine that raises them; they are aliased here so a caller
// never has to import a second package for a type switch on err.
type (
	// InvalidOptionsError is a parse/validation failure in options.
	InvalidOptionsError = options.InvalidOptionsError
	// TimeoutError names which category(ies) bound an elapsed deadline.
	TimeoutError = timeoutmgr.Error
	// FetchError is a transport-level failure below the HTTP response.
	FetchError = dataapi.FetchError
	// DataAPIResponseError carries a non-empty errors[] from the Data API.
	DataAPIResponseError = dataapi.ResponseError
	// DevOpsResponseError carries a non-2xx or error payload from DevOps.
	DevOpsResponseError = devops.ResponseError
	// UnexpectedStateError is raised when a polled resource leaves its
	// legal state set before reaching the target.
	UnexpectedStateError = devops.UnexpectedStateError
	// BulkWriteError/InsertManyError carries partial bulk-insert success.
	BulkWriteError   = bulk.Error
	InsertManyError  = bulk.Error
	// CursorError is illegal builder use or consumption after close.
	CursorError = cursor.Error
	// SerializationError is raised by a codec during traversal; it
	// carries the path at which it failed.
	SerializationError = serdes.SerializationError
)
