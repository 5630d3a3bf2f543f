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
	"fmt"

	"github.com/rsds143/astra-data-go/internal/dataapi"
)

// PartialResult is the prefix/subset of a bulk operation that
// succeeded before the operation aborted or finished with failures.
type PartialResult struct {
	InsertedIDs  []any
	InsertedCount int
}

// Error is InsertManyError / BulkWriteError (spec.md 7): partial
// success in a bulk insertMany/bulkWrite, carrying the combined
// partial result plus per-document and per-chunk error descriptors.
type Error struct {
	PartialResult           PartialResult
	ErrorDescriptors        []dataapi.ErrorDescriptor
	DetailedErrorDescriptors []ChunkFailure
}

// ChunkFailure names which chunk (by starting document index) failed
// and why, letting a caller map a descriptor back to its input
// documents.
type ChunkFailure struct {
	StartIndex  int
	Descriptors []dataapi.ErrorDescriptor
	Err         error
}

func (e *Error) Error() string {
	if len(e.ErrorDescriptors) == 0 {
		return fmt.Sprintf("bulk: partial failure, %d inserted", e.PartialResult.InsertedCount)
	}
	return fmt.Sprintf("bulk: %s (%d inserted)", e.ErrorDescriptors[0].Message, e.PartialResult.InsertedCount)
}
