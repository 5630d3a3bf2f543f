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

// Package cursor implements the cursor engine (C9): an immutable
// (filter, options) pair plus mutable lazy-fetch execution state,
// modeled on spec.md 4.9.
package cursor

import "fmt"

// State is a cursor's one-way execution state machine: idle -> started
// -> closed.
type State int

const (
	StateIdle State = iota
	StateStarted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Error is CursorError: illegal builder use or consumption after
// close.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("cursor: %s", e.Reason) }

func newError(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}
