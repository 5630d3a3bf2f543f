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

// Package events implements the logger + event bus (C5): structured
// events with hierarchical listener propagation modeled on DOM
// bubbling, and per-event output routing (emit/stdout/stderr).
package events

import (
	"time"

	"github.com/rsds143/astra-data-go/options"
)

// Target names the kind of entity an event originated from.
type Target string

// Recognized targets.
const (
	TargetCollection Target = "collection"
	TargetTable      Target = "table"
	TargetKeyspace   Target = "keyspace"
	TargetDatabase   Target = "database"
	TargetNone       Target = ""
)

// Event is the payload every listener receives. Only the fields
// relevant to its Kind are populated.
type Event struct {
	Kind      options.EventKind
	RequestID string
	Name      string
	Timestamp time.Time
	Target    Target
	Keyspace  string
	URL       string
	Duration  time.Duration
	Err       error
	Warnings  []string
	Command   any

	// Admin polling fields.
	Elapsed  time.Duration
	Interval time.Duration

	propagationStopped         bool
	immediatePropagationStopped bool
}

// StopPropagation prevents this event from reaching parent entities,
// without affecting remaining listeners at the current level.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// StopImmediatePropagation stops both outer-level propagation and any
// remaining sibling listeners at the current level.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

func (e *Event) isPropagationStopped() bool         { return e.propagationStopped }
func (e *Event) isImmediatePropagationStopped() bool { return e.immediatePropagationStopped }
