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

// Package timeoutmgr implements the timeout manager (C3): it maps a
// per-call timeout plus inherited defaults into the deadline consulted
// before each network attempt, and classifies which category bound
// that deadline on expiry. A timeout manager lives exactly one method
// call (spec.md 3.5).
package timeoutmgr

import (
	"time"

	"github.com/rsds143/astra-data-go/options"
)

// Mode selects between the two timeout-accounting strategies spec.md
// 4.3 describes.
type Mode int

const (
	// SingleAttempt is used for one-shot commands: the deadline is
	// min(requestTimeoutMs, categoryTimeoutMs) for the one attempt.
	SingleAttempt Mode = iota
	// Multipart is used for paginated cursors and long-running polls:
	// a wall-clock start is tracked and each attempt gets
	// min(requestTimeoutMs, remaining_of(categoryTimeoutMs)).
	Multipart
)

// Manager computes the binding deadline for each network attempt of a
// single logical call.
type Manager struct {
	mode     Mode
	category options.Category
	resolved options.TimeoutDescriptor
	start    time.Time
}

// New builds a Manager from the fully-resolved descriptor (already
// merged with any per-call override) and the operation's category.
func New(mode Mode, resolved options.TimeoutDescriptor, category options.Category) *Manager {
	return &Manager{mode: mode, category: category, resolved: resolved, start: now()}
}

// now is indirected so tests can control wall-clock progression
// without sleeping.
var now = time.Now

// Initial returns the resolved descriptor, for inclusion verbatim in
// events and errors.
func (m *Manager) Initial() options.TimeoutDescriptor { return m.resolved }

// Categories names which field(s) are binding for this manager. In
// single-attempt mode with equal request/category values, both are
// reported as binding (spec.md 4.3).
func (m *Manager) categories(requestMs, categoryMs time.Duration) []options.Category {
	if requestMs == categoryMs {
		return []options.Category{"requestTimeoutMs", m.category}
	}
	if requestMs < categoryMs {
		return []options.Category{"requestTimeoutMs"}
	}
	return []options.Category{m.category}
}

// Advance computes the deadline for the next attempt and a factory
// for the TimeoutError that should be raised if that deadline elapses.
// It never returns a negative deadline; once the budget is exhausted
// the returned duration is 0 and mkErr still names at least one
// category.
func (m *Manager) Advance() (time.Duration, func() *Error) {
	requestMs := options.Get(m.resolved.RequestTimeoutMs)

	switch m.mode {
	case Multipart:
		categoryMs := options.GetCategory(m.resolved, m.category)
		elapsed := now().Sub(m.start)
		remaining := categoryMs - elapsed
		if remaining < 0 {
			remaining = 0
		}
		deadline := requestMs
		if remaining < deadline {
			deadline = remaining
		}
		cats := []options.Category{m.category}
		if deadline == requestMs && requestMs <= remaining {
			cats = []options.Category{"requestTimeoutMs", m.category}
		}
		return deadline, func() *Error {
			return &Error{Categories: cats, TimeoutMs: deadline.Milliseconds()}
		}
	default: // SingleAttempt
		categoryMs := options.GetCategory(m.resolved, m.category)
		deadline := requestMs
		if categoryMs < deadline {
			deadline = categoryMs
		}
		cats := m.categories(requestMs, categoryMs)
		return deadline, func() *Error {
			return &Error{Categories: cats, TimeoutMs: deadline.Milliseconds()}
		}
	}
}
