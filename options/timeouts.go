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

// Package options implements the hierarchical, monoidal configuration
// handlers (client -> db -> collection/table -> per-call) described by
// the Data API client's options model.
package options

import "time"

// Category names the timeout field bound by a particular operation.
type Category string

// The set of timeout categories a command can be billed against.
const (
	CategoryGeneralMethod  Category = "generalMethodTimeoutMs"
	CategoryCollectionAdmin Category = "collectionAdminTimeoutMs"
	CategoryTableAdmin      Category = "tableAdminTimeoutMs"
	CategoryDatabaseAdmin   Category = "databaseAdminTimeoutMs"
	CategoryKeyspaceAdmin   Category = "keyspaceAdminTimeoutMs"
)

// infiniteMs is the sentinel used for a 0 ("infinite") timeout field.
// Picked large enough that duration arithmetic never overflows but
// comparisons against any realistic deadline always lose.
const infiniteMs int64 = 1 << 40

// TimeoutDescriptor is the named-field structure enumerating request
// and per-category deadlines. A field of 0 means "effectively
// infinite". Unset pointer fields inherit the parent's effective
// value during merge; this is why the struct uses *int64 rather than
// int64 for every field.
type TimeoutDescriptor struct {
	RequestTimeoutMs         *int64 `validate:"omitempty,gte=0"`
	GeneralMethodTimeoutMs   *int64 `validate:"omitempty,gte=0"`
	CollectionAdminTimeoutMs *int64 `validate:"omitempty,gte=0"`
	TableAdminTimeoutMs      *int64 `validate:"omitempty,gte=0"`
	DatabaseAdminTimeoutMs   *int64 `validate:"omitempty,gte=0"`
	KeyspaceAdminTimeoutMs   *int64 `validate:"omitempty,gte=0"`
}

// DefaultTimeoutDescriptor returns the library defaults: 10s request,
// 30s general method, 60s collection admin, 30s table admin, 10min
// database admin, 30s keyspace admin.
func DefaultTimeoutDescriptor() TimeoutDescriptor {
	return TimeoutDescriptor{
		RequestTimeoutMs:         ms(10_000),
		GeneralMethodTimeoutMs:   ms(30_000),
		CollectionAdminTimeoutMs: ms(60_000),
		TableAdminTimeoutMs:      ms(30_000),
		DatabaseAdminTimeoutMs:   ms(10 * 60_000),
		KeyspaceAdminTimeoutMs:   ms(30_000),
	}
}

func ms(v int64) *int64 { return &v }

// EmptyTimeoutDescriptor is the monoid identity: every field unset.
func EmptyTimeoutDescriptor() TimeoutDescriptor { return TimeoutDescriptor{} }

// ConcatTimeouts merges two descriptors field-wise, b taking
// precedence over a wherever it sets a value. Associative, with
// EmptyTimeoutDescriptor as identity, per the options monoid law in
// spec.md Testable Property 1.
func ConcatTimeouts(a, b TimeoutDescriptor) TimeoutDescriptor {
	return TimeoutDescriptor{
		RequestTimeoutMs:         pick(a.RequestTimeoutMs, b.RequestTimeoutMs),
		GeneralMethodTimeoutMs:   pick(a.GeneralMethodTimeoutMs, b.GeneralMethodTimeoutMs),
		CollectionAdminTimeoutMs: pick(a.CollectionAdminTimeoutMs, b.CollectionAdminTimeoutMs),
		TableAdminTimeoutMs:      pick(a.TableAdminTimeoutMs, b.TableAdminTimeoutMs),
		DatabaseAdminTimeoutMs:   pick(a.DatabaseAdminTimeoutMs, b.DatabaseAdminTimeoutMs),
		KeyspaceAdminTimeoutMs:   pick(a.KeyspaceAdminTimeoutMs, b.KeyspaceAdminTimeoutMs),
	}
}

func pick(a, b *int64) *int64 {
	if b != nil {
		return b
	}
	return a
}

// Get returns the effective millisecond value for a field, treating a
// nil pointer as "inherit nothing set" (caller should have already
// merged against defaults) and a value of 0 as infinite.
func Get(field *int64) time.Duration {
	if field == nil {
		return 0
	}
	if *field == 0 {
		return time.Duration(infiniteMs) * time.Millisecond
	}
	return time.Duration(*field) * time.Millisecond
}

// GetCategory resolves the duration for a named category out of a
// fully-merged descriptor.
func GetCategory(d TimeoutDescriptor, cat Category) time.Duration {
	switch cat {
	case CategoryGeneralMethod:
		return Get(d.GeneralMethodTimeoutMs)
	case CategoryCollectionAdmin:
		return Get(d.CollectionAdminTimeoutMs)
	case CategoryTableAdmin:
		return Get(d.TableAdminTimeoutMs)
	case CategoryDatabaseAdmin:
		return Get(d.DatabaseAdminTimeoutMs)
	case CategoryKeyspaceAdmin:
		return Get(d.KeyspaceAdminTimeoutMs)
	default:
		return Get(d.GeneralMethodTimeoutMs)
	}
}

// PerCallTimeout is the `timeout` shorthand accepted at the call site:
// either a bare millisecond count or a partial descriptor override.
type PerCallTimeout struct {
	// Millis is set when the caller passed a bare number.
	Millis *int64
	// Partial is set when the caller passed a descriptor fragment.
	Partial *TimeoutDescriptor
}

// TimeoutMillis builds a PerCallTimeout from a bare number.
func TimeoutMillis(ms int64) PerCallTimeout {
	return PerCallTimeout{Millis: &ms}
}

// TimeoutPartial builds a PerCallTimeout from a descriptor fragment.
func TimeoutPartial(d TimeoutDescriptor) PerCallTimeout {
	return PerCallTimeout{Partial: &d}
}

// ResolveSingleAttempt applies the per-call shorthand policy for a
// single-attempt command: a bare number sets both RequestTimeoutMs and
// the category timeout.
func (p PerCallTimeout) ResolveSingleAttempt(base TimeoutDescriptor, cat Category) TimeoutDescriptor {
	if p.Millis != nil {
		v := *p.Millis
		override := TimeoutDescriptor{RequestTimeoutMs: &v}
		setCategory(&override, cat, v)
		return ConcatTimeouts(base, override)
	}
	if p.Partial != nil {
		return ConcatTimeouts(base, *p.Partial)
	}
	return base
}

// ResolveMultipart applies the per-call shorthand policy for a
// multipart (paginated/polling) command: a bare number sets only the
// category timeout, leaving RequestTimeoutMs inherited.
func (p PerCallTimeout) ResolveMultipart(base TimeoutDescriptor, cat Category) TimeoutDescriptor {
	if p.Millis != nil {
		v := *p.Millis
		var override TimeoutDescriptor
		setCategory(&override, cat, v)
		return ConcatTimeouts(base, override)
	}
	if p.Partial != nil {
		return ConcatTimeouts(base, *p.Partial)
	}
	return base
}

func setCategory(d *TimeoutDescriptor, cat Category, v int64) {
	switch cat {
	case CategoryGeneralMethod:
		d.GeneralMethodTimeoutMs = &v
	case CategoryCollectionAdmin:
		d.CollectionAdminTimeoutMs = &v
	case CategoryTableAdmin:
		d.TableAdminTimeoutMs = &v
	case CategoryDatabaseAdmin:
		d.DatabaseAdminTimeoutMs = &v
	case CategoryKeyspaceAdmin:
		d.KeyspaceAdminTimeoutMs = &v
	}
}
