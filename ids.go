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
	"fmt"

	"github.com/rsds143/astra-data-go/serdes"
)

// idKind discriminates SomeID's variant, the Go rendition of the
// { Str | Int | Bool | Date | UUID | ObjectID | Null } tagged union
// a language without sum types needs for a document's _id.
type idKind int

const (
	idNull idKind = iota
	idStr
	idInt
	idBool
	idDate
	idUUID
	idObjectID
)

// SomeID is any value a document's _id field may legally hold.
// Construct one with the From* functions, or convert a deserialized
// document's raw "_id" value with SomeIDFromAny.
type SomeID struct {
	kind idKind
	str  string
	i    int64
	b    bool
	date serdes.Date
	uuid serdes.UUID
	oid  serdes.ObjectID
}

// NullID is the explicit null id (spec.md 8: "insertOne({_id: null})
// persists a null id; does not auto-generate").
func NullID() SomeID { return SomeID{kind: idNull} }

// IDFromString builds a string _id.
func IDFromString(s string) SomeID { return SomeID{kind: idStr, str: s} }

// IDFromInt builds an integer _id.
func IDFromInt(i int64) SomeID { return SomeID{kind: idInt, i: i} }

// IDFromBool builds a boolean _id.
func IDFromBool(b bool) SomeID { return SomeID{kind: idBool, b: b} }

// IDFromDate builds a Date _id.
func IDFromDate(d serdes.Date) SomeID { return SomeID{kind: idDate, date: d} }

// IDFromUUID builds a UUID _id.
func IDFromUUID(u serdes.UUID) SomeID { return SomeID{kind: idUUID, uuid: u} }

// IDFromObjectID builds an ObjectID _id.
func IDFromObjectID(o serdes.ObjectID) SomeID { return SomeID{kind: idObjectID, oid: o} }

// SomeIDFromAny classifies a value already shaped by the ser/des
// engine (a deserialized document's raw "_id" field) into a SomeID.
func SomeIDFromAny(v any) SomeID {
	switch t := v.(type) {
	case nil:
		return NullID()
	case string:
		return IDFromString(t)
	case bool:
		return IDFromBool(t)
	case int64:
		return IDFromInt(t)
	case int:
		return IDFromInt(int64(t))
	case float64:
		return IDFromInt(int64(t))
	case serdes.Date:
		return IDFromDate(t)
	case serdes.UUID:
		return IDFromUUID(t)
	case serdes.ObjectID:
		return IDFromObjectID(t)
	default:
		return SomeID{kind: idStr, str: fmt.Sprintf("%v", t)}
	}
}

// IsNull reports whether this id is the explicit null variant.
func (id SomeID) IsNull() bool { return id.kind == idNull }

// Value returns the wrapped native value (nil for the null variant),
// ready to be placed under a document's "_id" key and run through the
// ser/des engine like any other field.
func (id SomeID) Value() any {
	switch id.kind {
	case idStr:
		return id.str
	case idInt:
		return id.i
	case idBool:
		return id.b
	case idDate:
		return id.date
	case idUUID:
		return id.uuid
	case idObjectID:
		return id.oid
	default:
		return nil
	}
}

func (id SomeID) String() string {
	switch id.kind {
	case idNull:
		return "null"
	case idStr:
		return id.str
	case idInt:
		return fmt.Sprintf("%d", id.i)
	case idBool:
		return fmt.Sprintf("%t", id.b)
	case idDate:
		return id.date.String()
	case idUUID:
		return id.uuid.String()
	case idObjectID:
		return id.oid.String()
	default:
		return ""
	}
}
