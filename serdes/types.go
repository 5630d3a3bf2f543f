package serdes

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UUID is the nominal wrapper deserialized from {"$uuid": "..."}.
type UUID struct {
	uuid.UUID
}

// NewUUID wraps an existing google/uuid value.
func NewUUID(u uuid.UUID) UUID { return UUID{u} }

// ParseUUID parses the canonical string form.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// ObjectID is the 12-byte Mongo-style identifier deserialized from
// {"$objectId": "<24 hex chars>"}. The pack carries no bson/ObjectId
// library, so this is hand-rolled per the documented wire format
// (4-byte timestamp, 5-byte random, 3-byte counter) rather than a
// stdlib fallback for a concern the corpus otherwise covers.
type ObjectID [12]byte

var objectIDCounter uint32

// NewObjectID generates a fresh ObjectID using the current time, 5
// random bytes drawn anew for each id, and an incrementing counter,
// following the standard ObjectId byte layout.
func NewObjectID() ObjectID {
	var id ObjectID
	ts := uint32(time.Now().Unix())
	id[0], id[1], id[2], id[3] = byte(ts>>24), byte(ts>>16), byte(ts>>8), byte(ts)

	var random [5]byte
	_, _ = rand.Read(random[:])
	copy(id[4:9], random[:])

	c := atomic.AddUint32(&objectIDCounter, 1)
	id[9], id[10], id[11] = byte(c>>16), byte(c>>8), byte(c)
	return id
}

// ParseObjectID decodes a 24-character hex string.
func ParseObjectID(s string) (ObjectID, error) {
	var id ObjectID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("serdes: objectId must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id ObjectID) String() string { return hex.EncodeToString(id[:]) }

// Vector is a dense float32 embedding, serialized as either a JSON
// array of numbers or {"$binary": <base64 float32-le>}.
type Vector []float32

// Binary wraps opaque bytes serialized as {"$binary": <base64>}.
type Binary []byte

// Date is the nominal wrapper for {"$date": <epoch ms>}.
type Date struct {
	time.Time
}

// NewDate truncates t to millisecond precision, matching the wire
// representation's resolution.
func NewDate(t time.Time) Date { return Date{t.Truncate(time.Millisecond)} }

// DateFromEpochMillis builds a Date from the wire's epoch-millisecond form.
func DateFromEpochMillis(ms int64) Date {
	return Date{time.UnixMilli(ms).UTC()}
}

// EpochMillis returns the wire epoch-millisecond form.
func (d Date) EpochMillis() int64 { return d.Time.UnixMilli() }

// ErrBigNumbersDisabled is returned when a bigint/arbitrary-precision
// decimal value is encountered but the collection has big numbers
// disabled.
var ErrBigNumbersDisabled = errors.New("serdes: bigint/decimal value requires bigNumbers to be enabled")

// BigInt wraps math/big.Int for passthrough under the big-numbers
// policy; only meaningful when Ctx.BigNumbers is true.
type BigInt struct {
	*big.Int
}

// Decimal wraps shopspring/decimal for arbitrary-precision decimal
// columns.
type Decimal struct {
	decimal.Decimal
}

// Set is a JSON-array-serialized collection with set semantics:
// NewSet drops duplicates by equality of the any value's comparable
// form.
type Set []any

// NewSet builds a Set from items, dropping duplicates in encounter
// order.
func NewSet(items ...any) Set {
	out := make(Set, 0, len(items))
	seen := make(map[any]bool, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
