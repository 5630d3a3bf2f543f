package serdes

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"
)

// markerCodec is the shape shared by every builtin $-marker codec: a
// Go nominal type on serialize, a single-key {"$marker": ...} object
// on deserialize. Unlike FuncCodec, its selectors always match and
// routing is decided inside Apply, since the deserialize side only
// ever sees a generic map[string]any and must inspect its one key.
type markerCodec struct {
	name string
	fn   func(ctx Ctx, dir Direction, v any) (Signal, error)
}

func (m markerCodec) Name() string                    { return m.name }
func (m markerCodec) MatchesPath(Path) bool            { return true }
func (m markerCodec) MatchesType(reflect.Type) bool    { return true }
func (m markerCodec) Apply(ctx Ctx, dir Direction, v any) (Signal, error) {
	return m.fn(ctx, dir, v)
}

func singleKeyMap(v any, key string) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	raw, ok := m[key]
	return raw, ok
}

// UUIDCodec serializes UUID as {"$uuid": "..."} and parses it back.
func UUIDCodec() Codec {
	return markerCodec{name: "uuid", fn: func(_ Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			u, ok := v.(UUID)
			if !ok {
				return Nevermind(), nil
			}
			return Done(map[string]any{"$uuid": u.String()}), nil
		}
		raw, ok := singleKeyMap(v, "$uuid")
		if !ok {
			return Nevermind(), nil
		}
		s, ok := raw.(string)
		if !ok {
			return Nevermind(), nil
		}
		u, err := ParseUUID(s)
		if err != nil {
			return Signal{}, fmt.Errorf("invalid $uuid: %w", err)
		}
		return Done(u), nil
	}}
}

// ObjectIDCodec serializes ObjectID as {"$objectId": "..."} and parses
// it back.
func ObjectIDCodec() Codec {
	return markerCodec{name: "objectId", fn: func(_ Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			id, ok := v.(ObjectID)
			if !ok {
				return Nevermind(), nil
			}
			return Done(map[string]any{"$objectId": id.String()}), nil
		}
		raw, ok := singleKeyMap(v, "$objectId")
		if !ok {
			return Nevermind(), nil
		}
		s, ok := raw.(string)
		if !ok {
			return Nevermind(), nil
		}
		id, err := ParseObjectID(s)
		if err != nil {
			return Signal{}, fmt.Errorf("invalid $objectId: %w", err)
		}
		return Done(id), nil
	}}
}

// DateCodec serializes Date as {"$date": <epoch ms>} and parses it
// back.
func DateCodec() Codec {
	return markerCodec{name: "date", fn: func(_ Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			d, ok := v.(Date)
			if !ok {
				return Nevermind(), nil
			}
			return Done(map[string]any{"$date": d.EpochMillis()}), nil
		}
		raw, ok := singleKeyMap(v, "$date")
		if !ok {
			return Nevermind(), nil
		}
		ms, err := asInt64(raw)
		if err != nil {
			return Signal{}, fmt.Errorf("invalid $date: %w", err)
		}
		return Done(DateFromEpochMillis(ms)), nil
	}}
}

// BinaryCodec serializes Binary as {"$binary": <base64>} and parses
// it back, deferring to VectorCodec when the projection schema names
// this column a vector.
func BinaryCodec() Codec {
	return markerCodec{name: "binary", fn: func(ctx Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			b, ok := v.(Binary)
			if !ok {
				return Nevermind(), nil
			}
			return Done(map[string]any{"$binary": base64.StdEncoding.EncodeToString(b)}), nil
		}
		raw, ok := singleKeyMap(v, "$binary")
		if !ok {
			return Nevermind(), nil
		}
		if col, ok := ctx.ColumnAt(); ok && col.Type == ColVector {
			return Nevermind(), nil // let VectorCodec handle it
		}
		s, ok := raw.(string)
		if !ok {
			return Nevermind(), nil
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return Signal{}, fmt.Errorf("invalid $binary: %w", err)
		}
		return Done(Binary(b)), nil
	}}
}

// VectorCodec serializes a Vector as a plain JSON array (AsBinary
// false) or as {"$binary": <base64 float32-le>} (AsBinary true); it
// accepts either form on deserialize.
func VectorCodec(asBinary bool) Codec {
	return markerCodec{name: "vector", fn: func(ctx Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			vec, ok := v.(Vector)
			if !ok {
				return Nevermind(), nil
			}
			if !asBinary {
				out := make([]any, len(vec))
				for i, f := range vec {
					out[i] = float64(f)
				}
				return Done(out), nil
			}
			buf := make([]byte, 4*len(vec))
			for i, f := range vec {
				binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
			}
			return Done(map[string]any{"$binary": base64.StdEncoding.EncodeToString(buf)}), nil
		}

		col, hasCol := ctx.ColumnAt()
		if raw, ok := singleKeyMap(v, "$binary"); ok {
			if !hasCol || col.Type != ColVector {
				return Nevermind(), nil
			}
			s, ok := raw.(string)
			if !ok {
				return Nevermind(), nil
			}
			buf, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return Signal{}, fmt.Errorf("invalid vector $binary: %w", err)
			}
			vec := make(Vector, len(buf)/4)
			for i := range vec {
				vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
			}
			return Done(vec), nil
		}
		if arr, ok := v.([]any); ok && hasCol && col.Type == ColVector {
			vec := make(Vector, len(arr))
			for i, el := range arr {
				f, err := asFloat64(el)
				if err != nil {
					return Signal{}, fmt.Errorf("invalid vector element: %w", err)
				}
				vec[i] = float32(f)
			}
			return Done(vec), nil
		}
		return Nevermind(), nil
	}}
}

// NonStringKeyMapCodec serializes a Go map whose key type is not
// string as a JSON array of [key, value] pairs, per the container
// policy (spec.md 4.6).
func NonStringKeyMapCodec() Codec {
	return markerCodec{name: "nonStringKeyMap", fn: func(_ Ctx, dir Direction, v any) (Signal, error) {
		if dir != DirectionSerialize {
			return Nevermind(), nil
		}
		rv := reflect.ValueOf(v)
		if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() == reflect.String {
			return Nevermind(), nil
		}
		pairs := make([]any, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, []any{iter.Key().Interface(), iter.Value().Interface()})
		}
		return Recurse(pairs), nil
	}}
}

// SetCodec serializes Set as a JSON array; on deserialize it leaves
// plain arrays as []any, since a set is reconstituted by the caller
// from the target field's declared Go type rather than inferred from
// shape (a set and a list are wire-identical).
func SetCodec() Codec {
	return markerCodec{name: "set", fn: func(_ Ctx, dir Direction, v any) (Signal, error) {
		if dir != DirectionSerialize {
			return Nevermind(), nil
		}
		s, ok := v.(Set)
		if !ok {
			return Nevermind(), nil
		}
		return Recurse([]any(s)), nil
	}}
}

// DecimalCodec serializes Decimal as its canonical string form and
// parses schema-typed decimal columns back.
func DecimalCodec() Codec {
	return markerCodec{name: "decimal", fn: func(ctx Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			d, ok := v.(Decimal)
			if !ok {
				return Nevermind(), nil
			}
			return Done(d.String()), nil
		}
		col, ok := ctx.ColumnAt()
		if !ok || col.Type != ColDecimal {
			return Nevermind(), nil
		}
		s, err := asDecimalString(v)
		if err != nil {
			return Signal{}, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Signal{}, fmt.Errorf("invalid decimal column: %w", err)
		}
		return Done(Decimal{d}), nil
	}}
}

// BigIntCodec enforces the big-numbers policy and converts
// schema-typed varint/bigint columns, using math/big for arbitrary
// precision when Ctx.BigNumbers is enabled.
func BigIntCodec() Codec {
	return markerCodec{name: "bigint", fn: func(ctx Ctx, dir Direction, v any) (Signal, error) {
		if dir == DirectionSerialize {
			b, ok := v.(BigInt)
			if !ok {
				return Nevermind(), nil
			}
			if !ctx.BigNumbers {
				return Signal{}, ErrBigNumbersDisabled
			}
			return Done(json.Number(b.String())), nil
		}
		col, ok := ctx.ColumnAt()
		if !ok || (col.Type != ColVarint && col.Type != ColBigint) {
			return Nevermind(), nil
		}
		s, err := asDecimalString(v)
		if err != nil {
			return Signal{}, err
		}
		if !ctx.BigNumbers {
			f, err := asFloat64(v)
			if err != nil {
				return Signal{}, err
			}
			return Done(f), nil
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return Signal{}, fmt.Errorf("serdes: invalid bigint column value %q", s)
		}
		return Done(BigInt{i}), nil
	}}
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("serdes: expected numeric, got %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("serdes: expected numeric, got %T", v)
	}
}

func asDecimalString(v any) (string, error) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), nil
	case string:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n).String(), nil
	default:
		return "", fmt.Errorf("serdes: expected numeric string, got %T", v)
	}
}

