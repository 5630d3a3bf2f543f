package serdes

import "reflect"

// Direction distinguishes encode (user value -> wire JSON) from decode
// (wire JSON -> user value), since most codecs only apply to one
// direction.
type Direction int

const (
	DirectionSerialize Direction = iota
	DirectionDeserialize
)

// Codec is one entry in a Registry: a predicate (the selector methods
// below) plus the transform applied when it matches. A codec never
// mutates its input; it returns a Signal describing what the engine
// should do next (signal.go).
type Codec interface {
	// Name identifies the codec for diagnostics and name-based
	// selection (NameSelector).
	Name() string
	// MatchesPath is consulted when the codec was registered with a
	// path selector; path is the full dotted path from the traversal
	// root.
	MatchesPath(path Path) bool
	// MatchesType is consulted when the codec was registered with a
	// type selector; it sees the Go reflect.Type of the candidate
	// value (nil input yields the zero Type).
	MatchesType(t reflect.Type) bool
	// Apply runs the transform. v is the current value at this node
	// (user value when serializing, decoded JSON value when
	// deserializing).
	Apply(ctx Ctx, dir Direction, v any) (Signal, error)
}

// Selector narrows which nodes a codec is tried at. A codec is tried
// only if ALL of its non-zero selector fields match; a zero Selector
// matches every node.
type Selector struct {
	// PathEquals, when non-nil, requires the traversal path's string
	// form to equal this exact dotted path.
	PathEquals *string
	// PathSuffix, when non-nil, requires the path to end with this
	// segment name (used for recursive field-name codecs like
	// key-transform).
	PathSuffix *string
	// ForType, when non-nil, requires the candidate value's dynamic
	// type to equal this reflect.Type.
	ForType reflect.Type
	// ForKind, when non-zero, requires the candidate value's
	// reflect.Kind to equal this kind (coarser than ForType, used for
	// e.g. "any map" or "any slice" codecs).
	ForKind reflect.Kind
}

// FuncCodec adapts a selector and a plain function into a Codec
// rather than requiring one type declaration per codec.
type FuncCodec struct {
	CodecName string
	Sel       Selector
	Fn        func(ctx Ctx, dir Direction, v any) (Signal, error)
}

func (f FuncCodec) Name() string { return f.CodecName }

func (f FuncCodec) MatchesPath(path Path) bool {
	if f.Sel.PathEquals != nil && path.String() != *f.Sel.PathEquals {
		return false
	}
	if f.Sel.PathSuffix != nil {
		if len(path) == 0 || path[len(path)-1].String() != *f.Sel.PathSuffix {
			return false
		}
	}
	return true
}

func (f FuncCodec) MatchesType(t reflect.Type) bool {
	if f.Sel.ForType != nil && t != f.Sel.ForType {
		return false
	}
	if f.Sel.ForKind != reflect.Invalid {
		if t == nil || t.Kind() != f.Sel.ForKind {
			return false
		}
	}
	return true
}

func (f FuncCodec) Apply(ctx Ctx, dir Direction, v any) (Signal, error) {
	return f.Fn(ctx, dir, v)
}

// NewCodec builds a FuncCodec, for user-registered codecs; the builtin
// codecs in builtin_codecs.go are markerCodec values instead.
func NewCodec(name string, sel Selector, fn func(ctx Ctx, dir Direction, v any) (Signal, error)) Codec {
	return FuncCodec{CodecName: name, Sel: sel, Fn: fn}
}

func typeOf(v any) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}
