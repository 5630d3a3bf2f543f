package serdes

import "reflect"

// Registry is an ordered list of codecs consulted at every traversal
// node, most-specific first. Codecs registered later via Register run
// after earlier ones that declined (Continue/Nevermind) at the same
// node.
type Registry struct {
	codecs []Codec
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a codec to the end of the list.
func (r *Registry) Register(c Codec) *Registry {
	r.codecs = append(r.codecs, c)
	return r
}

// Clone returns a shallow copy whose codec list can be extended
// independently (used to build a per-call registry layered on top of
// client-wide defaults, per spec.md's hierarchical ser/des options).
func (r *Registry) Clone() *Registry {
	out := &Registry{codecs: make([]Codec, len(r.codecs))}
	copy(out.codecs, r.codecs)
	return out
}

// candidates returns the codecs whose path/type selectors match this
// node, in registration order.
func (r *Registry) candidates(ctx Ctx, v any) []Codec {
	t := typeOf(v)
	out := make([]Codec, 0, len(r.codecs))
	for _, c := range r.codecs {
		if !c.MatchesPath(ctx.Path) {
			continue
		}
		if !c.MatchesType(t) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// traversal holds the per-call mutable state (cycle-detection set)
// that must not leak across unrelated Serialize/Deserialize calls,
// keeping Registry itself reusable and stateless between calls.
type traversal struct {
	reg  *Registry
	seen map[uintptr]bool
}

func newTraversal(r *Registry) *traversal {
	return &traversal{reg: r, seen: make(map[uintptr]bool)}
}

// visit runs one traversal node: it tries each matching codec in
// order until one returns other than Continue/Nevermind. A codec
// returning SignalReplace or SignalRecurse, or the absence of any
// matching codec, causes structural descent into maps/slices; a
// SignalDone value is returned unchanged.
func (t *traversal) visit(ctx Ctx, dir Direction, v any) (any, error) {
	after := make([]func(any) any, 0, 1)
	for _, c := range t.reg.candidates(ctx, v) {
		sig, err := c.Apply(ctx, dir, v)
		if err != nil {
			return nil, &SerializationError{Path: ctx.Path, Err: err}
		}
		if sig.passthrough() {
			continue
		}
		if sig.After != nil {
			after = append(after, sig.After)
		}
		switch sig.Kind {
		case SignalDone:
			return runAfter(after, sig.Value), nil
		case SignalReplace, SignalRecurse:
			descended, err := t.descend(ctx, dir, sig.Value)
			if err != nil {
				return nil, err
			}
			return runAfter(after, descended), nil
		}
	}
	descended, err := t.descend(ctx, dir, v)
	if err != nil {
		return nil, err
	}
	return runAfter(after, descended), nil
}

func runAfter(hooks []func(any) any, v any) any {
	for _, h := range hooks {
		v = h(v)
	}
	return v
}

// descend recurses into map and slice structures; scalars and any
// other value pass through unchanged. Maps and slices are tracked by
// address while on the current path; re-entering one still being
// visited is a cyclic structure.
func (t *traversal) descend(ctx Ctx, dir Direction, v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch {
	case v == nil:
		return nil, nil
	case rv.Kind() == reflect.Map:
		ptr := rv.Pointer()
		if t.seen[ptr] {
			return nil, &CyclicStructureError{Path: ctx.Path}
		}
		t.seen[ptr] = true
		defer delete(t.seen, ptr)

		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().Interface()
			keyStr, ok := key.(string)
			if !ok {
				keyStr = reflect.ValueOf(key).String()
			}
			child := ctx.Child(StringSegment(keyStr))
			res, err := t.visit(child, dir, iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[keyStr] = res
		}
		return out, nil
	case rv.Kind() == reflect.Slice:
		ptr := rv.Pointer()
		if rv.Len() > 0 && t.seen[ptr] {
			return nil, &CyclicStructureError{Path: ctx.Path}
		}
		if rv.Len() > 0 {
			t.seen[ptr] = true
			defer delete(t.seen, ptr)
		}

		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			child := ctx.Child(IndexSegment(i))
			res, err := t.visit(child, dir, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	case rv.Kind() == reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			child := ctx.Child(IndexSegment(i))
			res, err := t.visit(child, dir, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	default:
		return v, nil
	}
}
