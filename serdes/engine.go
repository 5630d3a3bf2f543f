package serdes

// Engine is the top-level ser/des entry point owned by a Db/Collection/
// Table: a registry of codecs plus the defaults (target-specific
// behavior, big-number policy) every call is rooted with.
type Engine struct {
	registry *Registry
}

// NewEngine builds an engine carrying the given registry. Callers
// typically start from DefaultRegistry() and Clone/Register
// additional codecs on top for per-call overrides.
func NewEngine(r *Registry) *Engine {
	return &Engine{registry: r}
}

// Serialize walks v (a user-facing request value) and returns the
// wire-ready representation for the given target.
func (e *Engine) Serialize(target Target, v any) (any, error) {
	ctx := Ctx{Target: target}
	t := newTraversal(e.registry)
	return t.visit(ctx, DirectionSerialize, v)
}

// Deserialize walks v (a decoded JSON value, i.e. the output of
// encoding/json.Unmarshal into map[string]any/[]any/scalars) and
// returns the user-facing value, consulting schema for column-typed
// fields when set (table row deserialization).
func (e *Engine) Deserialize(target Target, v any, schema ProjectionSchema, bigNumbers bool) (any, error) {
	ctx := Ctx{Target: target, ProjectionSchema: schema, BigNumbers: bigNumbers}
	t := newTraversal(e.registry)
	return t.visit(ctx, DirectionDeserialize, v)
}
