package cursor

// MapCursor composes f onto c's existing mapping and returns a new
// idle cursor over the transformed element type U. Go methods cannot
// introduce a new type parameter, so this is a free function rather
// than a Cursor[T] method; repeated calls compose left-to-right since
// each wraps the previous mapFn (spec.md 4.9: "composed left-to-right;
// each call map(f) composes with any existing mapping").
func MapCursor[T, U any](c *Cursor[T], f func(T) (U, error)) (*Cursor[U], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	prevMap := c.mapFn
	out := &Cursor[U]{
		fetcher: c.fetcher,
		spec:    c.spec,
		mapUsed: true,
		mapFn: func(doc map[string]any) (U, error) {
			var zero U
			v, err := prevMap(doc)
			if err != nil {
				return zero, err
			}
			return f(v)
		},
	}
	return out, nil
}
