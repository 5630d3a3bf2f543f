package cursor

// RerankedResult pairs a mapped document with its per-lexicon scores,
// the find-and-rerank variant's element shape (spec.md 4.9).
type RerankedResult[T any] struct {
	Document T
	Scores   map[string]float64
}

// HybridLimits returns a new idle cursor with per-lexicon result
// limits for hybrid search (e.g. {"$vector": 60, "$lexical": 60}).
func (c *Cursor[T]) HybridLimits(limits map[string]int) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.HybridLimits = limits
	return cp, nil
}

// RerankOn returns a new idle cursor naming the field reranking scores
// against.
func (c *Cursor[T]) RerankOn(field string) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.RerankOn = field
	return cp, nil
}

// RerankQuery returns a new idle cursor with the reranking query text.
func (c *Cursor[T]) RerankQuery(query string) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.RerankQuery = query
	return cp, nil
}

// IncludeScores returns a new idle cursor that requests per-document
// rerank scores in the response.
func (c *Cursor[T]) IncludeScores(include bool) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.IncludeScores = include
	return cp, nil
}
