package cursor

import (
	"context"
	"sync"
)

// Page is one fetched page of raw documents.
type Page struct {
	Documents     []map[string]any
	NextPageState *string
	SortVector    []float32
}

// PageFetcher runs one find command against the Data API for the
// given filter/options and page state, returning the next page. It is
// supplied by the owning Collection/Table (internal/dataapi C7 sits
// behind it); the cursor package itself never talks to the network.
type PageFetcher interface {
	FetchPage(ctx context.Context, spec FindSpec, pageState *string) (Page, error)
}

// FindSpec is the immutable (filter, options) half of a cursor,
// snapshotted at execution time.
type FindSpec struct {
	Filter            map[string]any
	Sort              map[string]any
	Projection        map[string]any
	Limit             int
	Skip              int
	IncludeSimilarity bool
	IncludeSortVector bool

	// Find-and-rerank extensions (spec.md 4.9); zero values are
	// inert for a plain find.
	HybridLimits  map[string]int
	RerankOn      string
	RerankQuery   string
	IncludeScores bool
}

// Cursor is a lazily-executed, immutable-query find cursor over
// documents mapped to T (identity mapping by default).
type Cursor[T any] struct {
	mu      sync.Mutex
	fetcher PageFetcher
	spec    FindSpec
	mapFn   func(map[string]any) (T, error)
	mapUsed bool

	state         State
	buffer        []T
	consumedCount int
	nextPageState *string
	started       bool
	sortVector    []float32
}

// New builds an idle cursor over fetcher that maps each raw document
// through mapFn (use MapCursor to compose a further mapping).
func New[T any](fetcher PageFetcher, mapFn func(map[string]any) (T, error)) *Cursor[T] {
	return &Cursor[T]{fetcher: fetcher, mapFn: mapFn}
}

// clone builds a fresh idle cursor carrying c's query/mapping fields.
// It is only ever called once requireIdle has passed, so there is
// never buffered state to carry over; it constructs fields explicitly
// rather than copying *c by value so each cursor gets its own
// zero-valued mutex (go vet's copylocks check forbids copying a
// sync.Mutex-bearing struct by value).
func (c *Cursor[T]) clone() *Cursor[T] {
	return &Cursor[T]{
		fetcher: c.fetcher,
		spec:    c.spec,
		mapFn:   c.mapFn,
		mapUsed: c.mapUsed,
	}
}

func (c *Cursor[T]) requireIdle() error {
	if c.state != StateIdle {
		return newError("on a running/closed cursor")
	}
	return nil
}

// Filter returns a new idle cursor with the given filter.
func (c *Cursor[T]) Filter(filter map[string]any) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.Filter = filter
	return cp, nil
}

// Sort returns a new idle cursor with the given sort document.
func (c *Cursor[T]) Sort(sort map[string]any) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.Sort = sort
	return cp, nil
}

// Limit returns a new idle cursor bounded to n documents.
func (c *Cursor[T]) Limit(n int) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.Limit = n
	return cp, nil
}

// Skip returns a new idle cursor skipping the first n documents.
func (c *Cursor[T]) Skip(n int) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.Skip = n
	return cp, nil
}

// Project returns a new idle cursor with the given projection. It
// fails if a mapping has already been applied (spec.md 4.9: "project
// after map must fail").
func (c *Cursor[T]) Project(projection map[string]any) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	if c.mapUsed {
		return nil, newError("after already using cursor.map")
	}
	cp := c.clone()
	cp.spec.Projection = projection
	return cp, nil
}

// IncludeSimilarity returns a new idle cursor that requests vector
// similarity scores in the response.
func (c *Cursor[T]) IncludeSimilarity(include bool) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.IncludeSimilarity = include
	return cp, nil
}

// IncludeSortVector returns a new idle cursor that requests the
// resolved sort vector in the response status.
func (c *Cursor[T]) IncludeSortVector(include bool) (*Cursor[T], error) {
	if err := c.requireIdle(); err != nil {
		return nil, err
	}
	cp := c.clone()
	cp.spec.IncludeSortVector = include
	return cp, nil
}

// Consumed returns the number of documents returned to the user so
// far via Next/ToArray.
func (c *Cursor[T]) Consumed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consumedCount
}

// Buffered returns the current in-memory buffer size.
func (c *Cursor[T]) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}

// State returns the cursor's current execution state.
func (c *Cursor[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasNext reports whether another document is available. On an idle
// or closed cursor it returns false without fetching (it never starts
// an idle cursor); on a started cursor with an empty buffer and a
// pending page state it fetches the next page to look ahead.
func (c *Cursor[T]) HasNext(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return false, nil
	}
	if c.state == StateClosed {
		c.mu.Unlock()
		return false, nil
	}
	needFetch := len(c.buffer) == 0 && c.nextPageState != nil
	c.mu.Unlock()

	if needFetch {
		if err := c.fetchNext(ctx); err != nil {
			return false, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer) > 0, nil
}

// Next advances the cursor, starting it on first use, and returns the
// next mapped document. It returns (zero, false, nil) on exhaustion.
func (c *Cursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return zero, false, newError("closed")
	}
	if c.state == StateIdle {
		c.state = StateStarted
		c.mu.Unlock()
		if err := c.fetchNext(ctx); err != nil {
			return zero, false, err
		}
	} else {
		c.mu.Unlock()
	}

	c.mu.Lock()
	if len(c.buffer) == 0 && c.nextPageState != nil {
		c.mu.Unlock()
		if err := c.fetchNext(ctx); err != nil {
			return zero, false, err
		}
		c.mu.Lock()
	}
	if len(c.buffer) == 0 {
		c.state = StateClosed
		c.mu.Unlock()
		return zero, false, nil
	}
	doc := c.buffer[0]
	c.buffer = c.buffer[1:]
	c.consumedCount++
	c.mu.Unlock()
	return doc, true, nil
}

// fetchNext fetches one page and appends its mapped documents to the
// buffer, closing the cursor if the buffer is then empty and the
// server signals no further pages.
func (c *Cursor[T]) fetchNext(ctx context.Context) error {
	c.mu.Lock()
	spec := c.spec
	pageState := c.nextPageState
	c.mu.Unlock()

	page, err := c.fetcher.FetchPage(ctx, spec, pageState)
	if err != nil {
		return err
	}

	mapped := make([]T, 0, len(page.Documents))
	for _, doc := range page.Documents {
		v, err := c.mapFn(doc)
		if err != nil {
			return err
		}
		mapped = append(mapped, v)
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, mapped...)
	c.nextPageState = page.NextPageState
	if len(page.SortVector) > 0 {
		c.sortVector = page.SortVector
	}
	if len(c.buffer) == 0 && c.nextPageState == nil {
		c.state = StateClosed
	}
	c.mu.Unlock()
	return nil
}

// ToArray drains the cursor fully into a slice.
func (c *Cursor[T]) ToArray(ctx context.Context) ([]T, error) {
	var out []T
	for {
		v, ok, err := c.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// Close marks the cursor closed; subsequent Next calls fail with
// CursorError("closed").
func (c *Cursor[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateClosed
}

// SortVector returns the server-resolved sort vector, if
// IncludeSortVector was requested and a page has been fetched.
func (c *Cursor[T]) SortVector() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortVector
}
