package cursor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages []Page
	calls int
}

func (f *fakeFetcher) FetchPage(_ context.Context, _ FindSpec, _ *string) (Page, error) {
	p := f.pages[f.calls]
	f.calls++
	return p, nil
}

func identity(doc map[string]any) (map[string]any, error) { return doc, nil }

func TestBuilderFailsOnStartedCursor(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: []map[string]any{{"a": 1}}}}}
	c := New[map[string]any](f, identity)

	_, ok, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.Filter(map[string]any{"x": 1})
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
}

func TestProjectFailsAfterMap(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: nil}}}
	c := New[map[string]any](f, identity)

	mapped, err := MapCursor(c, func(d map[string]any) (int, error) { return len(d), nil })
	require.NoError(t, err)

	_, err = mapped.Project(map[string]any{"a": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cursor.map")
}

func TestHasNextDoesNotStartIdleCursor(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: []map[string]any{{"a": 1}}}}}
	c := New[map[string]any](f, identity)

	has, err := c.HasNext(context.Background())
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 0, f.calls)
	assert.Equal(t, StateIdle, c.State())
}

func TestNextDrainsBufferThenFetchesNextPage(t *testing.T) {
	page1 := "state1"
	f := &fakeFetcher{pages: []Page{
		{Documents: []map[string]any{{"a": 1}, {"a": 2}}, NextPageState: &page1},
		{Documents: []map[string]any{{"a": 3}}, NextPageState: nil},
	}}
	c := New[map[string]any](f, identity)

	var got []map[string]any
	for {
		doc, ok, err := c.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, doc)
	}

	require.Len(t, got, 3)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, StateClosed, c.State())
	assert.Equal(t, 3, c.Consumed())
}

func TestNextFailsOnClosedCursor(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: nil}}}
	c := New[map[string]any](f, identity)
	c.Close()

	_, _, err := c.Next(context.Background())
	require.Error(t, err)
}

func TestToArrayDrainsFully(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: []map[string]any{{"a": 1}, {"a": 2}}}}}
	c := New[map[string]any](f, identity)

	out, err := c.ToArray(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, StateClosed, c.State())
}

func TestMapCursorComposesLeftToRight(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: []map[string]any{{"n": 3}}}}}
	c := New[map[string]any](f, identity)

	toInt, err := MapCursor(c, func(d map[string]any) (int, error) { return d["n"].(int), nil })
	require.NoError(t, err)
	doubled, err := MapCursor(toInt, func(n int) (int, error) { return n * 2, nil })
	require.NoError(t, err)

	v, ok, err := doubled.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6, v)
}

func TestBuilderChainReturnsIndependentCursors(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: nil}}}
	base := New[map[string]any](f, identity)

	withFilter, err := base.Filter(map[string]any{"a": 1})
	require.NoError(t, err)
	withLimit, err := withFilter.Limit(10)
	require.NoError(t, err)

	assert.Nil(t, base.spec.Filter)
	assert.Equal(t, 0, base.spec.Limit)
	assert.Equal(t, map[string]any{"a": 1}, withFilter.spec.Filter)
	assert.Equal(t, 0, withFilter.spec.Limit)
	assert.Equal(t, 10, withLimit.spec.Limit)
	assert.Equal(t, map[string]any{"a": 1}, withLimit.spec.Filter)
}

func TestRerankBuildersSetFields(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: nil}}}
	c := New[map[string]any](f, identity)

	c2, err := c.HybridLimits(map[string]int{"$vector": 60, "$lexical": 60})
	require.NoError(t, err)
	c3, err := c2.RerankOn("content")
	require.NoError(t, err)
	c4, err := c3.RerankQuery("what is rag")
	require.NoError(t, err)
	c5, err := c4.IncludeScores(true)
	require.NoError(t, err)

	assert.Equal(t, 60, c5.spec.HybridLimits["$vector"])
	assert.Equal(t, "content", c5.spec.RerankOn)
	assert.Equal(t, "what is rag", c5.spec.RerankQuery)
	assert.True(t, c5.spec.IncludeScores)
}

func TestRerankedResultWrapsDocumentAndScores(t *testing.T) {
	r := RerankedResult[int]{Document: 42, Scores: map[string]float64{"$vector": 0.9}}
	assert.Equal(t, 42, r.Document)
	assert.Equal(t, 0.9, r.Scores["$vector"])
}

func TestConsumedAndBufferedAccounting(t *testing.T) {
	f := &fakeFetcher{pages: []Page{{Documents: []map[string]any{{"a": 1}, {"a": 2}}}}}
	c := New[map[string]any](f, identity)

	_, _, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Consumed())
	assert.Equal(t, 1, c.Buffered())
}
