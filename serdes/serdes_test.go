package serdes

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	escaped := EscapeFieldNames("shows", "tom&jerry", "episodes", "3", "views")
	segments, err := UnescapeFieldPath(escaped)
	require.NoError(t, err)
	assert.Equal(t, []string{"shows", "tom&jerry", "episodes", "3", "views"}, segments)
}

func TestUnescapeEmptyPath(t *testing.T) {
	segments, err := UnescapeFieldPath("")
	require.NoError(t, err)
	assert.Nil(t, segments)
}

func TestUnescapeRejectsStrayAmpersand(t *testing.T) {
	_, err := UnescapeFieldPath("a&b")
	assert.ErrorIs(t, err, ErrStrayAmpersand)
}

func TestUnescapeRejectsEmptyBoundarySegment(t *testing.T) {
	_, err := UnescapeFieldPath(".a")
	assert.ErrorIs(t, err, ErrEmptyBoundarySegment)

	_, err = UnescapeFieldPath("a.")
	assert.ErrorIs(t, err, ErrEmptyBoundarySegment)
}

func TestPathPushDoesNotMutateReceiver(t *testing.T) {
	base := Path{StringSegment("a")}
	child := base.Push(StringSegment("b"))
	assert.Equal(t, "a", base.String())
	assert.Equal(t, "a.b", child.String())
}

func TestCtxChildDoesNotMutateReceiver(t *testing.T) {
	base := Ctx{Path: Path{StringSegment("root")}}
	child := base.Child(StringSegment("leaf"))
	assert.Equal(t, "root", base.Path.String())
	assert.Equal(t, "root.leaf", child.Path.String())
}

func newEngine() *Engine {
	return NewEngine(DefaultRegistry(false))
}

func TestUUIDRoundTrip(t *testing.T) {
	e := newEngine()
	u := NewUUID(uuid.New())

	wire, err := e.Serialize(TargetRecord, map[string]any{"id": u})
	require.NoError(t, err)

	back, err := e.Deserialize(TargetRecord, wire, nil, false)
	require.NoError(t, err)

	m := back.(map[string]any)
	assert.Equal(t, u, m["id"])
}

func TestObjectIDRoundTrip(t *testing.T) {
	e := newEngine()
	id := NewObjectID()

	wire, err := e.Serialize(TargetRecord, map[string]any{"_id": id})
	require.NoError(t, err)
	m := wire.(map[string]any)
	assert.Equal(t, map[string]any{"$objectId": id.String()}, m["_id"])

	back, err := e.Deserialize(TargetRecord, wire, nil, false)
	require.NoError(t, err)
	assert.Equal(t, id, back.(map[string]any)["_id"])
}

func TestDateRoundTrip(t *testing.T) {
	e := newEngine()
	d := DateFromEpochMillis(1700000000000)

	wire, err := e.Serialize(TargetRecord, map[string]any{"at": d})
	require.NoError(t, err)

	back, err := e.Deserialize(TargetRecord, wire, nil, false)
	require.NoError(t, err)
	assert.Equal(t, d.EpochMillis(), back.(map[string]any)["at"].(Date).EpochMillis())
}

func TestVectorRoundTripAsArray(t *testing.T) {
	e := NewEngine(DefaultRegistry(false))
	vec := Vector{0.1, 0.2, 0.3}

	wire, err := e.Serialize(TargetRecord, map[string]any{"$vector": vec})
	require.NoError(t, err)
	arr, ok := wire.(map[string]any)["$vector"].([]any)
	require.True(t, ok)
	assert.Len(t, arr, 3)
}

func TestVectorRoundTripAsBinaryWithSchema(t *testing.T) {
	e := NewEngine(DefaultRegistry(true))
	vec := Vector{1, 2, 3}

	wire, err := e.Serialize(TargetRecord, map[string]any{"embedding": vec})
	require.NoError(t, err)

	schema := ProjectionSchema{"embedding": {Type: ColVector, Dimension: 3}}
	back, err := e.Deserialize(TargetRecord, wire, schema, false)
	require.NoError(t, err)

	got := back.(map[string]any)["embedding"].(Vector)
	assert.Equal(t, vec, got)
}

func TestNonStringKeyMapSerializesAsPairs(t *testing.T) {
	e := newEngine()
	m := map[int]string{1: "a", 2: "b"}

	wire, err := e.Serialize(TargetRecord, map[string]any{"m": m})
	require.NoError(t, err)

	pairs, ok := wire.(map[string]any)["m"].([]any)
	require.True(t, ok)
	assert.Len(t, pairs, 2)
}

func TestBigIntRejectedWhenBigNumbersDisabled(t *testing.T) {
	e := newEngine()
	n := new(big.Int)
	n.SetString("123456789012345678901234567890", 10)
	_, err := e.Serialize(TargetRecord, map[string]any{"n": BigInt{n}})
	require.Error(t, err)
}

func TestCyclicMapDetected(t *testing.T) {
	e := newEngine()
	m := map[string]any{}
	m["self"] = m

	_, err := e.Serialize(TargetRecord, m)
	require.Error(t, err)
	var cycleErr *CyclicStructureError
	assert.ErrorAs(t, err, &cycleErr)
}
