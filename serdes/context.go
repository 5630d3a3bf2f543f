package serdes

// Target names which part of a command a value being (de)serialized
// belongs to. It is carried in Ctx for codecs to consult; none of the
// builtin codecs read it.
type Target string

// The ser/des targets spec.md 4.6 names.
const (
	TargetRecord      Target = "Record"
	TargetFilter      Target = "Filter"
	TargetSort        Target = "Sort"
	TargetProjection  Target = "Projection"
	TargetInsertedID  Target = "InsertedId"
)

// ColumnType is the server-reported type descriptor for a table
// column, driving deserialize-side type codecs.
type ColumnType string

// Recognized column types.
const (
	ColUUID      ColumnType = "uuid"
	ColTimestamp ColumnType = "timestamp"
	ColMap       ColumnType = "map"
	ColList      ColumnType = "list"
	ColSet       ColumnType = "set"
	ColVector    ColumnType = "vector"
	ColDecimal   ColumnType = "decimal"
	ColBlob      ColumnType = "blob"
	ColInet      ColumnType = "inet"
	ColDuration  ColumnType = "duration"
	ColVarint    ColumnType = "varint"
	ColBigint    ColumnType = "bigint"
	ColText      ColumnType = "text"
)

// ColumnDescriptor is one entry of the server-returned projection
// schema: a column's wire type, plus key/value types for
// map/list/set/vector columns.
type ColumnDescriptor struct {
	Type      ColumnType `json:"type"`
	KeyType   ColumnType `json:"keyType,omitempty"`
	ValueType ColumnType `json:"valueType,omitempty"`
	Dimension int        `json:"dimension,omitempty"`
}

// ProjectionSchema maps a top-level column name to its descriptor, as
// returned in an inbound response's status.projectionSchema.
type ProjectionSchema map[string]ColumnDescriptor

// Ctx carries the traversal state every codec sees: the path stack, the
// command-part target, and (deserialize only) the server projection
// schema.
type Ctx struct {
	Path             Path
	Target           Target
	ProjectionSchema ProjectionSchema
	BigNumbers       bool
}

// Child returns a new Ctx with s pushed onto Path, leaving the
// receiver untouched (spec.md Testable Property 6: path on return ==
// path on entry at every call site holding a Ctx by value).
func (c Ctx) Child(s Segment) Ctx {
	c.Path = c.Path.Push(s)
	return c
}

// ColumnAt resolves the descriptor for the top-level column named by
// the first path segment, if the schema has one.
func (c Ctx) ColumnAt() (ColumnDescriptor, bool) {
	if len(c.Path) == 0 || c.ProjectionSchema == nil {
		return ColumnDescriptor{}, false
	}
	d, ok := c.ProjectionSchema[c.Path[0].String()]
	return d, ok
}
