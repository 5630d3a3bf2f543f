package serdes

// DefaultRegistry builds the registry every Client starts from: the
// builtin $-marker codecs plus the container policy codecs, in the
// order the traversal should try them (most specific markers before
// the structural map/set codecs, since a map with a recognized
// marker key should never be treated as a plain document).
func DefaultRegistry(vectorAsBinary bool) *Registry {
	return NewRegistry().
		Register(UUIDCodec()).
		Register(ObjectIDCodec()).
		Register(DateCodec()).
		Register(VectorCodec(vectorAsBinary)).
		Register(BinaryCodec()).
		Register(DecimalCodec()).
		Register(BigIntCodec()).
		Register(SetCodec()).
		Register(NonStringKeyMapCodec())
}
