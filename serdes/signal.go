package serdes

// SignalKind discriminates the outcomes a codec can return at each
// traversal node (spec.md 4.6).
type SignalKind int

const (
	// SignalContinue tries the next matching codec at this node.
	SignalContinue SignalKind = iota
	// SignalNevermind means "I don't apply"; try the next codec,
	// identical wire behavior to Continue but distinguishes "didn't
	// match" from "matched but deferred" for codec authors.
	SignalNevermind
	// SignalReplace replaces the value at this node and recurses into
	// the replacement.
	SignalReplace
	// SignalRecurse accepts (optionally replacing) and recurses; this
	// is the default outcome for container values.
	SignalRecurse
	// SignalDone accepts as final and does not recurse.
	SignalDone
)

// Signal is the result of invoking one codec at one traversal node.
type Signal struct {
	Kind  SignalKind
	Value any
	// After, if set, is called once this node's subtree finishes
	// processing (the `mapAfter` hook of spec.md 4.6).
	After func(result any) any
}

// Continue builds a SignalContinue.
func Continue() Signal { return Signal{Kind: SignalContinue} }

// Nevermind builds a SignalNevermind.
func Nevermind() Signal { return Signal{Kind: SignalNevermind} }

// Replace builds a SignalReplace carrying the new value.
func Replace(v any) Signal { return Signal{Kind: SignalReplace, Value: v} }

// Recurse builds a SignalRecurse, optionally substituting v for the
// node's current value before descending.
func Recurse(v any) Signal { return Signal{Kind: SignalRecurse, Value: v} }

// Done builds a SignalDone carrying the final value.
func Done(v any) Signal { return Signal{Kind: SignalDone, Value: v} }

// passthrough reports whether the codec declined to act at this node.
func (s Signal) passthrough() bool {
	return s.Kind == SignalContinue || s.Kind == SignalNevermind
}
