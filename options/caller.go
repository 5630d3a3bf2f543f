package options

import (
	"strconv"
	"strings"
)

// CallerIdentity is one link in the caller chain used to build the
// User-Agent header: e.g. {Name: "my-app", Version: "1.2.3"}.
type CallerIdentity struct {
	Name    string
	Version string // optional
}

// Caller is an ordered, non-empty sequence of CallerIdentity, most
// important first.
type Caller []CallerIdentity

// ConcatCaller preserves order: parent chain first, child appended.
// This is the caller concatenation rule from spec.md 4.1.
func ConcatCaller(parent, child Caller) Caller {
	if len(parent) == 0 {
		return child
	}
	if len(child) == 0 {
		return parent
	}
	out := make(Caller, 0, len(parent)+len(child))
	out = append(out, parent...)
	out = append(out, child...)
	return out
}

// UserAgentFragment renders the caller chain as "<name>/<version> ...".
func (c Caller) UserAgentFragment() string {
	parts := make([]string, 0, len(c))
	for _, id := range c {
		if id.Version == "" {
			parts = append(parts, id.Name)
			continue
		}
		parts = append(parts, id.Name+"/"+id.Version)
	}
	return strings.Join(parts, " ")
}

// Validate enforces the named-link invariant: every entry must have a
// non-empty name. An empty (unset) chain passes.
func (c Caller) Validate(path string) error {
	for i, id := range c {
		if id.Name == "" {
			return NewInvalidOptionsError(path, "caller entry at index "+strconv.Itoa(i)+" has an empty name")
		}
	}
	return nil
}
