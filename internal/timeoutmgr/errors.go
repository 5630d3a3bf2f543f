package timeoutmgr

import (
	"fmt"
	"strings"

	"github.com/rsds143/astra-data-go/options"
)

// Error is TimeoutError: the deadline elapsed, and it names which
// category(ies) bound that deadline plus the millisecond value.
type Error struct {
	Categories []options.Category
	TimeoutMs  int64
}

func (e *Error) Error() string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf("timeout: command timed out after %dms (bound by %s)", e.TimeoutMs, strings.Join(names, ", "))
}

// Binds reports whether the given category is among the binding
// categories of this error.
func (e *Error) Binds(c options.Category) bool {
	for _, got := range e.Categories {
		if got == c {
			return true
		}
	}
	return false
}
