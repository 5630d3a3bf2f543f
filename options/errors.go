package options

import "fmt"

// InvalidOptionsError is raised by a parse/validate step when a
// configuration layer carries an unknown field or a value that fails
// its structural constraint. It never swallows silently.
type InvalidOptionsError struct {
	Path   string // dotted field path, e.g. "timeoutDefaults.requestTimeoutMs"
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid options at %q: %s", e.Path, e.Reason)
}

// NewInvalidOptionsError builds an InvalidOptionsError.
func NewInvalidOptionsError(path, reason string) *InvalidOptionsError {
	return &InvalidOptionsError{Path: path, Reason: reason}
}

// UnknownEnumError reports an enumeration value outside its closed set.
func UnknownEnumError(path, value string, allowed []string) *InvalidOptionsError {
	return NewInvalidOptionsError(path, fmt.Sprintf("unrecognized value %q, expected one of %v", value, allowed))
}
