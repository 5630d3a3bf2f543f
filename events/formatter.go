package events

import "fmt"

// Formatter renders an Event to a human-readable line for
// stdout/stderr routing.
type Formatter func(e *Event) string

// DefaultFormatter produces "<ts> [<Name>]: (<keyspace>.<target>) <body>".
func DefaultFormatter(e *Event) string {
	body := bodyFor(e)
	target := string(e.Target)
	return fmt.Sprintf("%s [%s]: (%s.%s) %s",
		e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), e.Name, e.Keyspace, target, body)
}

func bodyFor(e *Event) string {
	switch e.Kind {
	case "commandFailed", "adminCommandFailed":
		if e.Err != nil {
			return e.Err.Error()
		}
		return "failed"
	case "commandWarnings", "adminCommandWarnings":
		return fmt.Sprintf("%d warning(s)", len(e.Warnings))
	case "adminCommandPolling":
		return fmt.Sprintf("polling, elapsed=%s interval=%s", e.Elapsed, e.Interval)
	case "commandSucceeded", "adminCommandSucceeded":
		return fmt.Sprintf("succeeded in %s", e.Duration)
	default:
		return "started"
	}
}

// globalFormatter is the process-wide default formatter override
// (spec.md 5: "an optional process-wide default event formatter" is
// the only permitted global mutable state besides SomeId
// registration).
var globalFormatter Formatter = DefaultFormatter

// SetGlobalFormatter overrides the process-wide default formatter.
func SetGlobalFormatter(f Formatter) {
	if f == nil {
		f = DefaultFormatter
	}
	globalFormatter = f
}

// GlobalFormatter returns the current process-wide default formatter.
func GlobalFormatter() Formatter { return globalFormatter }
