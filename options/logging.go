package options

import "regexp"

// EventKind names one of the structured events the event bus (C5)
// can emit.
type EventKind string

// The full set of event kinds.
const (
	EventCommandStarted        EventKind = "commandStarted"
	EventCommandSucceeded      EventKind = "commandSucceeded"
	EventCommandFailed         EventKind = "commandFailed"
	EventCommandWarnings       EventKind = "commandWarnings"
	EventAdminCommandStarted   EventKind = "adminCommandStarted"
	EventAdminCommandPolling   EventKind = "adminCommandPolling"
	EventAdminCommandSucceeded EventKind = "adminCommandSucceeded"
	EventAdminCommandFailed    EventKind = "adminCommandFailed"
	EventAdminCommandWarnings  EventKind = "adminCommandWarnings"
)

// AllEventKinds lists every recognized kind, used to expand the
// "all" selector.
var AllEventKinds = []EventKind{
	EventCommandStarted, EventCommandSucceeded, EventCommandFailed, EventCommandWarnings,
	EventAdminCommandStarted, EventAdminCommandPolling, EventAdminCommandSucceeded,
	EventAdminCommandFailed, EventAdminCommandWarnings,
}

// Output is one destination an event kind can be routed to.
type Output string

// Recognized outputs.
const (
	OutputEvent         Output = "event"
	OutputStdout        Output = "stdout"
	OutputStderr        Output = "stderr"
	OutputStdoutVerbose Output = "stdout:verbose"
	OutputStderrVerbose Output = "stderr:verbose"
)

// LoggingLayer is one entry in a logging configuration: a selector
// (an explicit kind, "all", a list of kinds, or a regex) and the set
// of outputs it routes matching events to.
type LoggingLayer struct {
	Events Selector
	Emits  []Output
}

// Selector picks which event kinds a LoggingLayer applies to.
type Selector struct {
	Kind  EventKind      // set when selecting a single kind
	All   bool           // set when selecting "all"
	List  []EventKind    // set when selecting an explicit list
	Regex *regexp.Regexp // set when selecting by pattern
}

// SelectKind builds a single-kind selector.
func SelectKind(k EventKind) Selector { return Selector{Kind: k} }

// SelectAll builds the "all" selector.
func SelectAll() Selector { return Selector{All: true} }

// SelectList builds an explicit-list selector.
func SelectList(ks ...EventKind) Selector { return Selector{List: ks} }

// SelectRegex builds a pattern selector matched against the event
// kind's string form.
func SelectRegex(re *regexp.Regexp) Selector { return Selector{Regex: re} }

// Matches reports whether the selector covers the given kind.
func (s Selector) Matches(k EventKind) bool {
	if s.All {
		return true
	}
	if s.Kind != "" && s.Kind == k {
		return true
	}
	for _, l := range s.List {
		if l == k {
			return true
		}
	}
	if s.Regex != nil && s.Regex.MatchString(string(k)) {
		return true
	}
	return false
}

// LoggingConfig is a sequence of LoggingLayer entries. Per-event
// output sets merge across layers (each event kind maps
// independently to a set of outputs), and it is a configuration
// error for the same event kind to be routed to both stdout and
// stderr at once.
type LoggingConfig struct {
	Layers []LoggingLayer
}

// EmptyLogging is the monoid identity: no layers, i.e. defer entirely
// to the parent's resolved routing.
func EmptyLogging() LoggingConfig { return LoggingConfig{} }

// ConcatLogging appends b's layers after a's; later layers are
// applied after earlier ones when resolving per-kind routing, so
// concatenation order matches the spec's "most specific (closest to
// the call) wins" intent once layers are flattened by Resolve.
func ConcatLogging(a, b LoggingConfig) LoggingConfig {
	out := make([]LoggingLayer, 0, len(a.Layers)+len(b.Layers))
	out = append(out, a.Layers...)
	out = append(out, b.Layers...)
	return LoggingConfig{Layers: out}
}

// Resolve flattens the layered configuration into one output set per
// event kind, applying layers in order (later layers' emits replace
// earlier ones for any kind they select), and validates that no kind
// ends up routed to both stdout and stderr.
func (c LoggingConfig) Resolve() (map[EventKind][]Output, error) {
	result := make(map[EventKind][]Output, len(AllEventKinds))
	for _, layer := range c.Layers {
		for _, kind := range AllEventKinds {
			if layer.Events.Matches(kind) {
				result[kind] = layer.Emits
			}
		}
	}
	for kind, outputs := range result {
		hasStdout, hasStderr := false, false
		for _, o := range outputs {
			switch o {
			case OutputStdout, OutputStdoutVerbose:
				hasStdout = true
			case OutputStderr, OutputStderrVerbose:
				hasStderr = true
			}
		}
		if hasStdout && hasStderr {
			return nil, NewInvalidOptionsError("logging", "event kind "+string(kind)+" routed to both stdout and stderr")
		}
	}
	return result, nil
}
