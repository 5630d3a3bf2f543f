package events

import (
	"fmt"
	"os"

	"github.com/rsds143/astra-data-go/options"
	"go.uber.org/zap"
)

// Listener is a registered callback for one or more event kinds.
type Listener struct {
	Selector options.Selector
	Handler  func(*Event)
}

// Bus is one entity's event emitter: it holds its own listeners and
// resolved output routing, plus a link to the parent bus events
// bubble up to. Every entity facade (C10) owns one Bus.
type Bus struct {
	parent    *Bus
	listeners []Listener
	routing   map[options.EventKind][]options.Output
	logger    *zap.SugaredLogger
	formatter Formatter
}

// New builds a root Bus (no parent), typically owned by the Client.
func New(logger *zap.SugaredLogger) *Bus {
	if logger == nil {
		z, _ := zap.NewProduction()
		logger = z.Sugar()
	}
	return &Bus{logger: logger, formatter: GlobalFormatter()}
}

// Child builds a Bus whose events propagate up to b after being
// handled locally, for a facade one level down the entity hierarchy
// (spec.md 4.10).
func (b *Bus) Child() *Bus {
	return &Bus{parent: b, logger: b.logger, formatter: b.formatter}
}

// Configure applies a resolved LoggingConfig to this bus.
func (b *Bus) Configure(cfg options.LoggingConfig) error {
	routing, err := cfg.Resolve()
	if err != nil {
		return err
	}
	b.routing = routing
	return nil
}

// On registers a listener for events matching the selector.
func (b *Bus) On(sel options.Selector, handler func(*Event)) {
	b.listeners = append(b.listeners, Listener{Selector: sel, Handler: handler})
}

// Emit fires e on this bus, then (unless propagation was stopped)
// bubbles it to the parent, all the way up to the client (spec.md
// 3.4, 4.5).
func (b *Bus) Emit(e *Event) {
	bus := b
	for bus != nil {
		bus.handleLocally(e)
		if e.isPropagationStopped() {
			return
		}
		bus = bus.parent
	}
}

func (b *Bus) handleLocally(e *Event) {
	for _, l := range b.listeners {
		if !l.Selector.Matches(e.Kind) {
			continue
		}
		l.Handler(e)
		if e.isImmediatePropagationStopped() {
			break
		}
	}
	for _, out := range b.routing[e.Kind] {
		b.write(out, e)
	}
}

func (b *Bus) write(out options.Output, e *Event) {
	line := b.formatter(e)
	switch out {
	case options.OutputStdout:
		fmt.Fprintln(os.Stdout, line)
	case options.OutputStdoutVerbose:
		fmt.Fprintln(os.Stdout, line)
		if b.logger != nil {
			b.logger.Debugw(string(e.Kind), "requestId", e.RequestID, "command", e.Command)
		}
	case options.OutputStderr:
		fmt.Fprintln(os.Stderr, line)
	case options.OutputStderrVerbose:
		fmt.Fprintln(os.Stderr, line)
		if b.logger != nil {
			b.logger.Debugw(string(e.Kind), "requestId", e.RequestID, "command", e.Command)
		}
	case options.OutputEvent:
		// "event" output is satisfied purely by the listeners already
		// invoked in handleLocally; nothing further to do here.
	}
}
