package devops

import (
	"context"
	"time"

	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/options"
)

// Default poll intervals (spec.md 4.8): database lifecycle operations
// poll slower than keyspace operations.
const (
	DefaultDatabasePollInterval = 10 * time.Second
	DefaultKeyspacePollInterval = 2 * time.Second
)

// PollConfig parameterizes one long-running command's poll loop.
type PollConfig struct {
	Name        string
	Target      string
	LegalStates []string
	Interval    time.Duration
	// Check fetches the current state plus a raw snapshot for
	// diagnostics/UnexpectedStateError.
	Check func(ctx context.Context) (state string, raw []byte, err error)
}

func contains(states []string, s string) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

// Handle lets a non-blocking long-running command caller poll
// manually instead of having PollUntil block (spec.md 4.8's
// "blocking: false ... gives the caller a handle to poll manually").
type Handle struct {
	client *Client
	cfg    PollConfig
}

// NewHandle builds a manual-poll handle for cfg.
func (c *Client) NewHandle(cfg PollConfig) *Handle {
	return &Handle{client: c, cfg: cfg}
}

// Poll runs exactly one check-and-emit cycle and reports whether the
// target state was reached.
func (h *Handle) Poll(ctx context.Context) (reached bool, raw []byte, err error) {
	state, raw, err := h.cfg.Check(ctx)
	if err != nil {
		return false, nil, err
	}
	h.client.emit(&events.Event{Kind: options.EventAdminCommandPolling, Name: h.cfg.Name, Timestamp: time.Now()})
	if state == h.cfg.Target {
		return true, raw, nil
	}
	if !contains(h.cfg.LegalStates, state) {
		return false, nil, &UnexpectedStateError{Target: h.cfg.Target, LegalStates: h.cfg.LegalStates, GotState: state, Raw: raw}
	}
	return false, raw, nil
}

// Wait blocks on the handle's underlying poll loop, equivalent to the
// blocking:true default.
func (h *Handle) Wait(ctx context.Context) ([]byte, error) {
	return h.client.PollUntil(ctx, h.cfg)
}

// PollUntil blocks until Check reports Target, a deadline from ctx
// elapses, or the state leaves LegalStates (UnexpectedStateError).
// It emits adminCommandPolling once per poll with {elapsed, interval}.
func (c *Client) PollUntil(ctx context.Context, cfg PollConfig) ([]byte, error) {
	start := time.Now()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			elapsed := time.Since(start)
			c.emit(&events.Event{
				Kind: options.EventAdminCommandPolling, Name: cfg.Name, Timestamp: time.Now(),
				Elapsed: elapsed, Interval: cfg.Interval,
			})

			state, raw, err := cfg.Check(ctx)
			if err != nil {
				return nil, err
			}
			if state == cfg.Target {
				return raw, nil
			}
			if !contains(cfg.LegalStates, state) {
				return nil, &UnexpectedStateError{
					Target: cfg.Target, LegalStates: cfg.LegalStates, GotState: state, Raw: raw,
				}
			}
		}
	}
}
