package auth

import "context"

// Chain composes providers in order, with the monoidal rule "the
// effective token/auth at request time is the most recently defined
// provider along the chain" (spec.md 3.4): headers are merged
// key-by-key, later providers overriding earlier ones.
type Chain []Provider

// GetHeaders implements Provider by merging every link's headers in
// order.
func (c Chain) GetHeaders(ctx context.Context, family Family) (map[string]string, error) {
	var merged map[string]string
	for _, p := range c {
		if p == nil {
			continue
		}
		h, err := p.GetHeaders(ctx, family)
		if err != nil {
			return nil, err
		}
		if len(h) == 0 {
			continue
		}
		if merged == nil {
			merged = make(map[string]string, len(h))
		}
		for k, v := range h {
			merged[k] = v
		}
	}
	return merged, nil
}

// MergeHeaders is the plain key-override monoid over already-resolved
// header maps, used to fold additionalHeaders (from options) in
// alongside provider-resolved auth headers.
func MergeHeaders(layers ...map[string]string) map[string]string {
	var out map[string]string
	for _, l := range layers {
		for k, v := range l {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = v
		}
	}
	return out
}
