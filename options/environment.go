package options

// Environment is the closed set of backend deployments a Client can
// target.
type Environment string

// Recognized environments.
const (
	EnvironmentAstra     Environment = "astra"
	EnvironmentDSE       Environment = "dse"
	EnvironmentHCD       Environment = "hcd"
	EnvironmentCassandra Environment = "cassandra"
	EnvironmentOther     Environment = "other"
)

var validEnvironments = []Environment{
	EnvironmentAstra, EnvironmentDSE, EnvironmentHCD, EnvironmentCassandra, EnvironmentOther,
}

// ParseEnvironment validates a raw environment string against the
// closed set, returning an InvalidOptionsError for anything else.
func ParseEnvironment(raw string) (Environment, error) {
	e := Environment(raw)
	for _, v := range validEnvironments {
		if v == e {
			return e, nil
		}
	}
	allowed := make([]string, len(validEnvironments))
	for i, v := range validEnvironments {
		allowed[i] = string(v)
	}
	return "", UnknownEnumError("environment", raw, allowed)
}

// SerdesOptions controls the ser/des engine's (C6) numeric passthrough
// behavior, independently settable at the db or collection/table
// level.
type SerdesOptions struct {
	// EnableBigNumbers turns on arbitrary-precision passthrough for
	// incoming integers/decimals (spec.md 4.6 Numeric policy). Off by
	// default: incoming numbers stay JS-number-shaped (float64/int64).
	EnableBigNumbers *bool
}

// EmptySerdes is the monoid identity.
func EmptySerdes() SerdesOptions { return SerdesOptions{} }

// ConcatSerdes merges two layers, b overriding a field-wise.
func ConcatSerdes(a, b SerdesOptions) SerdesOptions {
	out := a
	if b.EnableBigNumbers != nil {
		out.EnableBigNumbers = b.EnableBigNumbers
	}
	return out
}

// BigNumbersEnabled reports the effective flag, defaulting to false.
func (s SerdesOptions) BigNumbersEnabled() bool {
	return s.EnableBigNumbers != nil && *s.EnableBigNumbers
}
