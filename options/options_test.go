package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutsMonoidAssociative(t *testing.T) {
	a := TimeoutDescriptor{RequestTimeoutMs: ms(1)}
	b := TimeoutDescriptor{GeneralMethodTimeoutMs: ms(2)}
	c := TimeoutDescriptor{TableAdminTimeoutMs: ms(3)}

	left := ConcatTimeouts(ConcatTimeouts(a, b), c)
	right := ConcatTimeouts(a, ConcatTimeouts(b, c))
	assert.Equal(t, left, right)
}

func TestTimeoutsMonoidIdentity(t *testing.T) {
	a := TimeoutDescriptor{RequestTimeoutMs: ms(5), GeneralMethodTimeoutMs: ms(6)}
	empty := EmptyTimeoutDescriptor()
	assert.Equal(t, a, ConcatTimeouts(a, empty))
	assert.Equal(t, a, ConcatTimeouts(empty, a))
}

func TestZeroFieldIsInfinite(t *testing.T) {
	zero := int64(0)
	d := TimeoutDescriptor{RequestTimeoutMs: &zero}
	assert.Equal(t, time.Duration(infiniteMs)*time.Millisecond, Get(d.RequestTimeoutMs))
}

func TestResolveSingleAttemptBareNumberSetsBoth(t *testing.T) {
	base := DefaultTimeoutDescriptor()
	resolved := TimeoutMillis(2000).ResolveSingleAttempt(base, CategoryGeneralMethod)
	assert.EqualValues(t, 2000, *resolved.RequestTimeoutMs)
	assert.EqualValues(t, 2000, *resolved.GeneralMethodTimeoutMs)
}

func TestResolveMultipartBareNumberSetsCategoryOnly(t *testing.T) {
	base := DefaultTimeoutDescriptor()
	resolved := TimeoutMillis(2000).ResolveMultipart(base, CategoryDatabaseAdmin)
	assert.EqualValues(t, *base.RequestTimeoutMs, *resolved.RequestTimeoutMs)
	assert.EqualValues(t, 2000, *resolved.DatabaseAdminTimeoutMs)
}

func TestCallerConcatPreservesOrder(t *testing.T) {
	parent := Caller{{Name: "app", Version: "1.0"}}
	child := Caller{{Name: "plugin"}}
	got := ConcatCaller(parent, child)
	assert.Equal(t, Caller{{Name: "app", Version: "1.0"}, {Name: "plugin"}}, got)
	assert.Equal(t, "app/1.0 plugin", got.UserAgentFragment())
}

func TestHeadersConcatOverridesByKey(t *testing.T) {
	a := AdditionalHeaders{"x": "1", "y": "2"}
	b := AdditionalHeaders{"y": "3", "z": "4"}
	got := ConcatHeaders(a, b)
	assert.Equal(t, AdditionalHeaders{"x": "1", "y": "3", "z": "4"}, got)
}

func TestLoggingRejectsStdoutAndStderrForSameKind(t *testing.T) {
	cfg := LoggingConfig{Layers: []LoggingLayer{
		{Events: SelectKind(EventCommandFailed), Emits: []Output{OutputStdout, OutputStderr}},
	}}
	_, err := cfg.Resolve()
	assert.Error(t, err)
}

func TestParseEnvironmentRejectsUnknown(t *testing.T) {
	_, err := ParseEnvironment("nope")
	assert.Error(t, err)
	var ioe *InvalidOptionsError
	assert.ErrorAs(t, err, &ioe)
}
