package timeoutmgr

import (
	"testing"
	"time"

	"github.com/rsds143/astra-data-go/options"
	"github.com/stretchr/testify/assert"
)

func msPtr(v int64) *int64 { return &v }

func TestSingleAttemptBindingCategory(t *testing.T) {
	base := options.TimeoutDescriptor{RequestTimeoutMs: msPtr(10000), GeneralMethodTimeoutMs: msPtr(2000)}
	m := New(SingleAttempt, base, options.CategoryGeneralMethod)
	deadline, mkErr := m.Advance()
	assert.Equal(t, 2000*time.Millisecond, deadline)
	err := mkErr()
	assert.True(t, err.Binds(options.CategoryGeneralMethod))
}

func TestSingleAttemptEqualBindsBoth(t *testing.T) {
	base := options.TimeoutDescriptor{RequestTimeoutMs: msPtr(2000), GeneralMethodTimeoutMs: msPtr(2000)}
	m := New(SingleAttempt, base, options.CategoryGeneralMethod)
	_, mkErr := m.Advance()
	err := mkErr()
	assert.True(t, err.Binds("requestTimeoutMs"))
	assert.True(t, err.Binds(options.CategoryGeneralMethod))
}

func TestAdvanceNeverNegative(t *testing.T) {
	base := options.TimeoutDescriptor{RequestTimeoutMs: msPtr(100), DatabaseAdminTimeoutMs: msPtr(50)}
	m := New(Multipart, base, options.CategoryDatabaseAdmin)
	restore := now
	defer func() { now = restore }()
	start := now()
	now = func() time.Time { return start.Add(1 * time.Hour) }
	deadline, mkErr := m.Advance()
	assert.True(t, deadline >= 0)
	assert.NotEmpty(t, mkErr().Categories)
}

func TestZeroTimeoutNeverExpires(t *testing.T) {
	base := options.TimeoutDescriptor{RequestTimeoutMs: msPtr(0), GeneralMethodTimeoutMs: msPtr(0)}
	m := New(SingleAttempt, base, options.CategoryGeneralMethod)
	deadline, _ := m.Advance()
	assert.True(t, deadline > 24*time.Hour, "zero timeout should resolve to an effectively infinite deadline")
}
