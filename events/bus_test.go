package events

import (
	"testing"
	"time"

	"github.com/rsds143/astra-data-go/options"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	l, _ := zap.NewDevelopment()
	return l.Sugar()
}

func TestEventBubblesToParent(t *testing.T) {
	root := New(testLogger())
	child := root.Child()

	var seenOnChild, seenOnRoot bool
	child.On(options.SelectAll(), func(e *Event) { seenOnChild = true })
	root.On(options.SelectAll(), func(e *Event) { seenOnRoot = true })

	child.Emit(&Event{Kind: options.EventCommandStarted, Timestamp: time.Now()})

	assert.True(t, seenOnChild)
	assert.True(t, seenOnRoot)
}

func TestStopPropagationStopsParent(t *testing.T) {
	root := New(testLogger())
	child := root.Child()

	seenOnRoot := false
	child.On(options.SelectAll(), func(e *Event) { e.StopPropagation() })
	root.On(options.SelectAll(), func(e *Event) { seenOnRoot = true })

	child.Emit(&Event{Kind: options.EventCommandStarted, Timestamp: time.Now()})
	assert.False(t, seenOnRoot)
}

func TestStopImmediatePropagationStopsSiblings(t *testing.T) {
	root := New(testLogger())
	firstCalled, secondCalled := false, false
	root.On(options.SelectAll(), func(e *Event) {
		firstCalled = true
		e.StopImmediatePropagation()
	})
	root.On(options.SelectAll(), func(e *Event) { secondCalled = true })

	root.Emit(&Event{Kind: options.EventCommandStarted, Timestamp: time.Now()})
	assert.True(t, firstCalled)
	assert.False(t, secondCalled)
}

func TestConfigureRejectsConflictingRouting(t *testing.T) {
	bus := New(testLogger())
	cfg := options.LoggingConfig{Layers: []options.LoggingLayer{
		{Events: options.SelectKind(options.EventCommandFailed), Emits: []options.Output{options.OutputStdout, options.OutputStderr}},
	}}
	err := bus.Configure(cfg)
	assert.Error(t, err)
}

func TestDefaultFormatterShape(t *testing.T) {
	e := &Event{Kind: options.EventCommandSucceeded, Name: "insertOne", Keyspace: "ks", Target: TargetCollection, Timestamp: time.Now(), Duration: 5 * time.Millisecond}
	line := DefaultFormatter(e)
	assert.Contains(t, line, "[insertOne]")
	assert.Contains(t, line, "(ks.collection)")
}
