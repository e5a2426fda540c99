package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertStatusCount(t *testing.T) {
	trace := []TraceEvent{
		{Seq: 1, Op: "get", Status: "KeyNotFound"},
		{Seq: 2, Op: "set", Status: "NoError"},
		{Seq: 3, Op: "get", Status: "KeyNotFound"},
	}

	assert.NoError(t, assertStatusCount(trace, Assertion{Type: AssertStatusCount, Status: "KeyNotFound", Count: 2}))
	assert.NoError(t, assertStatusCount(trace, Assertion{Type: AssertStatusCount, Status: "KeyDeleted", Count: 0}))

	err := assertStatusCount(trace, Assertion{Type: AssertStatusCount, Status: "NoError", Count: 2})
	var ae *AssertionError
	assert.ErrorAs(t, err, &ae)
	assert.Equal(t, "1", ae.Actual)
}

func TestAssertionError_Message(t *testing.T) {
	err := &AssertionError{
		Type:     AssertLiveKeys,
		Expected: "table t keys [a]",
		Actual:   "[]",
		Trace: []TraceEvent{
			{Seq: 1, Op: "delete", Args: map[string]any{"key": "a"}, Status: "NoError"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: live_keys")
	assert.Contains(t, msg, "Expected: table t keys [a]")
	assert.Contains(t, msg, "Actual: []")
	assert.Contains(t, msg, "[1] delete map[key:a] -> NoError")
}
