package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, yaml string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(yaml))
	require.NoError(t, err)
	return scenario
}

func TestRun_TombstonesAndOrdering(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/tombstones_and_ordering.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Trace, len(scenario.Steps))

	for i, event := range result.Trace {
		assert.Equal(t, int64(i+1), event.Seq)
	}
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	scenario := mustParse(t, `
name: wrong
description: expectations that do not hold
steps:
  - op: set
    table: t
    key: k
    value: v
  - op: get
    table: t
    key: k
    expect:
      status: KeyDeleted
      value: w
  - op: has
    table: t
    key: k
    expect:
      has: false
  - op: sweep
    expect:
      count: 3
assertions:
  - type: value
    table: t
    key: k
    value: other
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "status: expected KeyDeleted, got NoError")
	assert.Contains(t, result.Errors[1], `value: expected "w", got "v"`)
	assert.Contains(t, result.Errors[2], "has: expected false, got true")
	assert.Contains(t, result.Errors[3], "count: expected 3, got 0")
	assert.Contains(t, result.Errors[4], "Assertion failed: value")
}

func TestRun_EachScenarioStartsEmpty(t *testing.T) {
	scenario := mustParse(t, `
name: fresh
description: nothing leaks between runs
steps:
  - op: tables
    expect:
      keys: []
  - op: set
    table: t
    key: k
    value: v
`)

	for i := 0; i < 2; i++ {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d: %v", i, result.Errors)
	}
}

func TestRun_ExpiryAndSweep(t *testing.T) {
	scenario := mustParse(t, `
name: sweep
description: sweep writes expired tombstones ahead of reads
steps:
  - op: set
    table: t
    key: a
    value: v
    expires_in: 30s
  - op: set
    table: t
    key: b
    value: v
    expires_in: -1s
  - op: set
    table: t
    key: c
    value: v
  - op: sweep
    expect:
      count: 1
  - op: advance
    duration: 30s
  - op: sweep
    expect:
      count: 1
  - op: get
    table: t
    key: a
    expect:
      status: KeyAutoDeleted
  - op: delete
    table: t
    key: a
  - op: get
    table: t
    key: a
    expect:
      status: KeyAutoDeleted
assertions:
  - type: live_keys
    table: t
    keys: [c]
  - type: value
    table: t
    key: c
    value: v
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_EmptyNamesAndDropAll(t *testing.T) {
	scenario := mustParse(t, `
name: drop_all
description: drop_all clears every table
guid: fixed-id
steps:
  - op: set
    table: a
    key: k
    value: "1"
  - op: set
    table: b
    key: k
    value: "2"
  - op: tables
    expect:
      keys: [a, b]
  - op: drop_all
  - op: tables
    expect:
      keys: []
  - op: guid
assertions:
  - type: tables
    tables: []
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "fixed-id", result.Trace[len(result.Trace)-1].Output)
}
