package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/simpledb/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes the trace so the failure can be read in context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Seq, event.Op, event.Args, event.Status)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure. Assertions read through the engine, so they observe lifecycle
// resolution exactly as callers do, and they run after the trace is
// complete so they do not appear in it.
func EvaluateAssertions(e *engine.Engine, result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(e, result.Trace, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(e *engine.Engine, trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertLiveKeys:
		return assertLiveKeys(e, trace, a)
	case AssertTables:
		return assertTables(e, trace, a)
	case AssertValue:
		return assertValue(e, trace, a)
	case AssertStatusCount:
		return assertStatusCount(trace, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertLiveKeys checks the readable keys of a table, in storage order.
func assertLiveKeys(e *engine.Engine, trace []TraceEvent, a Assertion) error {
	got := e.KeysInTable(a.Table)
	if !reflect.DeepEqual(nonNil(a.Keys), got) {
		return &AssertionError{
			Type:     AssertLiveKeys,
			Expected: fmt.Sprintf("table %s keys %v", a.Table, nonNil(a.Keys)),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    trace,
		}
	}
	return nil
}

func assertTables(e *engine.Engine, trace []TraceEvent, a Assertion) error {
	got, res := e.Tables()
	if !res.OK() || !reflect.DeepEqual(nonNil(a.Tables), got) {
		return &AssertionError{
			Type:     AssertTables,
			Expected: fmt.Sprintf("tables %v", nonNil(a.Tables)),
			Actual:   fmt.Sprintf("%v (%s)", got, res.Status),
			Trace:    trace,
		}
	}
	return nil
}

// assertValue checks that a key is readable and holds exactly Value.
func assertValue(e *engine.Engine, trace []TraceEvent, a Assertion) error {
	got, res := e.ValueForKey(a.Table, a.Key)
	if !res.OK() || got != a.Value {
		return &AssertionError{
			Type:     AssertValue,
			Expected: fmt.Sprintf("%s/%s = %q", a.Table, a.Key, a.Value),
			Actual:   fmt.Sprintf("%q (%s)", got, res.Status),
			Trace:    trace,
		}
	}
	return nil
}

// assertStatusCount checks how many traced calls reported Status.
func assertStatusCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Status == a.Status {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertStatusCount,
			Expected: fmt.Sprintf("%d calls with status %s", a.Count, a.Status),
			Actual:   fmt.Sprintf("%d", count),
			Trace:    trace,
		}
	}
	return nil
}
