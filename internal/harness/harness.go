package harness

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"time"

	"github.com/roach88/simpledb/internal/codec"
	"github.com/roach88/simpledb/internal/engine"
	"github.com/roach88/simpledb/internal/enumerate"
	"github.com/roach88/simpledb/internal/record"
	"github.com/roach88/simpledb/internal/testutil"
)

// Harness executes the steps of one scenario.
type Harness struct {
	engine *engine.Engine
	clock  *testutil.Clock
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a manual clock at
// testutil.Epoch, so its trace is reproducible. An error is returned only
// when the scenario cannot be executed at all; failed expectations are
// reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	clock := testutil.NewClock(testutil.Epoch)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng, err := engine.Open(":memory:",
		engine.WithClock(clock),
		engine.WithGUIDGenerator(testutil.NewFixedGUID(scenario.GUID)),
		engine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory engine: %w", err)
	}
	defer eng.Close()

	h := &Harness{
		engine: eng,
		clock:  clock,
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	for _, msg := range EvaluateAssertions(eng, result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// outcome is what a step observed, before it is traced and checked.
type outcome struct {
	status string
	output any
	value  *string
	field  any
	keys   []string
	has    *bool
	count  *int
}

func (h *Harness) executeStep(index int, step Step, result *Result) error {
	out, err := h.call(step)
	if err != nil {
		return err
	}

	result.AddTrace(step.Op, stepArgs(step), out.status, out.output)
	h.logger.Debug("step executed", "step", index, "op", step.Op, "status", out.status)

	if step.Expect != nil {
		for _, msg := range checkExpect(*step.Expect, out) {
			result.AddError(fmt.Sprintf("steps[%d] %s: %s", index, step.Op, msg))
		}
	}
	return nil
}

func (h *Harness) call(step Step) (outcome, error) {
	e := h.engine

	switch step.Op {
	case OpSet:
		expires, err := h.expiry(step)
		if err != nil {
			return outcome{}, err
		}
		res := e.SetValue(step.Value, step.Key, step.Table, expires)
		return outcome{status: res.Status.String()}, nil

	case OpSetDict:
		expires, err := h.expiry(step)
		if err != nil {
			return outcome{}, err
		}
		res := e.SetDictionary(step.Dict, step.Key, step.Table, expires)
		return outcome{status: res.Status.String()}, nil

	case OpGet:
		value, res := e.ValueForKey(step.Table, step.Key)
		out := outcome{status: res.Status.String(), value: &value}
		if res.OK() {
			out.output = value
		}
		return out, nil

	case OpDict:
		m, res := e.DictionaryValueForKey(step.Table, step.Key)
		out := outcome{status: res.Status.String()}
		if res.OK() {
			out.output = m
			out.field = m
		}
		return out, nil

	case OpField:
		v, res := e.JSONValueForKey(step.Field, step.Table, step.Key)
		out := outcome{status: res.Status.String()}
		if res.OK() {
			out.output = v
			out.field = v
		}
		return out, nil

	case OpHas:
		has := e.HasKey(step.Table, step.Key)
		return outcome{status: e.Status().String(), output: has, has: &has}, nil

	case OpDelete:
		res := e.DeleteForKey(step.Key, step.Table)
		return outcome{status: res.Status.String()}, nil

	case OpKeys:
		keys, res := e.Keys(step.Table, keyOptions(step))
		return outcome{status: res.Status.String(), output: stringsToAny(keys), keys: keys}, nil

	case OpTables:
		names, res := e.Tables()
		return outcome{status: res.Status.String(), output: stringsToAny(names), keys: names}, nil

	case OpDrop:
		res := e.DropTable(step.Table)
		return outcome{status: res.Status.String()}, nil

	case OpDropAll:
		res := e.DropAllTables()
		return outcome{status: res.Status.String()}, nil

	case OpSweep:
		n, res := e.Sweep()
		return outcome{status: res.Status.String(), output: n, count: &n}, nil

	case OpGUID:
		id := e.GUID()
		return outcome{status: e.Status().String(), output: id}, nil

	case OpAdvance:
		d, err := time.ParseDuration(step.Duration)
		if err != nil {
			return outcome{}, err
		}
		now := h.clock.Advance(d)
		return outcome{status: "NoError", output: now.Format(time.RFC3339Nano)}, nil
	}

	return outcome{}, fmt.Errorf("unknown op %q", step.Op)
}

func (h *Harness) expiry(step Step) (*time.Time, error) {
	if step.ExpiresIn == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(step.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("expires_in: %w", err)
	}
	return h.clock.After(d), nil
}

// keyOptions builds enumeration options for a keys step. Where clauses
// match on the sort-key text of each field, so numbers compare as written.
func keyOptions(step Step) enumerate.Options {
	opts := enumerate.Options{
		OrderBy:    step.OrderBy,
		Descending: step.Reverse,
	}
	if len(step.Where) == 0 {
		return opts
	}

	fields := make([]string, 0, len(step.Where))
	for f := range step.Where {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	preds := make([]enumerate.Predicate, 0, len(fields))
	for _, f := range fields {
		preds = append(preds, enumerate.FieldEquals(f, step.Where[f]))
	}
	opts.Filter = func(e record.Entry) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
	return opts
}

// stepArgs returns the inputs of a step as recorded in the trace.
func stepArgs(step Step) map[string]any {
	args := map[string]any{}
	put := func(name, v string) {
		if v != "" {
			args[name] = v
		}
	}
	put("table", step.Table)
	put("key", step.Key)
	put("value", step.Value)
	put("field", step.Field)
	put("expires_in", step.ExpiresIn)
	put("duration", step.Duration)
	put("order_by", step.OrderBy)
	if step.Dict != nil {
		args["dict"] = step.Dict
	}
	if step.Reverse {
		args["reverse"] = true
	}
	if len(step.Where) > 0 {
		where := make(map[string]any, len(step.Where))
		for k, v := range step.Where {
			where[k] = v
		}
		args["where"] = where
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

func checkExpect(want Expect, got outcome) []string {
	var errs []string

	if want.Status != "" && want.Status != got.status {
		errs = append(errs, fmt.Sprintf("status: expected %s, got %s", want.Status, got.status))
	}
	if want.Value != nil {
		gotValue := ""
		if got.value != nil {
			gotValue = *got.value
		}
		if *want.Value != gotValue {
			errs = append(errs, fmt.Sprintf("value: expected %q, got %q", *want.Value, gotValue))
		}
	}
	if want.Field != nil && !sameJSON(want.Field, got.field) {
		errs = append(errs, fmt.Sprintf("field: expected %v, got %v", want.Field, got.field))
	}
	if want.Keys != nil && !reflect.DeepEqual(want.Keys, nonNil(got.keys)) {
		errs = append(errs, fmt.Sprintf("keys: expected %v, got %v", want.Keys, got.keys))
	}
	if want.Has != nil && (got.has == nil || *want.Has != *got.has) {
		errs = append(errs, fmt.Sprintf("has: expected %v, got %v", *want.Has, deref(got.has)))
	}
	if want.Count != nil && (got.count == nil || *want.Count != *got.count) {
		errs = append(errs, fmt.Sprintf("count: expected %d, got %d", *want.Count, deref(got.count)))
	}

	return errs
}

// sameJSON compares two decoded values by their canonical encoding, so YAML
// integers match decoded JSON numbers of the same value.
func sameJSON(a, b any) bool {
	ja, errA := codec.MarshalCanonical(a)
	jb, errB := codec.MarshalCanonical(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
