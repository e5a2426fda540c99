package harness

// TraceEvent records one engine call made by a scenario step.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Op     string         `json:"op"`
	Args   map[string]any `json:"args,omitempty"`
	Status string         `json:"status"`
	Output any            `json:"output,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per executed call, in order. Clock movements
	// are recorded too, with status NoError.
	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event, numbering it after the previous one.
func (r *Result) AddTrace(op string, args map[string]any, status string, output any) TraceEvent {
	event := TraceEvent{
		Seq:    int64(len(r.Trace) + 1),
		Op:     op,
		Args:   args,
		Status: status,
		Output: output,
	}
	r.Trace = append(r.Trace, event)
	return event
}
