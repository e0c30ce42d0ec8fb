package harness

// TraceEvent is one dispatched event as recorded by the controller.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Event    string `json:"event"`
	Accepted bool   `json:"accepted"`
	Code     string `json:"code,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every dispatch in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Page is the final screen rendered as plain text.
	Page string `json:"page"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
