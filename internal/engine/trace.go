package engine

import (
	"fmt"
	"strings"
)

// TraceEntry records one dispatch.
type TraceEntry struct {
	Seq      int64            `json:"seq"`
	Event    Event            `json:"event"`
	Accepted bool             `json:"accepted"`
	Code     RuntimeErrorCode `json:"code,omitempty"`
}

// String renders the entry as one line, e.g. `3 open_technique("cot") ok`.
func (e TraceEntry) String() string {
	status := "ok"
	if !e.Accepted {
		status = "rejected " + string(e.Code)
	}
	return fmt.Sprintf("%d %s %s", e.Seq, e.Event, status)
}

// FormatTrace renders a trace one entry per line.
func FormatTrace(entries []TraceEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
