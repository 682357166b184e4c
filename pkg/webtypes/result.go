package webtypes

import "strings"

// Result is the textual output sink handed to command handlers.
// A nil *Result is valid and discards everything written to it, which is how
// fire-and-forget dispatch is expressed.
type Result struct {
	buf strings.Builder
}

// NewResult creates an empty result sink.
func NewResult() *Result {
	return &Result{}
}

// WriteString appends s to the sink.
func (r *Result) WriteString(s string) {
	if r == nil {
		return
	}
	r.buf.WriteString(s)
}

// Write implements io.Writer so a sink can capture streamed output.
func (r *Result) Write(p []byte) (int, error) {
	if r == nil {
		return len(p), nil
	}
	return r.buf.Write(p)
}

// Reset clears the sink.
func (r *Result) Reset() {
	if r == nil {
		return
	}
	r.buf.Reset()
}

// String returns everything written so far.
func (r *Result) String() string {
	if r == nil {
		return ""
	}
	return r.buf.String()
}

// Len reports the number of bytes written so far.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return r.buf.Len()
}
