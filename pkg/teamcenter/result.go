package teamcenter

import "github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tcerr"

// Result is the uniform envelope every facade operation returns: either a
// data payload or a typed error, exactly one of the two.
type Result struct {
	Data  any          `json:"data,omitempty"`
	Error *tcerr.Error `json:"error,omitempty"`
}

// OK wraps a success payload.
func OK(data any) *Result {
	return &Result{Data: data}
}

// Fail wraps err, classifying untyped errors into the taxonomy.
func Fail(err error) *Result {
	return &Result{Error: tcerr.From(err)}
}

// Failed reports whether the result carries an error.
func (r *Result) Failed() bool {
	return r.Error != nil
}
