package domain

import "fmt"

// InvalidParameterError reports a malformed or unmatched site parameter. It
// is surfaced at site profile construction and is fatal to that request.
type InvalidParameterError struct {
	Param  string
	Value  string
	Reason string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%q: %s", e.Param, e.Value, e.Reason)
}

// NoCandidateError reports that a selected layer's filtered candidate set was
// empty. Assembly aborts; no partial guild is ever returned.
type NoCandidateError struct {
	Layer Layer
}

func (e NoCandidateError) Error() string {
	return fmt.Sprintf("no candidate plant for layer %s", e.Layer)
}
