package report

import "fmt"

// ParseError reports a date string that is present but not in YYYY-MM-DD form.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Value)
	}
	return fmt.Sprintf("invalid %s %q: expected YYYY-MM-DD", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError reports an unknown report type or a missing project key.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

// UpstreamError wraps a failure of the work-item source or the chart routine.
type UpstreamError struct {
	Source string
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
