package gtfsassess

import "fmt"

// StructuralError is fatal: a table or column the current operation strictly
// needs is absent or empty. It always names the offending feed.
type StructuralError struct {
	Feed string
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Feed == "" {
		return e.Msg
	}
	return fmt.Sprintf("feed %s: %s", e.Feed, e.Msg)
}

// NewStructuralError builds a StructuralError for a feed.
func NewStructuralError(feed, format string, args ...any) *StructuralError {
	return &StructuralError{Feed: feed, Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError is raised for an invalid parameter to a public
// operation, before any table is touched.
type ConfigurationError struct {
	Param string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Msg)
}

// NewConfigurationError builds a ConfigurationError for a parameter.
func NewConfigurationError(param, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Param: param, Msg: fmt.Sprintf(format, args...)}
}

// CleaningFailure describes a cleaning step that could not be applied. It is
// reported, never raised; the step's target table is left untouched.
type CleaningFailure struct {
	Feed  string
	Table string
	Msg   string
}

func (e *CleaningFailure) Error() string {
	return fmt.Sprintf("feed %s: cleaning %s: %s", e.Feed, e.Table, e.Msg)
}
