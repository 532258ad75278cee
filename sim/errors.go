package sim

import "fmt"

// ConfigurationError reports invalid level geometry or an unknown policy
// name. It is detected eagerly at Hierarchy construction, before any access
// is processed; a run with an invalid configuration never starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports a corrupted simulation state, such as duplicate
// valid tags within a set or a victim-selection request on a non-full set.
// These are internal logic faults and are surfaced rather than recovered:
// they indicate the run's results can no longer be trusted.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "simulation invariant violated: " + e.Reason
}

func invariantErrorf(format string, args ...any) error {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
