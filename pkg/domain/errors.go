package domain

import "fmt"

// ConfigError reports a binding that cannot be satisfied by the model:
// the method path does not resolve to a callable, or the call signature
// does not match the mapped arguments. It indicates a wiring mistake,
// not a data error, and is raised synchronously instead of being folded
// into the rejected set.
type ConfigError struct {
	Property string
	Path     string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("binding %q at %q: %v", e.Property, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
