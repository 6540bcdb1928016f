// Package cli provides the command-line interface for colormap.
package cli

import "fmt"

// ConfigError reports an invalid command-line option.
type ConfigError struct {
	// Flag is the offending flag, empty when the parser did not say.
	Flag string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Flag == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: --%s: %v", e.Flag, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
