package debugger

import "fmt"

// NotFoundError reports a backend key absent from the discovered set.
type NotFoundError struct {
	// Key is the option name that was requested.
	Key string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("debugger not found: %s", e.Key)
}

// LoadError reports a backend that was constructed but cannot be used in
// this environment. Listings capture it per entry; a run treats it as
// fatal.
type LoadError struct {
	// Key is the backend's option name.
	Key string

	// Message is the backend's reported loading error.
	Message string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load debugger %s: %s", e.Key, e.Message)
}
