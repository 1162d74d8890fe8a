package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout is applied when a test definition does not set its own.
const DefaultTimeout = 30 * time.Second

// TestDefinition is the immutable specification of one HTTP test. It is
// produced by an import or generation step and read-only during execution.
type TestDefinition struct {
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           any               `json:"body,omitempty"`
	Assertions     AssertionList     `json:"assertions,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	TimeoutSeconds float64           `json:"timeout_seconds,omitempty"`
}

// Normalize fills the default name and upper-cases the method.
func (d *TestDefinition) Normalize() {
	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	d.URL = strings.TrimSpace(d.URL)
	if d.Name == "" {
		d.Name = fmt.Sprintf("%s %s", d.Method, d.URL)
	}
}

// Validate reports whether the definition is executable at all. Failures
// here are surfaced as test-level errors, never as batch-level ones.
func (d TestDefinition) Validate() error {
	if strings.TrimSpace(d.Method) == "" {
		return fmt.Errorf("test %q: missing method", d.Name)
	}
	if strings.TrimSpace(d.URL) == "" {
		return fmt.Errorf("test %q: missing url", d.Name)
	}
	return nil
}

// Timeout returns the per-test request timeout.
func (d TestDefinition) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(d.TimeoutSeconds * float64(time.Second))
}
