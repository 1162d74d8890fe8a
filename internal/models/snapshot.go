package models

import (
	"strings"
	"time"
)

// ResponseSnapshot is the normalized, immutable record of one HTTP response.
// Header name case is preserved as received; lookups go through Header.
type ResponseSnapshot struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`

	// JSON holds the parsed body when it decoded as JSON; HasJSON tells the
	// two apart since a JSON null body is a valid parse result.
	JSON    any  `json:"json,omitempty"`
	HasJSON bool `json:"-"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Header performs a case-insensitive header lookup.
func (s *ResponseSnapshot) Header(name string) (string, bool) {
	for k, v := range s.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// ElapsedMs returns the response time in milliseconds.
func (s *ResponseSnapshot) ElapsedMs() float64 {
	return float64(s.Elapsed) / float64(time.Millisecond)
}
