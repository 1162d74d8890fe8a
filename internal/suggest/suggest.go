// Package suggest derives candidate assertions from an observed response,
// for seeding a test definition against a live endpoint.
package suggest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/restprobe/restprobe/internal/models"
)

// Confidence levels attached to suggestions.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Suggestion is one proposed assertion with a human-readable rationale.
type Suggestion struct {
	Spec        models.AssertionSpec `json:"-"`
	Description string               `json:"description"`
	Confidence  string               `json:"confidence"`
}

func (s Suggestion) MarshalJSON() ([]byte, error) {
	type plain Suggestion
	out := struct {
		Assertion json.RawMessage `json:"assertion"`
		plain
	}{plain: plain(s)}

	if s.Spec != nil {
		raw, err := models.MarshalAssertion(s.Spec)
		if err != nil {
			return nil, err
		}
		out.Assertion = raw
	}
	return json.Marshal(out)
}

// minResponseTimeMs floors the suggested response-time ceiling so a fast
// probe does not produce a flaky assertion.
const minResponseTimeMs = 1000

// wellKnownKeys are top-level body fields worth pinning to their observed
// values.
var wellKnownKeys = []string{"id", "uuid", "status", "success", "error"}

// FromSnapshot proposes assertions for the observed response: the seen
// status code, a response-time ceiling at twice the observed latency, the
// content type with any charset stripped, and value checks for well-known
// body fields.
func FromSnapshot(snap *models.ResponseSnapshot) []Suggestion {
	suggestions := []Suggestion{{
		Spec:        models.StatusCodeAssertion{Expected: snap.StatusCode},
		Description: "Validate HTTP status code",
		Confidence:  ConfidenceHigh,
	}}

	if elapsed := snap.ElapsedMs(); elapsed > 0 {
		ceiling := max(float64(minResponseTimeMs), elapsed*2)
		suggestions = append(suggestions, Suggestion{
			Spec:        models.ResponseTimeAssertion{MaxMs: ceiling},
			Description: fmt.Sprintf("Validate response time is under %.0fms", ceiling),
			Confidence:  ConfidenceMedium,
		})
	}

	if contentType, ok := snap.Header("content-type"); ok && contentType != "" {
		stripped := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
		suggestions = append(suggestions, Suggestion{
			Spec:        models.ContentTypeAssertion{Expected: stripped},
			Description: "Validate response content type",
			Confidence:  ConfidenceHigh,
		})
	}

	if snap.HasJSON {
		suggestions = append(suggestions, bodySuggestions(snap.JSON)...)
	}
	return suggestions
}

func bodySuggestions(body any) []Suggestion {
	switch value := body.(type) {
	case map[string]any:
		var suggestions []Suggestion
		// Deterministic order for display and tests.
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if !isWellKnown(key) {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Spec:        models.JSONPathAssertion{Path: key, Expected: value[key], HasExpected: true},
				Description: fmt.Sprintf("Validate %s field value", key),
				Confidence:  ConfidenceMedium,
			})
		}
		return suggestions
	case []any:
		return []Suggestion{{
			Spec:        models.ArrayLengthAssertion{Path: "", Expected: len(value)},
			Description: fmt.Sprintf("Validate array contains %d items", len(value)),
			Confidence:  ConfidenceLow,
		}}
	default:
		return nil
	}
}

func isWellKnown(key string) bool {
	for _, k := range wellKnownKeys {
		if k == key {
			return true
		}
	}
	return false
}
