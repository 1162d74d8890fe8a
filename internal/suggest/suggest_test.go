package suggest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restprobe/restprobe/internal/models"
)

func snapshot(body string, elapsed time.Duration) *models.ResponseSnapshot {
	snap := &models.ResponseSnapshot{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       body,
		Elapsed:    elapsed,
	}
	var parsed any
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		snap.JSON = parsed
		snap.HasJSON = true
	}
	return snap
}

func specs(suggestions []Suggestion) []models.AssertionSpec {
	out := make([]models.AssertionSpec, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Spec
	}
	return out
}

func TestFromSnapshotObjectBody(t *testing.T) {
	snap := snapshot(`{"id": 42, "status": "active", "payload": {"x": 1}}`, 150*time.Millisecond)

	suggestions := FromSnapshot(snap)
	got := specs(suggestions)

	assert.Contains(t, got, models.StatusCodeAssertion{Expected: 200})
	assert.Contains(t, got, models.ContentTypeAssertion{Expected: "application/json"}, "charset suffix is stripped")
	assert.Contains(t, got, models.JSONPathAssertion{Path: "id", Expected: float64(42), HasExpected: true})
	assert.Contains(t, got, models.JSONPathAssertion{Path: "status", Expected: "active", HasExpected: true})
	assert.NotContains(t, got, models.JSONPathAssertion{Path: "payload", Expected: map[string]any{"x": float64(1)}, HasExpected: true},
		"only well-known keys are pinned")
}

func TestFromSnapshotResponseTimeFloor(t *testing.T) {
	fast := FromSnapshot(snapshot(`{}`, 30*time.Millisecond))
	assert.Contains(t, specs(fast), models.ResponseTimeAssertion{MaxMs: 1000}, "fast probes floor at 1000ms")

	slow := FromSnapshot(snapshot(`{}`, 800*time.Millisecond))
	assert.Contains(t, specs(slow), models.ResponseTimeAssertion{MaxMs: 1600}, "slow probes get twice the observed latency")
}

func TestFromSnapshotArrayBody(t *testing.T) {
	suggestions := FromSnapshot(snapshot(`[1, 2, 3]`, 100*time.Millisecond))
	assert.Contains(t, specs(suggestions), models.ArrayLengthAssertion{Path: "", Expected: 3})
}

func TestFromSnapshotNonJSONBody(t *testing.T) {
	snap := &models.ResponseSnapshot{
		StatusCode: 404,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       "not found",
		Elapsed:    50 * time.Millisecond,
	}

	got := specs(FromSnapshot(snap))
	assert.Contains(t, got, models.StatusCodeAssertion{Expected: 404})
	assert.Contains(t, got, models.ContentTypeAssertion{Expected: "text/plain"})
	for _, spec := range got {
		_, isPath := spec.(models.JSONPathAssertion)
		assert.False(t, isPath, "no body suggestions without parsed JSON")
	}
}

func TestFromSnapshotDeterministicOrder(t *testing.T) {
	snap := snapshot(`{"status": "ok", "id": 1, "error": null}`, 100*time.Millisecond)

	first := specs(FromSnapshot(snap))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, specs(FromSnapshot(snap)))
	}
}

func TestSuggestionMarshalEmbedsAssertion(t *testing.T) {
	s := Suggestion{
		Spec:        models.StatusCodeAssertion{Expected: 200},
		Description: "Validate HTTP status code",
		Confidence:  ConfidenceHigh,
	}

	encoded, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "high", decoded["confidence"])

	spec, ok := decoded["assertion"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "status_code", spec["type"])
}
