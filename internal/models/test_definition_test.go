package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	def := TestDefinition{Method: "post", URL: " https://example.com/users "}
	def.Normalize()
	assert.Equal(t, "POST", def.Method)
	assert.Equal(t, "https://example.com/users", def.URL)
	assert.Equal(t, "POST https://example.com/users", def.Name, "default name is assigned when absent")

	named := TestDefinition{Name: "create user", Method: "POST", URL: "/users"}
	named.Normalize()
	assert.Equal(t, "create user", named.Name)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, TestDefinition{Method: "GET", URL: "https://example.com"}.Validate())
	assert.Error(t, TestDefinition{URL: "https://example.com"}.Validate())
	assert.Error(t, TestDefinition{Method: "GET"}.Validate())
}

func TestTimeoutDefault(t *testing.T) {
	assert.Equal(t, 30*time.Second, TestDefinition{}.Timeout())
	assert.Equal(t, 1500*time.Millisecond, TestDefinition{TimeoutSeconds: 1.5}.Timeout())
}

func TestSummarize(t *testing.T) {
	results := []TestExecutionResult{
		{Passed: true, Elapsed: 100 * time.Millisecond},
		{Passed: false, Elapsed: 300 * time.Millisecond},
		{Passed: true, Elapsed: 200 * time.Millisecond},
	}

	s := Summarize(results)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, s.Total, s.Passed+s.Failed)
	assert.InDelta(t, 66.66, s.SuccessRatePercent, 0.1)
	assert.Equal(t, 600*time.Millisecond, s.TotalElapsed)
	assert.Equal(t, 100*time.Millisecond, s.Fastest)
	assert.Equal(t, 300*time.Millisecond, s.Slowest)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.SuccessRatePercent, "no division by zero on an empty batch")
	assert.Zero(t, s.Fastest)
	assert.Zero(t, s.Slowest)
}
