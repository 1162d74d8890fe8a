package models

import (
	"encoding/json"
	"time"
)

// AssertionResult is the verdict for one assertion against one snapshot.
// Error is set only when the assertion could not be computed at all (bad
// path, non-numeric value, invalid pattern); an evaluation error always
// comes with Passed=false.
type AssertionResult struct {
	Spec     AssertionSpec `json:"-"`
	Passed   bool          `json:"passed"`
	Expected any           `json:"expected_value,omitempty"`
	Actual   any           `json:"actual_value,omitempty"`
	Error    string        `json:"error,omitempty"`
	Detail   string        `json:"detail,omitempty"`
}

func (r AssertionResult) MarshalJSON() ([]byte, error) {
	type plain AssertionResult
	out := struct {
		Assertion json.RawMessage `json:"assertion,omitempty"`
		plain
	}{plain: plain(r)}

	if r.Spec != nil {
		raw, err := MarshalAssertion(r.Spec)
		if err != nil {
			return nil, err
		}
		out.Assertion = raw
	}
	return json.Marshal(out)
}

// TestExecutionResult is the outcome of one test: the snapshot (absent on
// transport failure), the per-assertion verdicts in input order, and the
// aggregate flag.
type TestExecutionResult struct {
	Definition     TestDefinition    `json:"test"`
	Snapshot       *ResponseSnapshot `json:"response,omitempty"`
	Assertions     []AssertionResult `json:"assertions"`
	Passed         bool              `json:"passed"`
	Elapsed        time.Duration     `json:"elapsed_ns"`
	TransportError string            `json:"transport_error,omitempty"`
}

// ElapsedSeconds returns the wall-clock execution time of the test.
func (r TestExecutionResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// BatchSummary aggregates a result collection in one pass.
type BatchSummary struct {
	Total              int           `json:"total"`
	Passed             int           `json:"passed"`
	Failed             int           `json:"failed"`
	SuccessRatePercent float64       `json:"success_rate_percent"`
	TotalElapsed       time.Duration `json:"total_elapsed_ns"`
	Fastest            time.Duration `json:"fastest_ns"`
	Slowest            time.Duration `json:"slowest_ns"`
}

// BatchResult pairs the ordered result collection (same order as the input
// tests) with its summary.
type BatchResult struct {
	Results []TestExecutionResult `json:"results"`
	Summary BatchSummary          `json:"summary"`
}

// Summarize derives the summary from a completed result collection. An
// empty collection yields all zeroes, including the success rate.
func Summarize(results []TestExecutionResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for i, r := range results {
		if r.Passed {
			s.Passed++
		}
		s.TotalElapsed += r.Elapsed
		if i == 0 || r.Elapsed < s.Fastest {
			s.Fastest = r.Elapsed
		}
		if r.Elapsed > s.Slowest {
			s.Slowest = r.Elapsed
		}
	}
	s.Failed = s.Total - s.Passed
	if s.Total > 0 {
		s.SuccessRatePercent = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}
