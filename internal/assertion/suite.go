package assertion

import "github.com/restprobe/restprobe/internal/models"

// SuiteResult is the outcome of running every assertion of a test against
// one snapshot.
type SuiteResult struct {
	Results []models.AssertionResult
	Passed  bool
}

// RunSuite evaluates every spec independently, in input order, and takes
// the conjunction of the verdicts. An empty spec list is a vacuous pass:
// no assertions means nothing failed.
func RunSuite(snap *models.ResponseSnapshot, specs []models.AssertionSpec) SuiteResult {
	suite := SuiteResult{
		Results: make([]models.AssertionResult, 0, len(specs)),
		Passed:  true,
	}
	for _, spec := range specs {
		result := Evaluate(snap, spec)
		suite.Results = append(suite.Results, result)
		if !result.Passed {
			suite.Passed = false
		}
	}
	return suite
}
