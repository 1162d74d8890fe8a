package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restprobe/restprobe/internal/models"
)

func TestRunSuiteEmptyIsVacuousPass(t *testing.T) {
	suite := RunSuite(jsonSnapshot(t, `{}`), nil)
	assert.True(t, suite.Passed)
	assert.Empty(t, suite.Results)
}

func TestRunSuitePreservesOrder(t *testing.T) {
	snap := jsonSnapshot(t, `{"count": 5}`)
	specs := []models.AssertionSpec{
		models.StatusCodeAssertion{Expected: 200},
		models.ValueEqualsAssertion{Path: "count", Expected: 5},
		models.BodyContainsAssertion{Text: "count"},
	}

	suite := RunSuite(snap, specs)
	require.Len(t, suite.Results, 3)
	assert.True(t, suite.Passed)
	for i, spec := range specs {
		assert.Equal(t, spec, suite.Results[i].Spec)
	}
}

func TestRunSuiteConjunction(t *testing.T) {
	snap := jsonSnapshot(t, `{"count": 5}`)
	specs := []models.AssertionSpec{
		models.StatusCodeAssertion{Expected: 200},
		models.StatusCodeAssertion{Expected: 500},
		models.ValueEqualsAssertion{Path: "count", Expected: 5},
	}

	suite := RunSuite(snap, specs)
	require.Len(t, suite.Results, 3)
	assert.False(t, suite.Passed)
	assert.True(t, suite.Results[0].Passed)
	assert.False(t, suite.Results[1].Passed)
	assert.True(t, suite.Results[2].Passed, "a failing assertion never aborts its siblings")
}

func TestRunSuiteEvaluationErrorDoesNotAbort(t *testing.T) {
	snap := jsonSnapshot(t, `{"count": 5}`)
	specs := []models.AssertionSpec{
		models.ValueGreaterThanAssertion{Path: "missing", Threshold: 0},
		models.StatusCodeAssertion{Expected: 200},
	}

	suite := RunSuite(snap, specs)
	require.Len(t, suite.Results, 2)
	assert.False(t, suite.Passed)
	assert.NotEmpty(t, suite.Results[0].Error)
	assert.True(t, suite.Results[1].Passed)
}
