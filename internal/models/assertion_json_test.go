package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSuite(t *testing.T) {
	suite := `[
		{
			"name": "list users",
			"method": "get",
			"url": "https://api.example.com/users",
			"assertions": [
				{"type": "status_code", "expected": 200},
				{"type": "response_time", "max_ms": 2000},
				{"type": "json_path", "path": "0.id", "expected": 1},
				{"type": "json_path", "path": "0.name"},
				{"type": "array_length", "path": "", "expected": 3},
				{"type": "header", "header": "X-Total-Count", "expected": "3"},
				{"type": "content_type", "expected": "application/json"},
				{"type": "body_contains", "text": "users"},
				{"type": "regex_match", "pattern": "\\d+"},
				{"type": "value_in_range", "path": "0.age", "min": 18, "max": 99},
				{"type": "json_schema", "schema": {"type": "array"}}
			]
		}
	]`

	var defs []TestDefinition
	require.NoError(t, json.Unmarshal([]byte(suite), &defs))
	require.Len(t, defs, 1)

	def := defs[0]
	require.Len(t, def.Assertions, 11)

	assert.Equal(t, StatusCodeAssertion{Expected: 200}, def.Assertions[0])
	assert.Equal(t, ResponseTimeAssertion{MaxMs: 2000}, def.Assertions[1])

	withValue, ok := def.Assertions[2].(JSONPathAssertion)
	require.True(t, ok)
	assert.True(t, withValue.HasExpected)
	assert.Equal(t, float64(1), withValue.Expected)

	existence, ok := def.Assertions[3].(JSONPathAssertion)
	require.True(t, ok)
	assert.False(t, existence.HasExpected, "omitted expected means existence check")

	assert.Equal(t, ArrayLengthAssertion{Path: "", Expected: 3}, def.Assertions[4])
	assert.Equal(t, HeaderAssertion{Name: "X-Total-Count", Expected: "3"}, def.Assertions[5])
	assert.Equal(t, ContentTypeAssertion{Expected: "application/json"}, def.Assertions[6])
	assert.Equal(t, BodyContainsAssertion{Text: "users"}, def.Assertions[7])
	assert.Equal(t, RegexMatchAssertion{Pattern: `\d+`, Target: RegexTargetBody}, def.Assertions[8])
	assert.Equal(t, ValueInRangeAssertion{Path: "0.age", Min: 18, Max: 99}, def.Assertions[9])
	assert.Equal(t, JSONSchemaAssertion{Schema: Schema{Type: "array"}}, def.Assertions[10])
}

func TestDecodeUnknownAssertionType(t *testing.T) {
	data := `[{"type": "custom_javascript", "expression": "true"}]`

	var list AssertionList
	require.NoError(t, json.Unmarshal([]byte(data), &list), "an unknown tag must not reject the whole definition")
	require.Len(t, list, 1)
	assert.Equal(t, UnknownAssertion{Type: "custom_javascript"}, list[0])
}

func TestAssertionListRoundTrip(t *testing.T) {
	original := AssertionList{
		StatusCodeAssertion{Expected: 201},
		JSONPathAssertion{Path: "data.id", Expected: "abc", HasExpected: true},
		JSONPathAssertion{Path: "data.name"},
		ValueGreaterThanAssertion{Path: "count", Threshold: 10},
	}

	encoded, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded AssertionList
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, original, decoded)
}

func TestAssertionResultMarshalCarriesSpec(t *testing.T) {
	result := AssertionResult{
		Spec:   StatusCodeAssertion{Expected: 200},
		Passed: true,
		Detail: "status code: expected 200, got 200",
	}

	encoded, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	spec, ok := decoded["assertion"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "status_code", spec["type"])
	assert.Equal(t, float64(200), spec["expected"])
}
