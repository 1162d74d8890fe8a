package assertion

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/restprobe/restprobe/internal/models"
)

// Evaluate computes one assertion against one snapshot. It never panics
// outward: anything that prevents the assertion from being computed comes
// back as a failed result with Error set.
func Evaluate(snap *models.ResponseSnapshot, spec models.AssertionSpec) (result models.AssertionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = errorResult(spec, fmt.Sprintf("assertion evaluation error: %v", r))
		}
	}()

	switch a := spec.(type) {
	case models.StatusCodeAssertion:
		return evalStatusCode(snap, a)
	case models.ResponseTimeAssertion:
		return evalResponseTime(snap, a)
	case models.JSONPathAssertion:
		return evalJSONPath(snap, a)
	case models.JSONSchemaAssertion:
		return evalJSONSchema(snap, a)
	case models.HeaderAssertion:
		return evalHeader(snap, a)
	case models.ContentTypeAssertion:
		return evalContentType(snap, a)
	case models.BodyContainsAssertion:
		return evalBodyContains(snap, a)
	case models.BodyNotContainsAssertion:
		return evalBodyNotContains(snap, a)
	case models.RegexMatchAssertion:
		return evalRegexMatch(snap, a)
	case models.ArrayLengthAssertion:
		return evalArrayLength(snap, a)
	case models.ValueEqualsAssertion:
		return evalValueEquals(snap, a)
	case models.ValueGreaterThanAssertion:
		return evalValueGreaterThan(snap, a)
	case models.ValueLessThanAssertion:
		return evalValueLessThan(snap, a)
	case models.ValueInRangeAssertion:
		return evalValueInRange(snap, a)
	default:
		return errorResult(spec, fmt.Sprintf("unknown assertion type: %s", spec.Kind()))
	}
}

func evalStatusCode(snap *models.ResponseSnapshot, a models.StatusCodeAssertion) models.AssertionResult {
	return models.AssertionResult{
		Spec:     a,
		Passed:   snap.StatusCode == a.Expected,
		Expected: a.Expected,
		Actual:   snap.StatusCode,
		Detail:   fmt.Sprintf("status code: expected %d, got %d", a.Expected, snap.StatusCode),
	}
}

func evalResponseTime(snap *models.ResponseSnapshot, a models.ResponseTimeAssertion) models.AssertionResult {
	actual := snap.ElapsedMs()
	return models.AssertionResult{
		Spec:     a,
		Passed:   actual <= a.MaxMs,
		Expected: fmt.Sprintf("<= %.0fms", a.MaxMs),
		Actual:   fmt.Sprintf("%.0fms", actual),
		Detail:   fmt.Sprintf("response time: %.0fms (limit: %.0fms)", actual, a.MaxMs),
	}
}

func evalJSONPath(snap *models.ResponseSnapshot, a models.JSONPathAssertion) models.AssertionResult {
	actual, err := resolveBodyPath(snap, a.Path)
	if err != nil {
		return errorResult(a, err.Error())
	}
	if !a.HasExpected {
		// Pure existence check: the path resolved, that is the assertion.
		return models.AssertionResult{
			Spec:   a,
			Passed: true,
			Actual: actual,
			Detail: fmt.Sprintf("path %q resolved", a.Path),
		}
	}
	return models.AssertionResult{
		Spec:     a,
		Passed:   valuesEqual(actual, a.Expected),
		Expected: a.Expected,
		Actual:   actual,
		Detail:   fmt.Sprintf("path %q: expected %v, got %v", a.Path, a.Expected, actual),
	}
}

func evalJSONSchema(snap *models.ResponseSnapshot, a models.JSONSchemaAssertion) models.AssertionResult {
	body, err := parsedBody(snap)
	if err != nil {
		return errorResult(a, err.Error())
	}
	violations := checkSchema(body, a.Schema)
	result := models.AssertionResult{
		Spec:   a,
		Passed: len(violations) == 0,
		Detail: fmt.Sprintf("schema validation: %d violations", len(violations)),
	}
	if len(violations) > 0 {
		result.Actual = violations
	}
	return result
}

// checkSchema collects every violation instead of stopping at the first one.
func checkSchema(value any, schema models.Schema) []string {
	var violations []string

	if schema.Type != "" && !typeMatches(value, schema.Type) {
		violations = append(violations, fmt.Sprintf("expected %s, got %s", schema.Type, jsonTypeName(value)))
	}

	obj, isObject := value.(map[string]any)
	if schema.Type == "object" && isObject {
		for _, name := range schema.Required {
			if _, ok := obj[name]; !ok {
				violations = append(violations, fmt.Sprintf("missing required property: %s", name))
			}
		}
		for name, prop := range schema.Properties {
			if prop.Type == "" {
				continue
			}
			if v, ok := obj[name]; ok && !typeMatches(v, prop.Type) {
				violations = append(violations, fmt.Sprintf("property %s: expected %s, got %s", name, prop.Type, jsonTypeName(v)))
			}
		}
	}

	return violations
}

func typeMatches(value any, typeName string) bool {
	switch typeName {
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number", "integer":
		_, ok := asFloat(value)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "null":
		return value == nil
	default:
		return false
	}
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		if _, ok := asFloat(value); ok {
			return "number"
		}
		return fmt.Sprintf("%T", value)
	}
}

func evalHeader(snap *models.ResponseSnapshot, a models.HeaderAssertion) models.AssertionResult {
	actual, found := snap.Header(a.Name)
	result := models.AssertionResult{
		Spec:     a,
		Passed:   found && actual == a.Expected,
		Expected: a.Expected,
		Detail:   fmt.Sprintf("header %q: expected %q, got %q", a.Name, a.Expected, actual),
	}
	if found {
		result.Actual = actual
	}
	return result
}

func evalContentType(snap *models.ResponseSnapshot, a models.ContentTypeAssertion) models.AssertionResult {
	raw, _ := snap.Header("content-type")

	// Strip the charset (and any other parameter) suffix.
	actual := strings.TrimSpace(strings.SplitN(raw, ";", 2)[0])
	passed := strings.Contains(strings.ToLower(actual), strings.ToLower(a.Expected))
	return models.AssertionResult{
		Spec:     a,
		Passed:   passed,
		Expected: a.Expected,
		Actual:   raw,
		Detail:   fmt.Sprintf("content type: expected %q, got %q", a.Expected, raw),
	}
}

func evalBodyContains(snap *models.ResponseSnapshot, a models.BodyContainsAssertion) models.AssertionResult {
	passed := strings.Contains(snap.Body, a.Text)
	return models.AssertionResult{
		Spec:     a,
		Passed:   passed,
		Expected: fmt.Sprintf("contains %q", a.Text),
		Actual:   fmt.Sprintf("body length: %d", len(snap.Body)),
		Detail:   fmt.Sprintf("body contains %q: %t", a.Text, passed),
	}
}

func evalBodyNotContains(snap *models.ResponseSnapshot, a models.BodyNotContainsAssertion) models.AssertionResult {
	passed := !strings.Contains(snap.Body, a.Text)
	return models.AssertionResult{
		Spec:     a,
		Passed:   passed,
		Expected: fmt.Sprintf("does not contain %q", a.Text),
		Actual:   fmt.Sprintf("body length: %d", len(snap.Body)),
		Detail:   fmt.Sprintf("body does not contain %q: %t", a.Text, passed),
	}
}

func evalRegexMatch(snap *models.ResponseSnapshot, a models.RegexMatchAssertion) models.AssertionResult {
	re, err := regexp.Compile(a.Pattern)
	if err != nil {
		return errorResult(a, fmt.Sprintf("invalid pattern %q: %v", a.Pattern, err))
	}

	var text string
	switch a.Target {
	case models.RegexTargetHeaders:
		text = headersText(snap)
	case models.RegexTargetBody, "":
		text = snap.Body
	default:
		return errorResult(a, fmt.Sprintf("unknown regex target %q", a.Target))
	}

	match := re.FindString(text)
	passed := re.MatchString(text)
	return models.AssertionResult{
		Spec:     a,
		Passed:   passed,
		Expected: fmt.Sprintf("matches %q", a.Pattern),
		Actual:   fmt.Sprintf("found match: %q", match),
		Detail:   fmt.Sprintf("pattern %q in %s: %t", a.Pattern, a.Target, passed),
	}
}

// headersText renders headers as "name: value" lines for regex matching.
func headersText(snap *models.ResponseSnapshot) string {
	var b strings.Builder
	for k, v := range snap.Headers {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	return b.String()
}

func evalArrayLength(snap *models.ResponseSnapshot, a models.ArrayLengthAssertion) models.AssertionResult {
	value, err := resolveBodyPath(snap, a.Path)
	if err != nil {
		return errorResult(a, err.Error())
	}
	array, ok := value.([]any)
	if !ok {
		return errorResult(a, fmt.Sprintf("value at path %q is not an array", a.Path))
	}
	return models.AssertionResult{
		Spec:     a,
		Passed:   len(array) == a.Expected,
		Expected: a.Expected,
		Actual:   len(array),
		Detail:   fmt.Sprintf("array length at %q: expected %d, got %d", a.Path, a.Expected, len(array)),
	}
}

func evalValueEquals(snap *models.ResponseSnapshot, a models.ValueEqualsAssertion) models.AssertionResult {
	actual, err := resolveBodyPath(snap, a.Path)
	if err != nil {
		return errorResult(a, err.Error())
	}
	return models.AssertionResult{
		Spec:     a,
		Passed:   valuesEqual(actual, a.Expected),
		Expected: a.Expected,
		Actual:   actual,
		Detail:   fmt.Sprintf("value at %q: expected %v, got %v", a.Path, a.Expected, actual),
	}
}

func evalValueGreaterThan(snap *models.ResponseSnapshot, a models.ValueGreaterThanAssertion) models.AssertionResult {
	actual, result := numericAt(snap, a, a.Path)
	if result != nil {
		return *result
	}
	return models.AssertionResult{
		Spec:     a,
		Passed:   actual > a.Threshold,
		Expected: fmt.Sprintf("> %v", a.Threshold),
		Actual:   actual,
		Detail:   fmt.Sprintf("value at %q: %v > %v", a.Path, actual, a.Threshold),
	}
}

func evalValueLessThan(snap *models.ResponseSnapshot, a models.ValueLessThanAssertion) models.AssertionResult {
	actual, result := numericAt(snap, a, a.Path)
	if result != nil {
		return *result
	}
	return models.AssertionResult{
		Spec:     a,
		Passed:   actual < a.Threshold,
		Expected: fmt.Sprintf("< %v", a.Threshold),
		Actual:   actual,
		Detail:   fmt.Sprintf("value at %q: %v < %v", a.Path, actual, a.Threshold),
	}
}

func evalValueInRange(snap *models.ResponseSnapshot, a models.ValueInRangeAssertion) models.AssertionResult {
	actual, result := numericAt(snap, a, a.Path)
	if result != nil {
		return *result
	}
	return models.AssertionResult{
		Spec:     a,
		Passed:   actual >= a.Min && actual <= a.Max,
		Expected: fmt.Sprintf("between %v and %v", a.Min, a.Max),
		Actual:   actual,
		Detail:   fmt.Sprintf("value at %q: %v in [%v, %v]", a.Path, actual, a.Min, a.Max),
	}
}

// numericAt resolves a path and coerces the value to float64. On failure it
// returns a ready-made error result for the caller to hand back.
func numericAt(snap *models.ResponseSnapshot, spec models.AssertionSpec, path string) (float64, *models.AssertionResult) {
	value, err := resolveBodyPath(snap, path)
	if err != nil {
		r := errorResult(spec, err.Error())
		return 0, &r
	}
	n, ok := asFloat(value)
	if !ok {
		r := errorResult(spec, fmt.Sprintf("value at path %q is not numeric", path))
		return 0, &r
	}
	return n, nil
}

// parsedBody returns the snapshot's parsed JSON body or an evaluation error
// when the body never parsed. This is the intended degrade path for JSON
// assertions against non-JSON responses.
func parsedBody(snap *models.ResponseSnapshot) (any, error) {
	if !snap.HasJSON {
		return nil, fmt.Errorf("response body is not valid JSON")
	}
	return snap.JSON, nil
}

func resolveBodyPath(snap *models.ResponseSnapshot, path string) (any, error) {
	body, err := parsedBody(snap)
	if err != nil {
		return nil, err
	}
	return resolvePath(body, path)
}

func errorResult(spec models.AssertionSpec, message string) models.AssertionResult {
	return models.AssertionResult{
		Spec:   spec,
		Passed: false,
		Error:  message,
	}
}

// asFloat coerces the numeric types that show up in decoded JSON and in
// hand-built snapshots.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// valuesEqual compares decoded JSON values, treating numerically equal
// values as equal regardless of their Go type.
func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
