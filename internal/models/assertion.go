package models

// AssertionKind identifies one assertion variant. The set is closed: a tag
// outside it decodes into UnknownAssertion and fails at evaluation time.
type AssertionKind string

const (
	KindStatusCode       AssertionKind = "status_code"
	KindResponseTime     AssertionKind = "response_time"
	KindJSONPath         AssertionKind = "json_path"
	KindJSONSchema       AssertionKind = "json_schema"
	KindHeader           AssertionKind = "header"
	KindContentType      AssertionKind = "content_type"
	KindBodyContains     AssertionKind = "body_contains"
	KindBodyNotContains  AssertionKind = "body_not_contains"
	KindRegexMatch       AssertionKind = "regex_match"
	KindArrayLength      AssertionKind = "array_length"
	KindValueEquals      AssertionKind = "value_equals"
	KindValueGreaterThan AssertionKind = "value_greater_than"
	KindValueLessThan    AssertionKind = "value_less_than"
	KindValueInRange     AssertionKind = "value_in_range"
)

// AssertionSpec is one declarative check against a response snapshot. Every
// variant carries everything needed to evaluate it on its own; there is no
// cross-assertion state.
type AssertionSpec interface {
	Kind() AssertionKind
}

// StatusCodeAssertion checks the HTTP status code for integer equality.
type StatusCodeAssertion struct {
	Expected int `json:"expected"`
}

func (StatusCodeAssertion) Kind() AssertionKind { return KindStatusCode }

// ResponseTimeAssertion checks that the response arrived within MaxMs
// milliseconds. The boundary is inclusive.
type ResponseTimeAssertion struct {
	MaxMs float64 `json:"max_ms"`
}

func (ResponseTimeAssertion) Kind() AssertionKind { return KindResponseTime }

// JSONPathAssertion resolves a dot separated path in the parsed body.
// When HasExpected is false the assertion is a pure existence check.
type JSONPathAssertion struct {
	Path        string `json:"path"`
	Expected    any    `json:"expected,omitempty"`
	HasExpected bool   `json:"-"`
}

func (JSONPathAssertion) Kind() AssertionKind { return KindJSONPath }

// Schema is the simplified structural schema accepted by JSONSchemaAssertion:
// a type name, required property names, and per-property type names.
type Schema struct {
	Type       string                    `json:"type,omitempty"`
	Required   []string                  `json:"required,omitempty"`
	Properties map[string]SchemaProperty `json:"properties,omitempty"`
}

// SchemaProperty declares the expected type of one object property.
type SchemaProperty struct {
	Type string `json:"type,omitempty"`
}

// JSONSchemaAssertion performs a minimal structural check of the parsed
// body, not full JSON Schema validation.
type JSONSchemaAssertion struct {
	Schema Schema `json:"schema"`
}

func (JSONSchemaAssertion) Kind() AssertionKind { return KindJSONSchema }

// HeaderAssertion checks a response header for exact equality. The name
// lookup is case-insensitive.
type HeaderAssertion struct {
	Name     string `json:"header"`
	Expected string `json:"expected"`
}

func (HeaderAssertion) Kind() AssertionKind { return KindHeader }

// ContentTypeAssertion checks the content-type header with any charset
// suffix stripped, case-insensitively.
type ContentTypeAssertion struct {
	Expected string `json:"expected"`
}

func (ContentTypeAssertion) Kind() AssertionKind { return KindContentType }

// BodyContainsAssertion checks for a substring in the raw body text.
type BodyContainsAssertion struct {
	Text string `json:"text"`
}

func (BodyContainsAssertion) Kind() AssertionKind { return KindBodyContains }

// BodyNotContainsAssertion checks that a substring is absent from the raw
// body text.
type BodyNotContainsAssertion struct {
	Text string `json:"text"`
}

func (BodyNotContainsAssertion) Kind() AssertionKind { return KindBodyNotContains }

// Regex targets.
const (
	RegexTargetBody    = "body"
	RegexTargetHeaders = "headers"
)

// RegexMatchAssertion searches (not full-matches) a pattern against the
// string form of the chosen target.
type RegexMatchAssertion struct {
	Pattern string `json:"pattern"`
	Target  string `json:"target,omitempty"`
}

func (RegexMatchAssertion) Kind() AssertionKind { return KindRegexMatch }

// ArrayLengthAssertion resolves a path (empty path means the body root) and
// checks the length of the array found there.
type ArrayLengthAssertion struct {
	Path     string `json:"path"`
	Expected int    `json:"expected"`
}

func (ArrayLengthAssertion) Kind() AssertionKind { return KindArrayLength }

// ValueEqualsAssertion resolves a path and compares the value for equality.
type ValueEqualsAssertion struct {
	Path     string `json:"path"`
	Expected any    `json:"expected"`
}

func (ValueEqualsAssertion) Kind() AssertionKind { return KindValueEquals }

// ValueGreaterThanAssertion resolves a path and requires a numeric value
// strictly above the threshold.
type ValueGreaterThanAssertion struct {
	Path      string  `json:"path"`
	Threshold float64 `json:"threshold"`
}

func (ValueGreaterThanAssertion) Kind() AssertionKind { return KindValueGreaterThan }

// ValueLessThanAssertion resolves a path and requires a numeric value
// strictly below the threshold.
type ValueLessThanAssertion struct {
	Path      string  `json:"path"`
	Threshold float64 `json:"threshold"`
}

func (ValueLessThanAssertion) Kind() AssertionKind { return KindValueLessThan }

// ValueInRangeAssertion resolves a path and requires a numeric value inside
// [Min, Max], boundaries included.
type ValueInRangeAssertion struct {
	Path string  `json:"path"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

func (ValueInRangeAssertion) Kind() AssertionKind { return KindValueInRange }

// UnknownAssertion preserves a tag outside the closed set so the evaluator
// can report it as an explicit failure instead of the decoder rejecting the
// whole test definition.
type UnknownAssertion struct {
	Type string `json:"type"`
}

func (a UnknownAssertion) Kind() AssertionKind { return AssertionKind(a.Type) }
