package models

import (
	"encoding/json"
	"fmt"
)

// AssertionList is an ordered sequence of assertion specs with a tagged JSON
// representation: every element is an object carrying a "type" field next to
// the variant's own fields.
type AssertionList []AssertionSpec

// assertionEnvelope is the union of all variant fields. Pointers distinguish
// absent fields from zero values (JSONPathAssertion needs to know whether
// "expected" was present at all).
type assertionEnvelope struct {
	Type      string          `json:"type"`
	Expected  json.RawMessage `json:"expected,omitempty"`
	MaxMs     *float64        `json:"max_ms,omitempty"`
	Path      *string         `json:"path,omitempty"`
	Schema    *Schema         `json:"schema,omitempty"`
	Header    *string         `json:"header,omitempty"`
	Text      *string         `json:"text,omitempty"`
	Pattern   *string         `json:"pattern,omitempty"`
	Target    *string         `json:"target,omitempty"`
	Threshold *float64        `json:"threshold,omitempty"`
	Min       *float64        `json:"min,omitempty"`
	Max       *float64        `json:"max,omitempty"`
}

func (e *assertionEnvelope) str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (e *assertionEnvelope) num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (e *assertionEnvelope) expectedValue() (any, bool, error) {
	if e.Expected == nil {
		return nil, false, nil
	}
	var v any
	if err := json.Unmarshal(e.Expected, &v); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (e *assertionEnvelope) expectedInt() (int, error) {
	if e.Expected == nil {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(e.Expected, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// decodeAssertion turns one envelope into its typed variant.
func decodeAssertion(e assertionEnvelope) (AssertionSpec, error) {
	switch AssertionKind(e.Type) {
	case KindStatusCode:
		n, err := e.expectedInt()
		if err != nil {
			return nil, fmt.Errorf("status_code assertion: %w", err)
		}
		if e.Expected == nil {
			n = 200
		}
		return StatusCodeAssertion{Expected: n}, nil
	case KindResponseTime:
		return ResponseTimeAssertion{MaxMs: e.num(e.MaxMs)}, nil
	case KindJSONPath:
		v, ok, err := e.expectedValue()
		if err != nil {
			return nil, fmt.Errorf("json_path assertion: %w", err)
		}
		return JSONPathAssertion{Path: e.str(e.Path), Expected: v, HasExpected: ok}, nil
	case KindJSONSchema:
		var s Schema
		if e.Schema != nil {
			s = *e.Schema
		}
		return JSONSchemaAssertion{Schema: s}, nil
	case KindHeader:
		v, _, err := e.expectedValue()
		if err != nil {
			return nil, fmt.Errorf("header assertion: %w", err)
		}
		expected, _ := v.(string)
		return HeaderAssertion{Name: e.str(e.Header), Expected: expected}, nil
	case KindContentType:
		v, _, err := e.expectedValue()
		if err != nil {
			return nil, fmt.Errorf("content_type assertion: %w", err)
		}
		expected, _ := v.(string)
		return ContentTypeAssertion{Expected: expected}, nil
	case KindBodyContains:
		return BodyContainsAssertion{Text: e.str(e.Text)}, nil
	case KindBodyNotContains:
		return BodyNotContainsAssertion{Text: e.str(e.Text)}, nil
	case KindRegexMatch:
		target := e.str(e.Target)
		if target == "" {
			target = RegexTargetBody
		}
		return RegexMatchAssertion{Pattern: e.str(e.Pattern), Target: target}, nil
	case KindArrayLength:
		n, err := e.expectedInt()
		if err != nil {
			return nil, fmt.Errorf("array_length assertion: %w", err)
		}
		return ArrayLengthAssertion{Path: e.str(e.Path), Expected: n}, nil
	case KindValueEquals:
		v, _, err := e.expectedValue()
		if err != nil {
			return nil, fmt.Errorf("value_equals assertion: %w", err)
		}
		return ValueEqualsAssertion{Path: e.str(e.Path), Expected: v}, nil
	case KindValueGreaterThan:
		return ValueGreaterThanAssertion{Path: e.str(e.Path), Threshold: e.num(e.Threshold)}, nil
	case KindValueLessThan:
		return ValueLessThanAssertion{Path: e.str(e.Path), Threshold: e.num(e.Threshold)}, nil
	case KindValueInRange:
		return ValueInRangeAssertion{Path: e.str(e.Path), Min: e.num(e.Min), Max: e.num(e.Max)}, nil
	default:
		return UnknownAssertion{Type: e.Type}, nil
	}
}

// encodeAssertion turns a typed variant back into its envelope.
func encodeAssertion(spec AssertionSpec) (assertionEnvelope, error) {
	e := assertionEnvelope{Type: string(spec.Kind())}

	setExpected := func(v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		e.Expected = raw
		return nil
	}

	switch a := spec.(type) {
	case StatusCodeAssertion:
		return e, setExpected(a.Expected)
	case ResponseTimeAssertion:
		e.MaxMs = &a.MaxMs
	case JSONPathAssertion:
		e.Path = &a.Path
		if a.HasExpected {
			return e, setExpected(a.Expected)
		}
	case JSONSchemaAssertion:
		s := a.Schema
		e.Schema = &s
	case HeaderAssertion:
		e.Header = &a.Name
		return e, setExpected(a.Expected)
	case ContentTypeAssertion:
		return e, setExpected(a.Expected)
	case BodyContainsAssertion:
		e.Text = &a.Text
	case BodyNotContainsAssertion:
		e.Text = &a.Text
	case RegexMatchAssertion:
		e.Pattern = &a.Pattern
		if a.Target != "" {
			e.Target = &a.Target
		}
	case ArrayLengthAssertion:
		e.Path = &a.Path
		return e, setExpected(a.Expected)
	case ValueEqualsAssertion:
		e.Path = &a.Path
		return e, setExpected(a.Expected)
	case ValueGreaterThanAssertion:
		e.Path = &a.Path
		e.Threshold = &a.Threshold
	case ValueLessThanAssertion:
		e.Path = &a.Path
		e.Threshold = &a.Threshold
	case ValueInRangeAssertion:
		e.Path = &a.Path
		e.Min = &a.Min
		e.Max = &a.Max
	case UnknownAssertion:
		// Nothing beyond the tag survives the round trip.
	default:
		return e, fmt.Errorf("unencodable assertion spec %T", spec)
	}
	return e, nil
}

// MarshalAssertion renders a single spec in the tagged object form.
func MarshalAssertion(spec AssertionSpec) ([]byte, error) {
	e, err := encodeAssertion(spec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func (l AssertionList) MarshalJSON() ([]byte, error) {
	envelopes := make([]assertionEnvelope, 0, len(l))
	for _, spec := range l {
		e, err := encodeAssertion(spec)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, e)
	}
	return json.Marshal(envelopes)
}

func (l *AssertionList) UnmarshalJSON(data []byte) error {
	var envelopes []assertionEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	specs := make(AssertionList, 0, len(envelopes))
	for i, e := range envelopes {
		spec, err := decodeAssertion(e)
		if err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	*l = specs
	return nil
}
