package importer

import (
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// valueGenerator synthesizes request values from OpenAPI schemas. Output is
// deterministic so repeated imports of the same document produce the same
// test definitions.
type valueGenerator struct{}

func newValueGenerator() *valueGenerator {
	return &valueGenerator{}
}

// parameterValue synthesizes a string value for a path, query, or header
// parameter.
func (g *valueGenerator) parameterValue(param *v3.Parameter) string {
	if param.Schema != nil {
		if schema := param.Schema.Schema(); schema != nil {
			return fmt.Sprintf("%v", g.value(schema, 0))
		}
	}
	return "test"
}

// requestBody synthesizes a structured body from the request body's JSON
// media type (or the first media type when no JSON one is declared).
func (g *valueGenerator) requestBody(body *v3.RequestBody) (any, error) {
	if body.Content == nil || body.Content.Len() == 0 {
		return nil, fmt.Errorf("no content defined in request body")
	}

	var schema *base.Schema
	for pair := body.Content.First(); pair != nil; pair = pair.Next() {
		if strings.Contains(pair.Key(), "json") && pair.Value().Schema != nil {
			schema = pair.Value().Schema.Schema()
			break
		}
	}
	if schema == nil {
		if first := body.Content.First(); first.Value().Schema != nil {
			schema = first.Value().Schema.Schema()
		}
	}
	if schema == nil {
		return map[string]any{}, nil
	}
	return g.value(schema, 0), nil
}

// value synthesizes a test value for a schema. Depth bounds recursion
// through self-referential schemas.
func (g *valueGenerator) value(schema *base.Schema, depth int) any {
	if schema == nil || depth > 5 {
		return nil
	}

	if len(schema.Enum) > 0 && schema.Enum[0] != nil {
		return schema.Enum[0].Value
	}

	var schemaType string
	if len(schema.Type) > 0 {
		schemaType = schema.Type[0]
	}

	switch schemaType {
	case "string":
		return g.stringValue(schema)
	case "integer":
		return g.intValue(schema)
	case "number":
		return g.numberValue(schema)
	case "boolean":
		return true
	case "array":
		return g.arrayValue(schema, depth)
	case "object":
		return g.objectValue(schema, depth)
	}

	if schema.Format != "" {
		return formatValue(schema.Format)
	}
	return "test-value"
}

func (g *valueGenerator) stringValue(schema *base.Schema) string {
	if schema.Format != "" {
		if s, ok := formatValue(schema.Format).(string); ok {
			return s
		}
	}
	length := 5
	if schema.MinLength != nil && int(*schema.MinLength) > length {
		length = int(*schema.MinLength)
	}
	if schema.MaxLength != nil && int(*schema.MaxLength) < length {
		length = int(*schema.MaxLength)
	}
	if length <= 0 {
		return ""
	}
	return strings.Repeat("a", length)
}

func (g *valueGenerator) intValue(schema *base.Schema) int {
	value := 1
	if schema.Minimum != nil && int(*schema.Minimum) > value {
		value = int(*schema.Minimum)
	}
	if schema.Maximum != nil && int(*schema.Maximum) < value {
		value = int(*schema.Maximum)
	}
	return value
}

func (g *valueGenerator) numberValue(schema *base.Schema) float64 {
	value := 1.0
	if schema.Minimum != nil && *schema.Minimum > value {
		value = *schema.Minimum
	}
	if schema.Maximum != nil && *schema.Maximum < value {
		value = *schema.Maximum
	}
	return value
}

func (g *valueGenerator) arrayValue(schema *base.Schema, depth int) []any {
	if schema.Items != nil && schema.Items.IsA() && schema.Items.A != nil {
		if itemSchema := schema.Items.A.Schema(); itemSchema != nil {
			return []any{g.value(itemSchema, depth+1)}
		}
	}
	return []any{"item"}
}

func (g *valueGenerator) objectValue(schema *base.Schema, depth int) map[string]any {
	result := make(map[string]any)
	if schema.Properties == nil {
		return result
	}
	for pair := schema.Properties.First(); pair != nil; pair = pair.Next() {
		if propSchema := pair.Value().Schema(); propSchema != nil {
			result[pair.Key()] = g.value(propSchema, depth+1)
		}
	}
	return result
}

func formatValue(format string) any {
	switch format {
	case "date":
		return "2024-01-01"
	case "date-time":
		return "2024-01-01T00:00:00Z"
	case "email":
		return "test@example.com"
	case "uri":
		return "https://example.com"
	case "uuid":
		return "123e4567-e89b-12d3-a456-426614174000"
	case "int32", "int64":
		return 1
	case "float", "double":
		return 1.0
	default:
		return "test-value"
	}
}
