package importer

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/restprobe/restprobe/internal/models"
)

// defaultResponseTimeMs is the response-time ceiling attached to every
// generated test.
const defaultResponseTimeMs = 5000

// OpenAPIImporter generates test definitions from an OpenAPI 3 document:
// one test per operation, with synthesized parameter values and a default
// assertion set derived from the declared responses.
type OpenAPIImporter struct {
	document libopenapi.Document
	values   *valueGenerator
}

// FromOpenAPIFile reads an OpenAPI document from disk.
func FromOpenAPIFile(path string) (*OpenAPIImporter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
	}
	return FromOpenAPI(data)
}

// FromOpenAPI parses an OpenAPI document from raw bytes (JSON or YAML).
func FromOpenAPI(data []byte) (*OpenAPIImporter, error) {
	document, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return &OpenAPIImporter{document: document, values: newValueGenerator()}, nil
}

// ServerURL returns the first server URL declared by the document, falling
// back to localhost when none is declared.
func (imp *OpenAPIImporter) ServerURL() (string, error) {
	model, errs := imp.document.BuildV3Model()
	if errs != nil {
		return "", fmt.Errorf("failed to build v3 model: %v", errs)
	}
	for _, server := range model.Model.Servers {
		if server != nil && server.URL != "" {
			return server.URL, nil
		}
	}
	return "http://localhost", nil
}

// Definitions generates one test definition per operation, resolved against
// baseURL (the document's own server URL when baseURL is empty). Output is
// ordered by path, then method, so repeated imports are stable.
func (imp *OpenAPIImporter) Definitions(baseURL string) ([]models.TestDefinition, error) {
	if baseURL == "" {
		serverURL, err := imp.ServerURL()
		if err != nil {
			return nil, err
		}
		baseURL = serverURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model, errs := imp.document.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("failed to build v3 model: %v", errs)
	}

	paths := model.Model.Paths
	if paths == nil || paths.PathItems == nil {
		return nil, nil
	}

	var defs []models.TestDefinition
	for pair := paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()
		if item == nil {
			continue
		}
		for method, op := range operationsOf(item) {
			if op == nil {
				continue
			}
			def, err := imp.buildDefinition(baseURL, path, method, op)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			defs = append(defs, def)
		}
	}

	sort.Slice(defs, func(i, j int) bool {
		if defs[i].URL != defs[j].URL {
			return defs[i].URL < defs[j].URL
		}
		return defs[i].Method < defs[j].Method
	})
	return defs, nil
}

func operationsOf(item *v3.PathItem) map[string]*v3.Operation {
	return map[string]*v3.Operation{
		"GET":     item.Get,
		"POST":    item.Post,
		"PUT":     item.Put,
		"PATCH":   item.Patch,
		"DELETE":  item.Delete,
		"HEAD":    item.Head,
		"OPTIONS": item.Options,
	}
}

func (imp *OpenAPIImporter) buildDefinition(baseURL, path, method string, op *v3.Operation) (models.TestDefinition, error) {
	fullPath := path
	query := url.Values{}
	headers := map[string]string{}

	for _, param := range op.Parameters {
		if param == nil {
			continue
		}
		value := imp.values.parameterValue(param)
		switch param.In {
		case "path":
			fullPath = strings.ReplaceAll(fullPath, "{"+param.Name+"}", value)
		case "query":
			query.Add(param.Name, value)
		case "header":
			headers[param.Name] = value
		}
	}

	fullURL := baseURL + fullPath
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	name := op.OperationId
	if name == "" {
		name = fmt.Sprintf("%s %s", method, path)
	}

	def := models.TestDefinition{
		Name:       name,
		Method:     method,
		URL:        fullURL,
		Tags:       append([]string(nil), op.Tags...),
		Assertions: defaultAssertions(op),
	}
	if len(headers) > 0 {
		def.Headers = headers
	}

	if op.RequestBody != nil && methodCarriesBody(method) {
		body, err := imp.values.requestBody(op.RequestBody)
		if err != nil {
			return models.TestDefinition{}, err
		}
		def.Body = body
	}

	def.Normalize()
	return def, nil
}

func methodCarriesBody(method string) bool {
	return method == "POST" || method == "PUT" || method == "PATCH"
}

// defaultAssertions derives the generated test's assertion set: the first
// declared 2xx status (200 when the document declares none), a response-time
// ceiling, and a content-type check when the success response is JSON.
func defaultAssertions(op *v3.Operation) models.AssertionList {
	expectedStatus := 200
	declaresJSON := false

	if op.Responses != nil && op.Responses.Codes != nil {
		var codes []int
		for pair := op.Responses.Codes.First(); pair != nil; pair = pair.Next() {
			code, err := strconv.Atoi(pair.Key())
			if err != nil || code < 200 || code > 299 {
				continue
			}
			codes = append(codes, code)
			if response := pair.Value(); response != nil && response.Content != nil {
				for content := response.Content.First(); content != nil; content = content.Next() {
					if strings.Contains(content.Key(), "json") {
						declaresJSON = true
					}
				}
			}
		}
		if len(codes) > 0 {
			sort.Ints(codes)
			expectedStatus = codes[0]
		}
	}

	assertions := models.AssertionList{
		models.StatusCodeAssertion{Expected: expectedStatus},
		models.ResponseTimeAssertion{MaxMs: defaultResponseTimeMs},
	}
	if declaresJSON {
		assertions = append(assertions, models.ContentTypeAssertion{Expected: "application/json"})
	}
	return assertions
}
