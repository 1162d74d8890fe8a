// Package importer converts external API descriptions (Postman collections,
// OpenAPI documents) into test definitions. Its output is the input contract
// of the execution engine: methods upper-cased, urls resolved, assertions as
// typed variants.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/restprobe/restprobe/internal/models"
)

type postmanCollection struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Item []postmanItem `json:"item"`
}

// postmanItem is either a request or a folder of nested items.
type postmanItem struct {
	Name    string          `json:"name"`
	Item    []postmanItem   `json:"item,omitempty"`
	Request *postmanRequest `json:"request,omitempty"`
}

type postmanRequest struct {
	Method string          `json:"method"`
	Header []postmanHeader `json:"header,omitempty"`
	URL    postmanURL      `json:"url"`
	Body   *postmanBody    `json:"body,omitempty"`
}

type postmanHeader struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

type postmanBody struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw,omitempty"`
}

// postmanURL accepts both the v2.1 object form and the plain string form.
type postmanURL struct {
	Raw string
}

func (u *postmanURL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		u.Raw = s
		return nil
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	u.Raw = obj.Raw
	return nil
}

// FromPostmanFile reads and converts a Postman collection file.
func FromPostmanFile(path string) ([]models.TestDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	return FromPostman(data)
}

// FromPostman converts a Postman v2.x collection into test definitions,
// flattening nested folders. Every test gets a default 200 status assertion
// when the collection carries none of its own.
func FromPostman(data []byte) ([]models.TestDefinition, error) {
	var collection postmanCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse Postman collection: %w", err)
	}
	if len(collection.Item) == 0 {
		return nil, fmt.Errorf("collection %q contains no items", collection.Info.Name)
	}

	var defs []models.TestDefinition
	collectItems(collection.Item, "", &defs)
	return defs, nil
}

func collectItems(items []postmanItem, prefix string, defs *[]models.TestDefinition) {
	for _, item := range items {
		name := item.Name
		if prefix != "" {
			name = prefix + " / " + item.Name
		}
		if len(item.Item) > 0 {
			collectItems(item.Item, name, defs)
			continue
		}
		if item.Request == nil {
			continue
		}
		*defs = append(*defs, convertRequest(name, item.Request))
	}
}

func convertRequest(name string, req *postmanRequest) models.TestDefinition {
	def := models.TestDefinition{
		Name:   name,
		Method: req.Method,
		URL:    req.URL.Raw,
		Assertions: models.AssertionList{
			models.StatusCodeAssertion{Expected: 200},
		},
	}

	for _, h := range req.Header {
		if h.Disabled || h.Key == "" {
			continue
		}
		if def.Headers == nil {
			def.Headers = make(map[string]string)
		}
		def.Headers[h.Key] = h.Value
	}

	if req.Body != nil && req.Body.Mode == "raw" && strings.TrimSpace(req.Body.Raw) != "" {
		// A raw body that parses as JSON becomes structured so the executor
		// serializes it with the right content type.
		var parsed any
		if err := json.Unmarshal([]byte(req.Body.Raw), &parsed); err == nil {
			def.Body = parsed
		} else {
			def.Body = req.Body.Raw
		}
	}

	def.Normalize()
	return def
}
