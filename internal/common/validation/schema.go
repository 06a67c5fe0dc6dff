package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cardiochat/internal/catalog"
	stderrors "cardiochat/internal/common/errors"
)

// JSONSchema is the subset of JSON Schema generated for prediction requests.
type JSONSchema struct {
	Schema               string              `json:"$schema,omitempty"`
	Title                string              `json:"title,omitempty"`
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string        `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
	Minimum     *float64      `json:"minimum,omitempty"`
	Maximum     *float64      `json:"maximum,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	MinLength   *int          `json:"minLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const draft07 = "http://json-schema.org/draft-07/schema#"

// FromCatalog builds the request schema for c: an object carrying exactly the
// catalog keys, each constrained by its field kind.
func FromCatalog(c *catalog.Catalog) JSONSchema {
	schema := JSONSchema{
		Schema:     draft07,
		Title:      c.Name(),
		Type:       "object",
		Properties: make(map[string]Property, c.Len()),
		Required:   c.Keys(),
	}

	minText := 2
	for _, f := range c.Fields() {
		prop := Property{Description: f.Label}
		switch f.Kind {
		case catalog.KindText:
			prop.Type = "string"
			prop.MinLength = &minText
		case catalog.KindInteger:
			prop.Type = "integer"
			prop.Minimum, prop.Maximum = f.Min, f.Max
		case catalog.KindDecimal:
			prop.Type = "number"
			prop.Minimum, prop.Maximum = f.Min, f.Max
		case catalog.KindChoice:
			prop.Enum = make([]interface{}, len(f.Options))
			for i, opt := range f.Options {
				prop.Enum[i] = opt.Value
			}
		}
		schema.Properties[f.Key] = prop
	}
	return schema
}

// Map returns the schema as a generic document for gojsonschema.
func (s JSONSchema) Map() (map[string]interface{}, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return out, nil
}

// Validator checks documents against a compiled schema.
type Validator struct {
	schema   JSONSchema
	compiled *gojsonschema.Schema
}

func NewValidator(schema JSONSchema) (*Validator, error) {
	doc, err := schema.Map()
	if err != nil {
		return nil, err
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema, compiled: compiled}, nil
}

// NewCatalogValidator compiles the request schema of c.
func NewCatalogValidator(c *catalog.Catalog) (*Validator, error) {
	return NewValidator(FromCatalog(c))
}

func (v *Validator) Schema() JSONSchema { return v.schema }

// Validate checks document, which may be any value encoding to JSON.
func (v *Validator) Validate(document interface{}) (*ValidationResult, error) {
	data, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	result, err := v.compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out, nil
}

// Check is Validate folded into a single error: nil when document conforms,
// REQUEST_SCHEMA_VIOLATION listing every violation otherwise.
func (v *Validator) Check(document interface{}) error {
	result, err := v.Validate(document)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return stderrors.NewRequestSchemaError(result.GetErrorMessages())
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
