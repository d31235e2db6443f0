// Package jsonschema validates decoded documents against a JSON Schema.
package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is one schema failure at a location in the document.
type Violation struct {
	// Location is a JSON pointer into the document, "" for the root.
	Location string
	Message  string
}

func (v Violation) Error() string {
	loc := v.Location
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, v.Message)
}

// Violations is a list of schema failures.
type Violations []Violation

// Error implements the error interface for Violations
func (vs Violations) Error() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Error()
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile compiles a schema document. name identifies the schema in error
// messages.
func Compile(name, schema string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(name, schema string) *Schema {
	s, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateValue validates a decoded document. The document must use JSON
// types (map[string]interface{}, []interface{}, float64, string, bool, nil).
// Only leaf failures are reported.
func (s *Schema) ValidateValue(doc interface{}) Violations {
	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return Violations{{Message: err.Error()}}
	}
	return leaves(ve)
}

// Validate validates a JSON document.
func (s *Schema) Validate(doc []byte) (Violations, error) {
	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return s.ValidateValue(v), nil
}

// leaves flattens a validation error tree to its leaf causes.
func leaves(err *jsonschema.ValidationError) Violations {
	if len(err.Causes) == 0 {
		return Violations{{Location: err.InstanceLocation, Message: err.Message}}
	}

	var out Violations
	for _, cause := range err.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}
