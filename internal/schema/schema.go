// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package schema reflects Go structs into JSON Schemas and validates JSON
// and YAML documents against them.
package schema

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// CodeInvalid is the error code for documents that fail validation.
const CodeInvalid = "SCHEMA_INVALID"

// Options control how a struct is reflected.
type Options struct {
	ID          string
	Title       string
	Description string

	// FieldNameTag names the struct tag used for property names. Empty
	// means "json".
	FieldNameTag string

	// AllowAdditional permits properties the struct does not declare.
	AllowAdditional bool

	// RequiredByTag makes only fields tagged jsonschema:"required"
	// required. Otherwise every field without omitempty is required.
	RequiredByTag bool
}

// Schema is a reflected and compiled JSON Schema.
type Schema struct {
	raw      []byte
	compiled *jschema.Schema
}

// Generate reflects v into a JSON Schema document.
func Generate(v any, opts Options) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		FieldNameTag:               opts.FieldNameTag,
		AllowAdditionalProperties:  opts.AllowAdditional,
		RequiredFromJSONSchemaTags: opts.RequiredByTag,
	}
	s := r.Reflect(v)

	if opts.ID != "" {
		s.ID = jsonschema.ID(opts.ID)
	}
	s.Title = opts.Title
	s.Description = opts.Description

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, oops.With("operation", "marshal schema").Wrap(err)
	}
	return data, nil
}

// New reflects v and compiles the result for validation.
func New(v any, opts Options) (*Schema, error) {
	raw, err := Generate(v, opts)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, oops.With("operation", "parse schema").Wrap(err)
	}

	url := "schema.json"
	if opts.ID != "" {
		url = opts.ID
	}
	c := jschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, oops.With("operation", "add schema resource").Wrap(err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, oops.With("operation", "compile schema").Wrap(err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// JSON returns the schema document.
func (s *Schema) JSON() []byte {
	return s.raw
}

// ValidateJSON validates a JSON document.
func (s *Schema) ValidateJSON(data []byte) error {
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return oops.Code(CodeInvalid).With("reason", "invalid JSON").Wrap(err)
	}
	return s.validate(doc)
}

// ValidateYAML validates a YAML document. An empty document is valid.
func (s *Schema) ValidateYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code(CodeInvalid).With("reason", "invalid YAML").Wrap(err)
	}
	if doc == nil {
		return nil
	}
	return s.validate(toJSONTypes(doc))
}

func (s *Schema) validate(doc any) error {
	if err := s.compiled.Validate(doc); err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "schema validation failed")
	}
	return nil
}

// toJSONTypes converts YAML-parsed data to JSON-compatible types.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = toJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = toJSONTypes(v)
		}
		return result
	case string, int, int64, float64, bool, nil:
		return val
	default:
		// Timestamps and other YAML scalars go through a JSON round-trip.
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}

// FormatError formats a validation error for display.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), "schema validation failed: ")
}
