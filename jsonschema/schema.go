// Package jsonschema projects schema descriptors into JSON Schema documents
// for export.
package jsonschema

import (
	"github.com/vmprov/dataopt/schema"
)

// Draft is the dialect written into $schema.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	Dialect string `json:"$schema,omitempty"`
	Title   string `json:"title,omitempty"`

	// Core
	Type   string   `json:"type,omitempty"`
	Format string   `json:"format,omitempty"`
	Enum   []string `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
}

// FromDescriptor builds the document for one data type. Extra fields are
// allowed since validation ignores them.
func FromDescriptor(d schema.Descriptor) *Schema {
	s := &Schema{
		Dialect:              Draft,
		Title:                d.Name,
		Type:                 "object",
		Properties:           map[string]*Schema{},
		Required:             append([]string(nil), d.Required...),
		AdditionalProperties: true,
	}
	for _, field := range d.Required {
		s.Properties[field] = &Schema{}
	}
	for _, ft := range d.Types {
		s.Properties[ft.Field] = ForType(ft.Type)
	}
	for _, av := range d.Allowed {
		p, ok := s.Properties[av.Field]
		if !ok {
			p = &Schema{}
			s.Properties[av.Field] = p
		}
		p.Enum = append([]string(nil), av.Values...)
	}
	return s
}

// ForType maps a type tag to its JSON Schema type.
func ForType(t schema.TypeTag) *Schema {
	switch t {
	case schema.TypeString:
		return &Schema{Type: "string"}
	case schema.TypeInt:
		return &Schema{Type: "integer"}
	case schema.TypeFloat:
		return &Schema{Type: "number"}
	case schema.TypeBool:
		return &Schema{Type: "boolean"}
	case schema.TypeMapping:
		return &Schema{Type: "object"}
	case schema.TypeSequence:
		return &Schema{Type: "array"}
	case schema.TypeNull:
		return &Schema{Type: "null"}
	case schema.TypeTime:
		return &Schema{Type: "string", Format: "date-time"}
	}
	return &Schema{}
}
