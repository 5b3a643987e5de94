package schema

import (
	"slices"
	"sort"
	"sync"
)

// FieldType pairs a field name with its expected kind.
type FieldType struct {
	Field string
	Type  TypeTag
}

// AllowedValues restricts a field to an enumerated set.
type AllowedValues struct {
	Field  string
	Values []string
}

// Descriptor describes one data type: its required fields, expected field
// kinds and enumerated values. Slices are ordered so that validation reports
// findings in a stable order.
type Descriptor struct {
	Name     string
	Required []string
	Types    []FieldType
	Allowed  []AllowedValues
}

func (d Descriptor) clone() Descriptor {
	out := Descriptor{
		Name:     d.Name,
		Required: slices.Clone(d.Required),
		Types:    slices.Clone(d.Types),
		Allowed:  make([]AllowedValues, 0, len(d.Allowed)),
	}
	for _, a := range d.Allowed {
		out.Allowed = append(out.Allowed, AllowedValues{Field: a.Field, Values: slices.Clone(a.Values)})
	}
	return out
}

// TypeOf returns the expected kind of field, if declared.
func (d Descriptor) TypeOf(field string) (TypeTag, bool) {
	for _, ft := range d.Types {
		if ft.Field == field {
			return ft.Type, true
		}
	}
	return "", false
}

// Registry is an immutable set of descriptors keyed by data type name.
type Registry struct {
	byName map[string]Descriptor
}

// NewRegistry builds a registry. A later descriptor with the same name
// replaces an earlier one.
func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{byName: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		r.byName[d.Name] = d.clone()
	}
	return r
}

// Lookup returns a copy of the named descriptor.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Names lists the registered data types in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Data type names of the built-in descriptors.
const (
	VMwareResource  = "vmware_resource"
	OperationResult = "operation_result"
	SessionData     = "session_data"
)

// Builtin returns the process-wide registry with the built-in descriptors.
var Builtin = sync.OnceValue(func() *Registry {
	return NewRegistry(
		Descriptor{
			Name:     VMwareResource,
			Required: []string{"resource_id", "resource_type", "resource_name", "resource_state"},
			Types: []FieldType{
				{"resource_id", TypeString},
				{"resource_type", TypeString},
				{"resource_name", TypeString},
				{"resource_state", TypeString},
				{"properties", TypeMapping},
				{"metadata", TypeMapping},
			},
			Allowed: []AllowedValues{
				{"resource_state", []string{"creating", "created", "updating", "updated", "deleting", "deleted", "error"}},
			},
		},
		Descriptor{
			Name:     OperationResult,
			Required: []string{"operation_id", "operation_type", "operation_name", "status", "start_time", "success"},
			Types: []FieldType{
				{"operation_id", TypeString},
				{"operation_type", TypeString},
				{"operation_name", TypeString},
				{"status", TypeString},
				{"success", TypeBool},
			},
			Allowed: []AllowedValues{
				{"status", []string{"pending", "running", "completed", "failed", "cancelled"}},
			},
		},
		Descriptor{
			Name:     SessionData,
			Required: []string{"session_id", "session_type", "session_name", "start_time", "operations"},
			Types: []FieldType{
				{"session_id", TypeString},
				{"session_type", TypeString},
				{"session_name", TypeString},
				{"operations", TypeSequence},
				{"total_operations", TypeInt},
				{"successful_operations", TypeInt},
				{"failed_operations", TypeInt},
			},
		},
	)
})
