package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmprov/dataopt/schema"
)

func TestValidate_ReportsAllViolations(t *testing.T) {
	rec := map[string]any{
		"resource_type":  "vm",
		"resource_name":  "n",
		"resource_state": "bogus",
	}
	out := schema.Validate(rec, schema.VMwareResource)

	assert.False(t, out.Valid)
	assert.Equal(t, []string{
		"Missing required field: resource_id",
		"Invalid resource state: bogus",
	}, out.Errors)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, schema.CodeRequired, out.Issues[0].Code)
	assert.Equal(t, "/resource_id", out.Issues[0].Path)
	assert.Equal(t, schema.CodeInvalidEnum, out.Issues[1].Code)
	assert.Error(t, out.Err())
}

func TestValidate_UnknownType(t *testing.T) {
	out := schema.Validate(map[string]any{}, "disk_image")
	assert.False(t, out.Valid)
	assert.Equal(t, []string{"Unknown data type: disk_image"}, out.Errors)
	assert.Equal(t, schema.CodeUnknownType, out.Issues[0].Code)
}

func TestValidate_NonMappingSkipsFieldChecks(t *testing.T) {
	for _, rec := range []any{"plain text", []any{1, 2}, 42, nil} {
		out := schema.Validate(rec, schema.OperationResult)
		assert.True(t, out.Valid, "record %#v", rec)
		assert.Empty(t, out.Errors)
		assert.NoError(t, out.Err())
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	rec := map[string]any{
		"operation_id":   "op-1",
		"operation_type": "vm_creation",
		"operation_name": "Create",
		"status":         "completed",
		"start_time":     "2024-01-15T10:00:00Z",
		"success":        "yes",
	}
	out := schema.Validate(rec, schema.OperationResult)
	assert.False(t, out.Valid)
	assert.Equal(t, []string{"Invalid type for field success: expected bool, got string"}, out.Errors)
	assert.Equal(t, map[string]string{"field": "success", "expected": "bool", "got": "string"}, out.Issues[0].Params)
}

func TestValidate_InvalidStatus(t *testing.T) {
	rec := map[string]any{
		"operation_id":   "op-1",
		"operation_type": "t",
		"operation_name": "n",
		"status":         "paused",
		"start_time":     "x",
		"success":        true,
	}
	out := schema.Validate(rec, schema.OperationResult)
	assert.Equal(t, []string{"Invalid status: paused"}, out.Errors)
}

func TestValidate_SessionData(t *testing.T) {
	t.Run("Should accept a well-formed session", func(t *testing.T) {
		rec := map[string]any{
			"session_id":            "s-1",
			"session_type":          "vm_provisioning",
			"session_name":          "deploy",
			"start_time":            "2024-01-15T09:00:00Z",
			"operations":            []any{},
			"total_operations":      int64(0),
			"successful_operations": 0,
			"failed_operations":     uint8(0),
		}
		out := schema.Validate(rec, schema.SessionData)
		assert.True(t, out.Valid, out.Errors)
	})

	t.Run("Should reject float counters and non-sequence operations", func(t *testing.T) {
		rec := map[string]any{
			"session_id":       "s-1",
			"session_type":     "t",
			"session_name":     "n",
			"start_time":       "x",
			"operations":       "none",
			"total_operations": 1.5,
		}
		out := schema.Validate(rec, schema.SessionData)
		assert.Equal(t, []string{
			"Invalid type for field operations: expected sequence, got string",
			"Invalid type for field total_operations: expected int, got float",
		}, out.Errors)
	})

	t.Run("Should reject booleans in int counters", func(t *testing.T) {
		rec := map[string]any{
			"session_id":        "s-1",
			"session_type":      "t",
			"session_name":      "n",
			"start_time":        "x",
			"operations":        []any{},
			"failed_operations": true,
		}
		out := schema.Validate(rec, schema.SessionData)
		assert.Equal(t, []string{"Invalid type for field failed_operations: expected int, got bool"}, out.Errors)
	})
}

func TestValidate_DoesNotMutate(t *testing.T) {
	rec := map[string]any{"resource_state": "bogus"}
	_ = schema.Validate(rec, schema.VMwareResource)
	assert.Equal(t, map[string]any{"resource_state": "bogus"}, rec)
}

func TestValidate_AcceptsYAMLStyleMaps(t *testing.T) {
	rec := map[any]any{
		"resource_id":    "r-1",
		"resource_type":  "vm",
		"resource_name":  "n",
		"resource_state": "created",
		"properties":     map[any]any{"cpu": 2},
	}
	out := schema.Validate(rec, schema.VMwareResource)
	assert.True(t, out.Valid, out.Errors)
}

func TestRegistry(t *testing.T) {
	reg := schema.Builtin()
	assert.Equal(t, []string{"operation_result", "session_data", "vmware_resource"}, reg.Names())

	d, ok := reg.Lookup(schema.VMwareResource)
	require.True(t, ok)
	d.Required[0] = "mutated"

	again, _ := reg.Lookup(schema.VMwareResource)
	assert.Equal(t, "resource_id", again.Required[0])

	tag, ok := again.TypeOf("properties")
	assert.True(t, ok)
	assert.Equal(t, schema.TypeMapping, tag)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestCustomRegistry(t *testing.T) {
	reg := schema.NewRegistry(schema.Descriptor{
		Name:     "disk",
		Required: []string{"size_gb"},
		Types:    []schema.FieldType{{Field: "size_gb", Type: schema.TypeInt}},
		Allowed:  []schema.AllowedValues{{Field: "tier", Values: []string{"gold", "silver"}}},
	})
	out := reg.Validate(map[string]any{"size_gb": "ten", "tier": "bronze"}, "disk")
	assert.Equal(t, []string{
		"Invalid type for field size_gb: expected int, got string",
		"Invalid value for field tier: bronze",
	}, out.Errors)
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		in   any
		want schema.TypeTag
	}{
		{nil, schema.TypeNull},
		{"s", schema.TypeString},
		{true, schema.TypeBool},
		{7, schema.TypeInt},
		{int64(7), schema.TypeInt},
		{7.5, schema.TypeFloat},
		{map[string]any{}, schema.TypeMapping},
		{map[string]int{}, schema.TypeMapping},
		{[]any{}, schema.TypeSequence},
		{[]string{"a"}, schema.TypeSequence},
		{[]byte("raw"), schema.TypeString},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, schema.KindOf(c.in), "value %#v", c.in)
	}
}

func TestPointerAndIssues(t *testing.T) {
	assert.Equal(t, "/", schema.Pointer())
	assert.Equal(t, "/a~1b/0/c~0d", schema.Pointer("a/b", 0, "c~d"))

	iss := schema.Issues{
		{Path: "/a", Code: schema.CodeRequired},
		{Path: "/b", Code: schema.CodeRequired},
		{Path: "/c", Code: schema.CodeInvalidType},
		{Path: "/d", Code: schema.CodeInvalidEnum},
	}
	assert.Equal(t, "required at /a; required at /b; invalid_type at /c; ... (total 4)", iss.Error())

	got, ok := schema.AsIssues(iss)
	assert.True(t, ok)
	assert.Len(t, got, 4)
}
