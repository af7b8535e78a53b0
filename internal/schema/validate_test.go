package schema

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateFields_TypeCoercionClosure(t *testing.T) {
	inputs := []any{
		map[string]any{"label": "A", "type": "text"},
		map[string]any{"label": "B", "type": "email"},
		map[string]any{"label": "C", "type": "dropdown"},
		map[string]any{"label": "D", "type": 42},
		map[string]any{"label": "E"},
		map[string]any{"label": "F", "type": "SELECT"},
		map[string]any{"label": "G", "type": "radio-with-other"},
	}

	fields := ValidateFields(inputs, DefaultValidateOptions())
	if len(fields) != len(inputs) {
		t.Fatalf("got %d fields, want %d", len(fields), len(inputs))
	}
	for _, f := range fields {
		if !IsValidFieldType(f.Type) {
			t.Errorf("field %q has type %q outside the allow-list", f.Label, f.Type)
		}
	}

	if fields[2].Type != FieldTypeText {
		t.Errorf("unknown type should coerce to text, got %q", fields[2].Type)
	}
	if fields[3].Type != FieldTypeText {
		t.Errorf("numeric type should coerce to text, got %q", fields[3].Type)
	}
	if fields[5].Type != FieldTypeSelect {
		t.Errorf("type should be case-insensitive, got %q", fields[5].Type)
	}
	if fields[6].Type != FieldTypeRadioWithOther {
		t.Errorf("with-other type should survive, got %q", fields[6].Type)
	}
}

func TestValidateFields_ConfidenceClamp(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"missing", nil, 0.8},
		{"non-numeric", "high", 0.8},
		{"in range", 0.55, 0.55},
		{"above one", 3.2, 1.0},
		{"negative", -0.4, 0.0},
		{"integer-ish", float64(1), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := map[string]any{"label": "X", "type": "text"}
			if tt.value != nil {
				in["confidence"] = tt.value
			}
			fields := ValidateFields([]any{in}, DefaultValidateOptions())
			if len(fields) != 1 {
				t.Fatalf("got %d fields, want 1", len(fields))
			}
			if fields[0].Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", fields[0].Confidence, tt.want)
			}
		})
	}
}

func TestValidateFields_LabelPresence(t *testing.T) {
	inputs := []any{
		map[string]any{"label": "Keep", "type": "text"},
		map[string]any{"type": "text"},                  // no label at all
		map[string]any{"label": "", "type": "text"},     // empty
		map[string]any{"label": "   ", "type": "text"},  // whitespace only
		map[string]any{"label": 7, "type": "text"},      // non-string
		"not an object",
		nil,
		map[string]any{},                                // neither label nor type
		map[string]any{"label": "  Trimmed  ", "type": "text"},
	}

	fields := ValidateFields(inputs, DefaultValidateOptions())
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2: %#v", len(fields), fields)
	}
	if fields[0].Label != "Keep" {
		t.Errorf("first label = %q", fields[0].Label)
	}
	if fields[1].Label != "Trimmed" {
		t.Errorf("label should be trimmed, got %q", fields[1].Label)
	}
	if len(fields) > len(inputs) {
		t.Error("output longer than input")
	}
}

func TestValidateFields_OptionsSanitization(t *testing.T) {
	in := map[string]any{
		"label":   "Color",
		"type":    "select",
		"options": []any{" Red ", "", "Blue", "   ", "Green"},
	}
	fields := ValidateFields([]any{in}, DefaultValidateOptions())
	if len(fields) != 1 {
		t.Fatalf("got %d fields", len(fields))
	}

	want := []string{"Red", "Blue", "Green"}
	if !reflect.DeepEqual(fields[0].Options, want) {
		t.Fatalf("options = %#v, want %#v", fields[0].Options, want)
	}

	// Idempotence: a second pass over the sanitized list changes nothing.
	again := make([]any, len(fields[0].Options))
	for i, o := range fields[0].Options {
		again[i] = o
	}
	second := sanitizeOptions(again)
	if !reflect.DeepEqual(second, want) {
		t.Fatalf("second pass = %#v, want %#v", second, want)
	}
}

func TestValidateFields_EmptyOptionsTreatedAsAbsent(t *testing.T) {
	cases := []any{
		map[string]any{"label": "A", "type": "select", "options": []any{}},
		map[string]any{"label": "B", "type": "select", "options": []any{"", "  "}},
		map[string]any{"label": "C", "type": "select", "options": "not a list"},
		map[string]any{"label": "D", "type": "text"},
	}
	fields := ValidateFields(cases, DefaultValidateOptions())
	for _, f := range fields {
		if f.Options != nil {
			t.Errorf("field %q: options should be absent, got %#v", f.Label, f.Options)
		}
	}
}

func TestValidateFields_Defaults(t *testing.T) {
	in := map[string]any{"label": "Name", "type": "text"}
	fields := ValidateFields([]any{in}, DefaultValidateOptions())
	f := fields[0]

	if f.Required {
		t.Error("required should default to false")
	}
	if f.Confidence != 0.8 {
		t.Errorf("confidence default = %v, want 0.8", f.Confidence)
	}
	if f.ID == "" {
		t.Error("missing id should be generated")
	}
	if f.Placeholder != "" {
		t.Errorf("placeholder should be absent, got %q", f.Placeholder)
	}
	if f.PageNumber != 0 {
		t.Errorf("page number should be unset without DefaultPage, got %d", f.PageNumber)
	}
}

func TestValidateFields_RequiredNonBoolean(t *testing.T) {
	for _, v := range []any{"yes", 1, []any{}} {
		in := map[string]any{"label": "X", "type": "text", "required": v}
		fields := ValidateFields([]any{in}, DefaultValidateOptions())
		if fields[0].Required {
			t.Errorf("required=%#v should default to false", v)
		}
	}
}

func TestValidateFields_PageNumber(t *testing.T) {
	opts := DefaultValidateOptions()
	opts.DefaultPage = 1

	inputs := []any{
		map[string]any{"label": "A", "type": "text", "pageNumber": float64(3)},
		map[string]any{"label": "B", "type": "text"},
		map[string]any{"label": "C", "type": "text", "pageNumber": float64(0)},
		map[string]any{"label": "D", "type": "text", "pageNumber": "two"},
	}
	fields := ValidateFields(inputs, opts)

	wantPages := []int{3, 1, 1, 1}
	for i, f := range fields {
		if f.PageNumber != wantPages[i] {
			t.Errorf("field %q page = %d, want %d", f.Label, f.PageNumber, wantPages[i])
		}
	}
}

func TestValidateFields_WithOtherAttributes(t *testing.T) {
	// Permissive on purpose: with-other attributes survive on any type.
	in := map[string]any{
		"label":            "Plain",
		"type":             "text",
		"allowOther":       true,
		"otherLabel":       " Other ",
		"otherPlaceholder": "Specify",
	}
	fields := ValidateFields([]any{in}, DefaultValidateOptions())
	f := fields[0]
	if !f.AllowOther || f.OtherLabel != "Other" || f.OtherPlaceholder != "Specify" {
		t.Fatalf("with-other attributes not carried: %#v", f)
	}
}

func TestValidateFields_GeneratedIDsUnique(t *testing.T) {
	inputs := []any{
		map[string]any{"label": "A", "type": "text"},
		map[string]any{"label": "B", "type": "text"},
		map[string]any{"label": "C", "type": "text"},
	}
	fields := ValidateFields(inputs, DefaultValidateOptions())
	seen := map[string]bool{}
	for _, f := range fields {
		if seen[f.ID] {
			t.Fatalf("duplicate generated id %q", f.ID)
		}
		seen[f.ID] = true
		if !strings.HasPrefix(f.ID, "field_") {
			t.Errorf("unexpected id shape %q", f.ID)
		}
	}
}

func TestValidateFormSchema(t *testing.T) {
	valid := &FormSchema{
		Title: "Contact Us",
		Fields: []FormField{
			{ID: "f1", Label: "Name", Type: FieldTypeText, Required: true},
			{ID: "f2", Label: "Color", Type: FieldTypeSelect, Options: []string{"Red", "Blue"}},
		},
	}
	if err := ValidateFormSchema(valid); err != nil {
		t.Fatalf("ValidateFormSchema(valid) error = %v", err)
	}

	invalid := &FormSchema{
		Title:  "",
		Fields: []FormField{{ID: "f1", Label: "Name", Type: FieldTypeText}},
	}
	if err := ValidateFormSchema(invalid); err == nil {
		t.Fatal("ValidateFormSchema(empty title) expected error")
	}
}
