package formgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/chatterforms/formlens/internal/schema"
)

func TestGenerate_DropsExtractionMetadata(t *testing.T) {
	g := New()
	form, err := g.Generate(Request{
		Title: "Contact Us",
		Fields: []schema.FieldExtraction{
			{ID: "field_1_abc", Label: "Name", Type: schema.FieldTypeText, Required: true, Confidence: 0.9, PageNumber: 3},
			{ID: "field_2_def", Label: "Topic", Type: schema.FieldTypeSelect, Options: []string{"Sales", "Support"}},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if form.Title != "Contact Us" {
		t.Errorf("title = %q", form.Title)
	}
	if len(form.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(form.Fields))
	}
	if form.Fields[0].ID != "field_1_abc" || !form.Fields[0].Required {
		t.Errorf("first field = %#v", form.Fields[0])
	}
	if len(form.Fields[1].Options) != 2 {
		t.Errorf("options = %#v", form.Fields[1].Options)
	}
}

func TestGenerate_SanitizesModelText(t *testing.T) {
	g := New()
	form, err := g.Generate(Request{
		Fields: []schema.FieldExtraction{
			{Label: `<script>alert(1)</script>Email`, Type: schema.FieldTypeEmail, Placeholder: `<b>you@example.com</b>`},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f := form.Fields[0]
	if strings.Contains(f.Label, "<") || f.Label != "Email" {
		t.Errorf("label not sanitized: %q", f.Label)
	}
	if f.Placeholder != "you@example.com" {
		t.Errorf("placeholder not sanitized: %q", f.Placeholder)
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	g := New()
	form, err := g.Generate(Request{
		Fields: []schema.FieldExtraction{
			{ID: "dup", Label: "A", Type: schema.FieldTypeText},
			{ID: "dup", Label: "B", Type: schema.FieldTypeText},
			{Label: "C", Type: schema.FieldTypeText},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	seen := map[string]bool{}
	for _, f := range form.Fields {
		if f.ID == "" {
			t.Errorf("field %q has empty ID", f.Label)
		}
		if seen[f.ID] {
			t.Errorf("duplicate ID %q", f.ID)
		}
		seen[f.ID] = true
	}
	if form.Fields[0].ID != "dup" {
		t.Errorf("first holder of an ID should keep it, got %q", form.Fields[0].ID)
	}
}

func TestGenerate_InvalidTypeCoerced(t *testing.T) {
	g := New()
	form, err := g.Generate(Request{
		Fields: []schema.FieldExtraction{
			{Label: "Mystery", Type: schema.FieldType("hologram")},
			{Label: "Email", Type: schema.FieldTypeEmail},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if form.Fields[0].Type != schema.FieldTypeText {
		t.Errorf("type = %q, want text", form.Fields[0].Type)
	}
	if form.Fields[1].Type != schema.FieldTypeEmail {
		t.Errorf("type = %q, want email", form.Fields[1].Type)
	}
}

func TestGenerate_TitleFallbacks(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "explicit title wins",
			req: Request{
				Title:  "Signup",
				Fields: []schema.FieldExtraction{{Label: "A", Type: schema.FieldTypeText, AdditionalContext: "Event Registration"}},
			},
			want: "Signup",
		},
		{
			name: "short context becomes title",
			req: Request{
				Fields: []schema.FieldExtraction{{Label: "A", Type: schema.FieldTypeText, AdditionalContext: "Event Registration"}},
			},
			want: "Event Registration",
		},
		{
			name: "long context ignored",
			req: Request{
				Fields: []schema.FieldExtraction{{Label: "A", Type: schema.FieldTypeText, AdditionalContext: strings.Repeat("please make every field optional and ", 5)}},
			},
			want: DefaultTitle,
		},
		{
			name: "no hints",
			req: Request{
				Fields: []schema.FieldExtraction{{Label: "A", Type: schema.FieldTypeText}},
			},
			want: DefaultTitle,
		},
	}

	g := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := g.Generate(tt.req)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if form.Title != tt.want {
				t.Errorf("title = %q, want %q", form.Title, tt.want)
			}
		})
	}
}

func TestGenerate_NoUsableFields(t *testing.T) {
	g := New()
	_, err := g.Generate(Request{Fields: []schema.FieldExtraction{
		{Label: "   ", Type: schema.FieldTypeText},
	}})
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("error = %v, want ErrNoFields", err)
	}

	if _, err := g.Generate(Request{}); !errors.Is(err, ErrNoFields) {
		t.Fatalf("empty request error = %v, want ErrNoFields", err)
	}
}

func TestGenerate_ResultValidatesAgainstFormSchema(t *testing.T) {
	g := New()
	form, err := g.Generate(Request{
		Title: "Survey",
		Fields: []schema.FieldExtraction{
			{Label: "Rating", Type: schema.FieldTypeRadio, Options: []string{"1", "2", "3"}, AllowOther: true, OtherLabel: "Other"},
		},
		Styling: &schema.FormStyling{PrimaryColor: "#336699", ButtonText: "Send"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := schema.ValidateFormSchema(form); err != nil {
		t.Fatalf("generated form invalid: %v", err)
	}
	if form.Styling == nil || form.Styling.ButtonText != "Send" {
		t.Errorf("styling dropped: %#v", form.Styling)
	}
}
