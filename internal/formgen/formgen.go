// Package formgen turns reviewed field extractions into a publishable form
// schema. Extraction metadata (confidence, page numbers) is dropped here;
// labels and placeholders pass through an HTML sanitizer since they originate
// from model output.
package formgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/chatterforms/formlens/internal/schema"
)

// ErrNoFields is returned when generation is asked to build a form with no
// usable fields.
var ErrNoFields = errors.New("no fields to generate a form from")

// DefaultTitle is used when no title is supplied and none of the fields
// carry generation instructions.
const DefaultTitle = "Generated Form"

// Request carries the inputs of one form generation.
type Request struct {
	Title   string
	Fields  []schema.FieldExtraction
	Styling *schema.FormStyling
}

// Generator builds form schemas from field extractions.
type Generator struct {
	policy *bluemonday.Policy
}

// New creates a Generator with a strict sanitization policy: model-produced
// text keeps no markup at all.
func New() *Generator {
	return &Generator{policy: bluemonday.StrictPolicy()}
}

// Generate maps the extractions into a FormSchema. Field IDs are kept when
// present and unique; duplicates and blanks get fresh IDs. The result always
// passes ValidateFormSchema.
func (g *Generator) Generate(req Request) (*schema.FormSchema, error) {
	fields := make([]schema.FormField, 0, len(req.Fields))
	seen := make(map[string]bool, len(req.Fields))

	for i, fe := range req.Fields {
		label := strings.TrimSpace(g.policy.Sanitize(fe.Label))
		if label == "" {
			continue
		}

		id := strings.TrimSpace(fe.ID)
		if id == "" || seen[id] {
			id = freshID(i)
		}
		seen[id] = true

		typ := fe.Type
		if !schema.IsValidFieldType(typ) {
			typ = schema.FieldTypeText
		}

		field := schema.FormField{
			ID:          id,
			Label:       label,
			Type:        typ,
			Required:    fe.Required,
			Placeholder: strings.TrimSpace(g.policy.Sanitize(fe.Placeholder)),
			Options:     g.sanitizeOptions(fe.Options),

			AllowOther:       fe.AllowOther,
			OtherLabel:       strings.TrimSpace(g.policy.Sanitize(fe.OtherLabel)),
			OtherPlaceholder: strings.TrimSpace(g.policy.Sanitize(fe.OtherPlaceholder)),
		}
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	form := &schema.FormSchema{
		Title:   g.title(req),
		Fields:  fields,
		Styling: req.Styling,
	}

	if err := schema.ValidateFormSchema(form); err != nil {
		return nil, fmt.Errorf("generated form failed schema validation: %w", err)
	}
	return form, nil
}

// title resolves the form title: explicit request title first, then any
// generation instruction attached to the extractions, then the default.
func (g *Generator) title(req Request) string {
	if t := strings.TrimSpace(g.policy.Sanitize(req.Title)); t != "" {
		return t
	}
	for _, fe := range req.Fields {
		if ctx := strings.TrimSpace(fe.AdditionalContext); ctx != "" {
			if t := titleFromContext(ctx); t != "" {
				return strings.TrimSpace(g.policy.Sanitize(t))
			}
		}
	}
	return DefaultTitle
}

// titleFromContext pulls a short title out of free-form instructions. Long
// instructions are not titles; they ride along but do not name the form.
func titleFromContext(ctx string) string {
	line := ctx
	if i := strings.IndexAny(line, "\n."); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 60 {
		return ""
	}
	return line
}

func (g *Generator) sanitizeOptions(opts []string) []string {
	if len(opts) == 0 {
		return nil
	}
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if s := strings.TrimSpace(g.policy.Sanitize(o)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func freshID(index int) string {
	return fmt.Sprintf("field_%d_%s", index+1, uuid.New().String()[:8])
}
