package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateOptions parameterizes field validation. The three analyzers share
// one validator; only the confidence constants used to differ between them.
type ValidateOptions struct {
	// MinConfidence is the lower clamp bound for confidence values.
	MinConfidence float64
	// DefaultConfidence is used when the model omits confidence or emits a
	// non-numeric value.
	DefaultConfidence float64
	// DefaultPage tags fields whose page number is absent or invalid.
	// Zero means leave PageNumber unset.
	DefaultPage int
}

// DefaultValidateOptions returns the validation constants every analyzer
// uses. The per-route divergences in the original product (0.1 floor on the
// URL path, 0.7 default on one PDF sub-path) were defects, not intent.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		MinConfidence:     0.0,
		DefaultConfidence: 0.8,
	}
}

// ValidateFields coerces already-parsed JSON elements into FieldExtraction
// records. Elements that are not objects, or that lack both a label and a
// type, or whose label trims to empty, are dropped. Everything else is
// normalized per the defaulting rules and never causes an error: the output
// is always the same length or shorter than the input.
func ValidateFields(raw []any, opts ValidateOptions) []FieldExtraction {
	fields := make([]FieldExtraction, 0, len(raw))
	for i, elem := range raw {
		obj, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if _, hasLabel := obj["label"]; !hasLabel {
			if _, hasType := obj["type"]; !hasType {
				continue
			}
		}

		label := strings.TrimSpace(stringValue(obj["label"]))
		if label == "" {
			continue
		}

		f := FieldExtraction{
			ID:         stringValue(obj["id"]),
			Label:      label,
			Type:       coerceType(obj["type"]),
			Required:   boolValue(obj["required"]),
			Confidence: clampConfidence(obj["confidence"], opts),
		}
		if f.ID == "" {
			f.ID = generateFieldID(i)
		}

		if p := strings.TrimSpace(stringValue(obj["placeholder"])); p != "" {
			f.Placeholder = p
		}
		f.Options = sanitizeOptions(obj["options"])

		f.AllowOther = boolValue(obj["allowOther"])
		f.OtherLabel = strings.TrimSpace(stringValue(obj["otherLabel"]))
		f.OtherPlaceholder = strings.TrimSpace(stringValue(obj["otherPlaceholder"]))

		if page, ok := intValue(obj["pageNumber"]); ok && page >= 1 {
			f.PageNumber = page
		} else if opts.DefaultPage > 0 {
			f.PageNumber = opts.DefaultPage
		}

		fields = append(fields, f)
	}
	return fields
}

// coerceType maps arbitrary model output onto the field type allow-list.
func coerceType(v any) FieldType {
	t := FieldType(strings.TrimSpace(strings.ToLower(stringValue(v))))
	if IsValidFieldType(t) {
		return t
	}
	return FieldTypeText
}

// sanitizeOptions trims each option and discards empties. A list that ends
// up empty is treated as absent. The pass is idempotent.
func sanitizeOptions(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	opts := make([]string, 0, len(list))
	for _, item := range list {
		s := strings.TrimSpace(stringValue(item))
		if s != "" {
			opts = append(opts, s)
		}
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

func clampConfidence(v any, opts ValidateOptions) float64 {
	c, ok := floatValue(v)
	if !ok {
		c = opts.DefaultConfidence
	}
	if c < opts.MinConfidence {
		c = opts.MinConfidence
	}
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func generateFieldID(index int) string {
	return fmt.Sprintf("field_%d_%s", index+1, uuid.New().String()[:8])
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
