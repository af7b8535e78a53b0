// Package schema defines the field and form types that flow through the
// extraction pipeline, plus the validation that coerces loosely-typed model
// output into them.
package schema

// FieldType enumerates the form field types the pipeline understands.
type FieldType string

const (
	FieldTypeText              FieldType = "text"
	FieldTypeEmail             FieldType = "email"
	FieldTypeTel               FieldType = "tel"
	FieldTypeTextarea          FieldType = "textarea"
	FieldTypeSelect            FieldType = "select"
	FieldTypeRadio             FieldType = "radio"
	FieldTypeCheckbox          FieldType = "checkbox"
	FieldTypeDate              FieldType = "date"
	FieldTypeCheckboxGroup     FieldType = "checkbox-group"
	FieldTypeRadioWithOther    FieldType = "radio-with-other"
	FieldTypeCheckboxWithOther FieldType = "checkbox-with-other"
)

// validFieldTypes is the allow-list for type coercion. Anything outside it
// becomes FieldTypeText.
var validFieldTypes = map[FieldType]bool{
	FieldTypeText:              true,
	FieldTypeEmail:             true,
	FieldTypeTel:               true,
	FieldTypeTextarea:          true,
	FieldTypeSelect:            true,
	FieldTypeRadio:             true,
	FieldTypeCheckbox:          true,
	FieldTypeDate:              true,
	FieldTypeCheckboxGroup:     true,
	FieldTypeRadioWithOther:    true,
	FieldTypeCheckboxWithOther: true,
}

// IsValidFieldType reports whether t is a member of the field type allow-list.
func IsValidFieldType(t FieldType) bool {
	return validFieldTypes[t]
}

// HasOptions reports whether the type carries an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckboxGroup,
		FieldTypeRadioWithOther, FieldTypeCheckboxWithOther:
		return true
	}
	return false
}

// FieldExtraction is one detected form field, normalized from model output.
// Label is the only attribute whose absence invalidates the record; every
// other attribute has a defined fallback, so validation drops or downgrades
// instead of failing.
type FieldExtraction struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Confidence  float64   `json:"confidence"`

	// "-with-other" extras. Accepted on any type; the validator does not
	// enforce the cross-field invariant.
	AllowOther       bool   `json:"allowOther,omitempty"`
	OtherLabel       string `json:"otherLabel,omitempty"`
	OtherPlaceholder string `json:"otherPlaceholder,omitempty"`

	// PageNumber tags which PDF page the field was found on. 1 when the
	// source has no page concept.
	PageNumber int `json:"pageNumber,omitempty"`

	// AdditionalContext carries extra user instructions to the form
	// generation step. Attached to at most one field per batch.
	AdditionalContext string `json:"additionalContext,omitempty"`
}
