package schema

// FormField is the form-schema-shaped record consumed by the published form.
// Unlike FieldExtraction it carries no confidence or page metadata.
type FormField struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`

	AllowOther       bool   `json:"allowOther,omitempty"`
	OtherLabel       string `json:"otherLabel,omitempty"`
	OtherPlaceholder string `json:"otherPlaceholder,omitempty"`
}

// FormStyling holds presentation settings carried opaquely through storage.
type FormStyling struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	ButtonText      string `json:"buttonText,omitempty"`
}

// FormSchema is the publishable form definition persisted by the backend.
type FormSchema struct {
	FormID  string       `json:"formId,omitempty"`
	Title   string       `json:"title"`
	Fields  []FormField  `json:"fields"`
	Styling *FormStyling `json:"styling,omitempty"`
}
