package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// formSchemaJSON is the canonical JSON Schema for a publishable form.
// Generated forms are checked against it before being handed to storage.
const formSchemaJSON = `{
  "type": "object",
  "properties": {
    "formId": {"type": "string"},
    "title": {"type": "string", "minLength": 1},
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string", "minLength": 1},
          "type": {
            "type": "string",
            "enum": ["text", "email", "tel", "textarea", "select", "radio",
                     "checkbox", "date", "checkbox-group", "radio-with-other",
                     "checkbox-with-other"]
          },
          "required": {"type": "boolean"},
          "placeholder": {"type": "string"},
          "options": {"type": "array", "items": {"type": "string"}},
          "allowOther": {"type": "boolean"},
          "otherLabel": {"type": "string"},
          "otherPlaceholder": {"type": "string"}
        },
        "required": ["id", "label", "type"]
      }
    },
    "styling": {"type": "object"}
  },
  "required": ["title", "fields"]
}`

var (
	formSchemaOnce     sync.Once
	formSchemaCompiled *jsonschema.Schema
	formSchemaErr      error
)

func compiledFormSchema() (*jsonschema.Schema, error) {
	formSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("form.json", strings.NewReader(formSchemaJSON)); err != nil {
			formSchemaErr = fmt.Errorf("failed to load form schema: %w", err)
			return
		}
		formSchemaCompiled, formSchemaErr = compiler.Compile("form.json")
	})
	return formSchemaCompiled, formSchemaErr
}

// ValidateFormSchema checks a generated form against the canonical schema.
// The document is round-tripped through JSON so struct values validate the
// same as decoded request bodies.
func ValidateFormSchema(form *FormSchema) error {
	compiled, err := compiledFormSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to serialize form for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode form for validation: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("form does not match schema: %w", err)
	}
	return nil
}
