package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chatterforms/formlens/internal/extract"
	"github.com/chatterforms/formlens/internal/schema"
)

// AnalyzeText generates form fields from a natural-language description via
// a text-only model call.
func (a *Analyzer) AnalyzeText(ctx context.Context, description string, additionalContext string) ([]schema.FieldExtraction, error) {
	release, err := a.guard.Acquire(KindText)
	if err != nil {
		return nil, err
	}
	defer release()

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("empty form description")
	}

	fields, err := a.extractFields(ctx, textDescriptionPrompt+description, nil, schema.DefaultValidateOptions())
	if err != nil {
		if errors.Is(err, extract.ErrNoJSON) {
			return nil, ErrNoFields
		}
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	attachContext(fields, additionalContext)
	return fields, nil
}
