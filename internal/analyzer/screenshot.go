package analyzer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chatterforms/formlens/internal/extract"
	"github.com/chatterforms/formlens/internal/schema"
)

var dataURLRe = regexp.MustCompile(`^data:image/[a-zA-Z+.-]+;base64,`)

// AnalyzeScreenshot extracts form fields from a single base64-encoded image.
// Input is a data-URL-style string; a bare base64 payload is accepted and
// normalized. A parse failure propagates: there is no canned fallback on
// this path.
func (a *Analyzer) AnalyzeScreenshot(ctx context.Context, image string, additionalContext string) ([]schema.FieldExtraction, error) {
	release, err := a.guard.Acquire(KindScreenshot)
	if err != nil {
		return nil, err
	}
	defer release()

	dataURL, err := normalizeImageInput(image)
	if err != nil {
		return nil, err
	}

	fields, err := a.extractFields(ctx, screenshotPrompt, []string{dataURL}, schema.DefaultValidateOptions())
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

// normalizeImageInput validates a base64 image payload and returns it as a
// data URL. The data: prefix is stripped and re-attached so malformed
// prefixes fail here rather than at the model API.
func normalizeImageInput(image string) (string, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return "", fmt.Errorf("empty image payload")
	}

	if m := dataURLRe.FindString(image); m != "" {
		payload := image[len(m):]
		if payload == "" {
			return "", fmt.Errorf("image data URL has no payload")
		}
		return image, nil
	}
	if strings.HasPrefix(image, "data:") {
		return "", fmt.Errorf("unsupported data URL; expected data:image/...;base64,")
	}

	// Bare base64 payload.
	return "data:image/png;base64," + image, nil
}

// attachContext hangs the user's extra instructions off exactly one field in
// the batch so they reach the form-generation step.
func attachContext(fields []schema.FieldExtraction, additionalContext string) {
	additionalContext = strings.TrimSpace(additionalContext)
	if additionalContext == "" || len(fields) == 0 {
		return
	}
	fields[0].AdditionalContext = additionalContext
}
