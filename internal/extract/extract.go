// Package extract locates and parses a JSON value embedded in free-form
// model output. Vision models wrap their answers in markdown fences, leading
// prose, and trailing commentary; this package digs the JSON out.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no parseable JSON value can be found in the
// response. Callers decide the fallback: the PDF structure path substitutes
// canned fields, the screenshot/URL paths surface the error.
var ErrNoJSON = errors.New("no JSON value found in model response")

// JSON returns the first parseable JSON array or object in content.
// Candidates are tried in order: fenced code block, then the first balanced
// array span, then the first balanced object span. Balancing is done with a
// real scanner that honors string escapes, so brackets inside string values
// do not break the match.
func JSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoJSON
	}

	var candidates []string
	if fenced := fencedBlock(content); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if span := balancedSpan(content, '[', ']'); span != "" {
		candidates = append(candidates, span)
	}
	if span := balancedSpan(content, '{', '}'); span != "" {
		candidates = append(candidates, span)
	}
	candidates = append(candidates, content)

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		switch parsed.(type) {
		case []any, map[string]any:
			return json.RawMessage(candidate), nil
		}
	}

	return nil, ErrNoJSON
}

// Array returns the first JSON array in content, unwrapping one level of
// object nesting when the model wraps its field list in {"fields": [...]}.
func Array(content string) ([]any, error) {
	raw, err := JSON(content)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
	}

	switch v := parsed.(type) {
	case []any:
		return v, nil
	case map[string]any:
		// Common wrapper shapes: {"fields": [...]}, {"formFields": [...]}.
		for _, key := range []string{"fields", "formFields", "form_fields"} {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
		// Any single array-valued key counts.
		var found []any
		matches := 0
		for _, val := range v {
			if list, ok := val.([]any); ok {
				found = list
				matches++
			}
		}
		if matches == 1 {
			return found, nil
		}
	}

	return nil, ErrNoJSON
}

// fencedBlock returns the body of the first markdown code fence, or "".
func fencedBlock(content string) string {
	start := strings.Index(content, "```")
	if start < 0 {
		return ""
	}
	body := content[start+3:]
	// Drop an optional language tag on the fence line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && nl < 20 {
		body = body[nl+1:]
	}
	end := strings.Index(body, "```")
	if end < 0 {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body[:end])
}

// balancedSpan returns the first span starting at open and ending at its
// matching close, tracking nesting depth and skipping over string literals
// (including escaped quotes). Returns "" when no balanced span exists.
func balancedSpan(content string, open, close byte) string {
	start := strings.IndexByte(content, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}
