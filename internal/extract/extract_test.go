package extract

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestJSON_FencedBlock(t *testing.T) {
	content := "Here are the fields:\n```json\n[{\"label\":\"Name\",\"type\":\"text\"}]\n```\nLet me know!"
	raw, err := JSON(content)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var parsed []map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("failed to unmarshal extracted JSON: %v", err)
	}
	if len(parsed) != 1 || parsed[0]["label"] != "Name" {
		t.Fatalf("unexpected parsed value: %#v", parsed)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	fields := []map[string]any{
		{"label": "Full Name", "type": "text", "required": true},
		{"label": "Color", "type": "select", "options": []any{"Red", "Blue"}},
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"bare", string(encoded)},
		{"fenced", "```json\n" + string(encoded) + "\n```"},
		{"fenced no language", "```\n" + string(encoded) + "\n```"},
		{"leading prose", "Sure! Here's what I found:\n" + string(encoded)},
		{"trailing prose", string(encoded) + "\nHope that helps."},
		{"both", "I analyzed the image.\n" + string(encoded) + "\nDone."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := JSON(tt.content)
			if err != nil {
				t.Fatalf("JSON() error = %v", err)
			}
			var got []map[string]any
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			var want []map[string]any
			if err := json.Unmarshal(encoded, &want); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("got %#v, want %#v", got, want)
			}
		})
	}
}

func TestJSON_BracketsInsideStrings(t *testing.T) {
	// A greedy regex breaks on this; the scanner must not.
	content := `The form: [{"label":"Notes [optional]","type":"textarea","placeholder":"e.g. {detail}"}] done`
	raw, err := JSON(content)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var parsed []map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed[0]["label"] != "Notes [optional]" {
		t.Fatalf("label mangled: %#v", parsed[0])
	}
}

func TestJSON_EscapedQuotesInsideStrings(t *testing.T) {
	content := `[{"label":"Say \"hi\" [here]","type":"text"}]`
	raw, err := JSON(content)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	var parsed []map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed[0]["label"] != `Say "hi" [here]` {
		t.Fatalf("label mangled: %#v", parsed[0])
	}
}

func TestJSON_NoJSON(t *testing.T) {
	for _, content := range []string{
		"",
		"I could not detect any form fields in this image.",
		"almost [ but not balanced",
		"```\nnot json\n```",
	} {
		if _, err := JSON(content); !errors.Is(err, ErrNoJSON) {
			t.Errorf("JSON(%q) error = %v, want ErrNoJSON", content, err)
		}
	}
}

func TestArray_UnwrapsObjectWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"bare array", `[{"label":"A"},{"label":"B"}]`, 2},
		{"fields wrapper", "```json\n{\"fields\":[{\"label\":\"A\"}]}\n```", 1},
		{"formFields wrapper", "```json\n{\"formFields\":[{\"label\":\"A\"},{\"label\":\"B\"},{\"label\":\"C\"}]}\n```", 3},
		{"single array key", "```json\n{\"detected\":[{\"label\":\"A\"}],\"count\":1}\n```", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Array(tt.content)
			if err != nil {
				t.Fatalf("Array() error = %v", err)
			}
			if len(list) != tt.want {
				t.Fatalf("got %d elements, want %d", len(list), tt.want)
			}
		})
	}
}

func TestArray_AmbiguousWrapperRejected(t *testing.T) {
	// Two array-valued keys and neither is a known wrapper name.
	content := "```json\n{\"a\":[1],\"b\":[2]}\n```"
	if _, err := Array(content); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("Array() error = %v, want ErrNoJSON", err)
	}
}
