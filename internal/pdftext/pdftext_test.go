package pdftext

import (
	"strings"
	"testing"
)

func TestScanTextOperators(t *testing.T) {
	raw := []byte("junk BT /F1 12 Tf (Full Name:) Tj 0 -20 Td (Email Address:) Tj ET trailer")
	got := scanTextOperators(raw)

	if !strings.Contains(got, "Full Name:") || !strings.Contains(got, "Email Address:") {
		t.Fatalf("scanTextOperators() = %q", got)
	}
}

func TestScanTextOperators_TJArrays(t *testing.T) {
	raw := []byte(`BT [(Phone ) -250 (Number)] TJ ET`)
	got := scanTextOperators(raw)

	if !strings.Contains(got, "Phone") || !strings.Contains(got, "Number") {
		t.Fatalf("scanTextOperators() = %q", got)
	}
}

func TestScanTextOperators_EscapedParens(t *testing.T) {
	raw := []byte(`BT (Name \(required\)) Tj ET`)
	got := scanTextOperators(raw)

	if !strings.Contains(got, "Name (required)") {
		t.Fatalf("scanTextOperators() = %q", got)
	}
}

func TestScanTextOperators_NoTextBlocks(t *testing.T) {
	if got := scanTextOperators([]byte("%PDF-1.4 no text operators here")); got != "" {
		t.Fatalf("scanTextOperators() = %q, want empty", got)
	}
}

func TestExtract_FallsBackToOperatorScan(t *testing.T) {
	// Not a parseable PDF, but carries raw text operators.
	raw := []byte("not-a-real-pdf BT (Company Name) Tj ET")
	got := Extract(raw)

	if !strings.Contains(got, "Company Name") {
		t.Fatalf("Extract() = %q", got)
	}
}

func TestStructurePrefix(t *testing.T) {
	data := []byte("%PDF-1.4\n\x00\x01binary\xffhere /Type /Catalog")
	got := StructurePrefix(data, 1000)

	if strings.ContainsAny(got, "\x00\x01\xff") {
		t.Fatalf("prefix contains non-printable bytes: %q", got)
	}
	if !strings.HasPrefix(got, "%PDF-1.4") || !strings.Contains(got, "/Type /Catalog") {
		t.Fatalf("prefix lost printable content: %q", got)
	}

	if got := StructurePrefix(data, 4); got != "%PDF" {
		t.Fatalf("bounded prefix = %q", got)
	}
}

func TestDecodeLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`with \(parens\)`, "with (parens)"},
		{`tab\there`, "tab\there"},
		{`  padded  `, "padded"},
	}
	for _, tt := range tests {
		if got := decodeLiteral(tt.in); got != tt.want {
			t.Errorf("decodeLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
