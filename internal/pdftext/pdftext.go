// Package pdftext provides local PDF inspection: page counting for the
// page-selection gate and text extraction for the text-based analysis tier.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count PDF pages: %w", err)
	}
	return count, nil
}

// Extract pulls plain text out of a PDF. It tries a real parser first and
// falls back to a crude scan of BT..ET text-showing operators when the
// parser fails. The fallback output is lossy; callers gate on MinUsableText
// before trusting it.
func Extract(data []byte) string {
	if text := extractParsed(data); strings.TrimSpace(text) != "" {
		return text
	}
	return scanTextOperators(data)
}

// MinUsableText is the length threshold below which extracted text is
// considered too thin to describe form fields.
const MinUsableText = 100

// extractParsed extracts text via ledongthuc/pdf. The library panics on some
// malformed files, so the call is fenced with recover.
func extractParsed(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return ""
	}
	return buf.String()
}

var (
	textBlockRe = regexp.MustCompile(`(?s)BT(.*?)ET`)
	showTextRe  = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*T[jJ]`)
	arrayTextRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	tjArrayRe   = regexp.MustCompile(`\[(.*?)\]\s*TJ`)
)

// scanTextOperators scans raw PDF bytes for BT..ET blocks and collects the
// literal strings fed to Tj/TJ operators. It ignores encodings, CID fonts,
// and stream compression entirely, so it only works on uncompressed
// content streams. Kept as the last-resort text tier.
func scanTextOperators(data []byte) string {
	var out []string
	for _, block := range textBlockRe.FindAllSubmatch(data, -1) {
		body := block[1]
		for _, m := range showTextRe.FindAllSubmatch(body, -1) {
			if s := decodeLiteral(string(m[1])); s != "" {
				out = append(out, s)
			}
		}
		for _, arr := range tjArrayRe.FindAllSubmatch(body, -1) {
			for _, m := range arrayTextRe.FindAllSubmatch(arr[1], -1) {
				if s := decodeLiteral(string(m[1])); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return strings.Join(out, " ")
}

// decodeLiteral undoes the escapes PDF literal strings use.
func decodeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
	)
	return strings.TrimSpace(replacer.Replace(s))
}

// StructurePrefix returns a printable-filtered prefix of the raw PDF bytes.
// When text extraction yields too little, this prefix is sent to the model
// as document-structure context instead.
func StructurePrefix(data []byte, n int) string {
	if n > len(data) {
		n = len(data)
	}
	var b strings.Builder
	b.Grow(n)
	for _, c := range data[:n] {
		if c == '\n' || c == '\r' || (c >= 0x20 && c < 0x7f) {
			b.WriteByte(c)
		}
	}
	return b.String()
}
