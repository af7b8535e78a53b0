package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/analyzer"
	"github.com/chatterforms/formlens/internal/convert"
	"github.com/chatterforms/formlens/internal/schema"
	"github.com/chatterforms/formlens/internal/svcctx"
)

// PDFAnalysisResponse is the response of a PDF analysis. When the document
// exceeds the page cap and no selection was given, NeedsPageSelection is set
// and Pages carries thumbnails for the picker; Fields is empty.
type PDFAnalysisResponse struct {
	NeedsPageSelection bool                     `json:"needsPageSelection,omitempty"`
	TotalPages         int                      `json:"totalPages,omitempty"`
	Pages              []convert.PageImage      `json:"pages,omitempty"`
	Fields             []schema.FieldExtraction `json:"fields,omitempty"`
}

// AnalyzePDFEndpoint handles POST /api/analyze/pdf with a multipart upload.
type AnalyzePDFEndpoint struct{}

func (e *AnalyzePDFEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze/pdf", e.handler
}

func (e *AnalyzePDFEndpoint) RequiresInit() bool { return true }

func (e *AnalyzePDFEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	a := svcctx.AnalyzerFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "analyzer not initialized")
		return
	}

	const maxMemory = 50 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no pdf uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", header.Filename))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	pages, err := parsePageList(r.FormValue("pages"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.AnalyzePDF(r.Context(), analyzer.PDFRequest{
		Data:              data,
		Filename:          header.Filename,
		Pages:             pages,
		SelectAll:         r.FormValue("selectAll") == "true",
		AdditionalContext: r.FormValue("additionalContext"),
	})
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PDFAnalysisResponse{
		NeedsPageSelection: result.NeedsPageSelection,
		TotalPages:         result.TotalPages,
		Pages:              result.Pages,
		Fields:             result.Fields,
	})
}

// parsePageList parses a comma-separated page list ("1,3,5").
func parsePageList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	pages := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", p)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

func (e *AnalyzePDFEndpoint) Command(_ func() string) *cobra.Command {
	// No CLI command; PDFs arrive from the dashboard UI.
	return nil
}
