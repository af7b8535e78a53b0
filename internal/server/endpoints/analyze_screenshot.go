package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/analyzer"
	"github.com/chatterforms/formlens/internal/schema"
	"github.com/chatterforms/formlens/internal/svcctx"
)

// FieldsResponse carries normalized extractions back to the caller.
type FieldsResponse struct {
	Fields []schema.FieldExtraction `json:"fields"`
}

// ScreenshotRequest is the JSON body of a screenshot analysis.
type ScreenshotRequest struct {
	Image             string `json:"image"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// AnalyzeScreenshotEndpoint handles POST /api/analyze/screenshot.
//
// Two content types are accepted: a JSON body with a base64 image, or
// multipart/form-data carrying a PDF file. The multipart path runs the
// text-based PDF tier, which needs no conversion service.
type AnalyzeScreenshotEndpoint struct{}

func (e *AnalyzeScreenshotEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze/screenshot", e.handler
}

func (e *AnalyzeScreenshotEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeScreenshotEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	a := svcctx.AnalyzerFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "analyzer not initialized")
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		e.handlePDFUpload(w, r, a)
		return
	}

	var req ScreenshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}

	fields, err := a.AnalyzeScreenshot(r.Context(), req.Image, req.AdditionalContext)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields})
}

// handlePDFUpload is the text-tier PDF path on the screenshot route.
func (e *AnalyzeScreenshotEndpoint) handlePDFUpload(w http.ResponseWriter, r *http.Request, a *analyzer.Analyzer) {
	const maxMemory = 50 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
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

	fields, err := a.AnalyzePDFText(r.Context(), data, r.FormValue("additionalContext"))
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields})
}

func (e *AnalyzeScreenshotEndpoint) Command(_ func() string) *cobra.Command {
	// No CLI command; screenshots arrive from the dashboard UI.
	return nil
}

// writeAnalysisError maps analyzer failures to HTTP responses. URL analysis
// failures carry their guidance payload through verbatim.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var urlErr *analyzer.URLAnalysisError
	switch {
	case errors.As(err, &urlErr):
		writeJSON(w, http.StatusBadGateway, struct {
			Error string `json:"error"`
			*analyzer.URLAnalysisError
		}{Error: urlErr.Error(), URLAnalysisError: urlErr})
	case errors.Is(err, analyzer.ErrAnalysisInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, analyzer.ErrNoFields):
		writeError(w, http.StatusUnprocessableEntity, "no form fields detected")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
