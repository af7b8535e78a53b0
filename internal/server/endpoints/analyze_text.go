package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/api"
	"github.com/chatterforms/formlens/internal/svcctx"
)

// TextRequest is the JSON body of a text-description analysis.
type TextRequest struct {
	Description       string `json:"description"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// AnalyzeTextEndpoint handles POST /api/analyze/text: field generation from
// a natural-language description of the desired form.
type AnalyzeTextEndpoint struct{}

func (e *AnalyzeTextEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze/text", e.handler
}

func (e *AnalyzeTextEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeTextEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	a := svcctx.AnalyzerFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "analyzer not initialized")
		return
	}

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	fields, err := a.AnalyzeText(r.Context(), req.Description, req.AdditionalContext)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields})
}

func (e *AnalyzeTextEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze-text <description>",
		Short: "Generate form fields from a text description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FieldsResponse
			if err := client.Post(cmd.Context(), "/api/analyze/text", TextRequest{Description: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp.Fields)
		},
	}
}
