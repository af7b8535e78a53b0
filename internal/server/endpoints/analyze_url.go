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

// URLRequest is the JSON body of a URL analysis.
type URLRequest struct {
	URL               string `json:"url"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// AnalyzeURLEndpoint handles POST /api/analyze/url.
type AnalyzeURLEndpoint struct{}

func (e *AnalyzeURLEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze/url", e.handler
}

func (e *AnalyzeURLEndpoint) RequiresInit() bool { return true }

func (e *AnalyzeURLEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	a := svcctx.AnalyzerFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "analyzer not initialized")
		return
	}

	var req URLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	fields, err := a.AnalyzeURL(r.Context(), req.URL, req.AdditionalContext)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Fields: fields})
}

func (e *AnalyzeURLEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze-url <url>",
		Short: "Extract form fields from a live web form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp FieldsResponse
			if err := client.Post(cmd.Context(), "/api/analyze/url", URLRequest{URL: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp.Fields)
		},
	}
}
