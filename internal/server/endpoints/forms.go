package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/api"
	"github.com/chatterforms/formlens/internal/backend"
	"github.com/chatterforms/formlens/internal/schema"
	"github.com/chatterforms/formlens/internal/svcctx"
)

// StoreFormRequest is the JSON body of a form store.
type StoreFormRequest struct {
	FormData *schema.FormSchema `json:"formData"`
	UserID   string             `json:"userId,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

// StoreFormEndpoint handles POST /api/forms. The store is retried against
// the backend; exhaustion comes back as success false, not an HTTP error.
type StoreFormEndpoint struct{}

func (e *StoreFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms", e.handler
}

func (e *StoreFormEndpoint) RequiresInit() bool { return true }

func (e *StoreFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	be := svcctx.BackendFrom(r.Context())
	if be == nil {
		writeError(w, http.StatusServiceUnavailable, "backend client not initialized")
		return
	}

	var req StoreFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.FormData == nil {
		writeError(w, http.StatusBadRequest, "formData is required")
		return
	}
	if err := schema.ValidateFormSchema(req.FormData); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid form schema: %v", err))
		return
	}

	result := be.StoreFormStructure(r.Context(), &backend.StoreRequest{
		FormData: req.FormData,
		UserID:   req.UserID,
		Metadata: req.Metadata,
	})
	writeJSON(w, http.StatusOK, result)
}

func (e *StoreFormEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

// SubmitFormRequest is the JSON body of a form submission.
type SubmitFormRequest struct {
	Responses map[string]any `json:"responses"`
}

// SubmitFormEndpoint handles POST /api/forms/{id}/submissions.
type SubmitFormEndpoint struct{}

func (e *SubmitFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms/{id}/submissions", e.handler
}

func (e *SubmitFormEndpoint) RequiresInit() bool { return true }

func (e *SubmitFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	be := svcctx.BackendFrom(r.Context())
	if be == nil {
		writeError(w, http.StatusServiceUnavailable, "backend client not initialized")
		return
	}

	var req SubmitFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := be.SubmitForm(r.Context(), r.PathValue("id"), req.Responses)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (e *SubmitFormEndpoint) Command(_ func() string) *cobra.Command {
	return nil
}

// GetFormEndpoint handles GET /api/forms/{id}.
type GetFormEndpoint struct{}

func (e *GetFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms/{id}", e.handler
}

func (e *GetFormEndpoint) RequiresInit() bool { return true }

func (e *GetFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	be := svcctx.BackendFrom(r.Context())
	if be == nil {
		writeError(w, http.StatusServiceUnavailable, "backend client not initialized")
		return
	}

	form, err := be.FetchForm(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (e *GetFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "form <id>",
		Short: "Fetch a stored form schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var form schema.FormSchema
			if err := client.Get(cmd.Context(), "/api/forms/"+args[0], &form); err != nil {
				return err
			}
			return api.Output(form)
		},
	}
}

// FormAnalyticsEndpoint handles GET /api/forms/{id}/analytics.
type FormAnalyticsEndpoint struct{}

func (e *FormAnalyticsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms/{id}/analytics", e.handler
}

func (e *FormAnalyticsEndpoint) RequiresInit() bool { return true }

func (e *FormAnalyticsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	be := svcctx.BackendFrom(r.Context())
	if be == nil {
		writeError(w, http.StatusServiceUnavailable, "backend client not initialized")
		return
	}

	analytics, err := be.FetchAnalytics(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (e *FormAnalyticsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics <form-id>",
		Short: "Fetch submission analytics for a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var analytics map[string]any
			if err := client.Get(cmd.Context(), "/api/forms/"+args[0]+"/analytics", &analytics); err != nil {
				return err
			}
			return api.Output(analytics)
		},
	}
}
