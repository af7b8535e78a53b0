package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatterforms/formlens/internal/api"
	"github.com/chatterforms/formlens/internal/formgen"
	"github.com/chatterforms/formlens/internal/schema"
	"github.com/chatterforms/formlens/internal/svcctx"
)

// GenerateFormRequest is the JSON body of a form generation.
type GenerateFormRequest struct {
	Title   string                   `json:"title,omitempty"`
	Fields  []schema.FieldExtraction `json:"fields"`
	Styling *schema.FormStyling      `json:"styling,omitempty"`
}

// GenerateFormEndpoint handles POST /api/generate-form: reviewed field
// extractions in, publishable form schema out.
type GenerateFormEndpoint struct{}

func (e *GenerateFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/generate-form", e.handler
}

func (e *GenerateFormEndpoint) RequiresInit() bool { return true }

func (e *GenerateFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	gen := svcctx.GeneratorFrom(r.Context())
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, "form generator not initialized")
		return
	}

	var req GenerateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	form, err := gen.Generate(formgen.Request{
		Title:   req.Title,
		Fields:  req.Fields,
		Styling: req.Styling,
	})
	if err != nil {
		if errors.Is(err, formgen.ErrNoFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, form)
}

func (e *GenerateFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "generate <fields.json>",
		Short: "Generate a form schema from extracted fields",
		Long:  "Reads a JSON array of field extractions from a file and generates a publishable form schema.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading fields file: %w", err)
			}
			var fields []schema.FieldExtraction
			if err := json.Unmarshal(data, &fields); err != nil {
				return fmt.Errorf("parsing fields file: %w", err)
			}

			client := api.NewClient(getServerURL())
			var form schema.FormSchema
			req := GenerateFormRequest{Title: title, Fields: fields}
			if err := client.Post(cmd.Context(), "/api/generate-form", req, &form); err != nil {
				return err
			}
			return api.Output(form)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "form title")
	return cmd
}
