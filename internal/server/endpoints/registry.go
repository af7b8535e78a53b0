package endpoints

import (
	"github.com/chatterforms/formlens/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Analysis endpoints
		&AnalyzeScreenshotEndpoint{},
		&AnalyzePDFEndpoint{},
		&AnalyzeURLEndpoint{},
		&AnalyzeTextEndpoint{},

		// Form endpoints
		&GenerateFormEndpoint{},
		&StoreFormEndpoint{},
		&SubmitFormEndpoint{},
		&GetFormEndpoint{},
		&FormAnalyticsEndpoint{},
	}
}
