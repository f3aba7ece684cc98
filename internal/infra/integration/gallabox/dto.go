package gallabox

import "github.com/xavierca1/cohort-crm/internal/usecase"

const (
	DefaultBaseURL = "https://backend.gallabox.com"

	textPath     = "/v1/api/messages/whatsapp/text"
	templatePath = "/v1/api/messages/whatsapp/template"
	campaignPath = "/v1/api/campaigns/whatsapp"
)

type textMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type templateMessageRequest struct {
	To       string                  `json:"to"`
	Template usecase.MessageTemplate `json:"template"`
}

type campaignRequest struct {
	Name     string                   `json:"name"`
	Filters  map[string]any           `json:"filters"`
	Template *usecase.MessageTemplate `json:"template,omitempty"`
}
