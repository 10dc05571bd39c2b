package export

import (
	"encoding/json"

	"github.com/quoteflow-app/quoteflow/internal/entity"
)

// DocumentJSON renders a persisted document, with its issuer profile, as an
// indented JSON payload suitable for download or machine import.
func DocumentJSON(doc *entity.Document, issuer *entity.Profile) ([]byte, error) {
	payload := struct {
		Issuer   *entity.Profile  `json:"issuer,omitempty"`
		Document *entity.Document `json:"document"`
	}{
		Issuer:   issuer,
		Document: doc,
	}
	return json.MarshalIndent(payload, "", "  ")
}
