package extraction

import "github.com/quoteflow-app/quoteflow/constants"

// Party identifies one side of a document (issuer or recipient).
type Party struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// LineItem is a single billable line. Quantity, UnitPrice and Amount are
// mutually derivable; Amount is computed as Quantity*UnitPrice when absent.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// DocumentData is the canonical in-memory record of a quote or invoice being
// assembled from a conversation or an uploaded file. It is transient state:
// created per conversation or upload, mutated by Normalize and Merge, and
// discarded once a real document is persisted.
type DocumentData struct {
	Business       *Party     `json:"business,omitempty"`
	Client         *Party     `json:"client,omitempty"`
	DocumentNumber string     `json:"documentNumber,omitempty"`
	Date           string     `json:"date,omitempty"`
	DueDate        string     `json:"dueDate,omitempty"`
	ValidUntil     string     `json:"validUntil,omitempty"`
	Currency       string     `json:"currency,omitempty"`
	Items          []LineItem `json:"items,omitempty"`
	Subtotal       *float64   `json:"subtotal,omitempty"`
	TaxRate        *float64   `json:"taxRate,omitempty"`
	TaxAmount      *float64   `json:"taxAmount,omitempty"`
	DeliveryCharge *float64   `json:"deliveryCharge,omitempty"`
	Total          *float64   `json:"total,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	PaymentTerms   string     `json:"paymentTerms,omitempty"`
}

// VisionResult wraps a DocumentData extracted by the multimodal model,
// together with the model's own assessment of the extraction.
type VisionResult struct {
	Success       bool                   `json:"success"`
	DocumentType  constants.DocumentType `json:"documentType"`
	Confidence    float64                `json:"confidence"`
	Data          *DocumentData          `json:"data,omitempty"`
	MissingFields []string               `json:"missingFields"`
	Error         string                 `json:"error,omitempty"`
	RawText       string                 `json:"rawText,omitempty"`
}
