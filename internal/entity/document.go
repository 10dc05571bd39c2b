package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/quoteflow-app/quoteflow/constants"
)

// Document represents a persisted quote or invoice for data transfer between
// layers.
type Document struct {
	ID             uuid.UUID                `json:"id"`
	OwnerID        uuid.UUID                `json:"owner_id"`
	ClientID       *uuid.UUID               `json:"client_id,omitempty"`
	Type           constants.DocumentType   `json:"type"`
	Status         constants.DocumentStatus `json:"status"`
	Number         string                   `json:"number"`
	ClientName     string                   `json:"client_name"`
	IssueDate      time.Time                `json:"issue_date"`
	DueDate        *time.Time               `json:"due_date,omitempty"`
	ValidUntil     *time.Time               `json:"valid_until,omitempty"`
	CurrencyCode   string                   `json:"currency_code"`
	Subtotal       *float64                 `json:"subtotal,omitempty"`
	TaxRate        *float64                 `json:"tax_rate,omitempty"`
	TaxAmount      *float64                 `json:"tax_amount,omitempty"`
	DeliveryCharge *float64                 `json:"delivery_charge,omitempty"`
	Total          float64                  `json:"total"`
	Notes          string                   `json:"notes,omitempty"`
	PaymentTerms   string                   `json:"payment_terms,omitempty"`
	Items          []DocumentItem           `json:"items,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// DocumentItem is one persisted line item, ordered by Position.
type DocumentItem struct {
	ID          uuid.UUID `json:"id"`
	DocumentID  uuid.UUID `json:"document_id"`
	Position    int       `json:"position"`
	Description string    `json:"description"`
	Quantity    *float64  `json:"quantity,omitempty"`
	UnitPrice   *float64  `json:"unit_price,omitempty"`
	Amount      *float64  `json:"amount,omitempty"`
}
