package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteflow-app/quoteflow/constants"
)

func f(v float64) *float64 { return &v }

func TestNormalizeNilInput(t *testing.T) {
	res := Normalize(nil)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, constants.DocTypeUnknown, res.DocumentType)
	assert.Nil(t, res.Data)
	assert.Empty(t, res.MissingFields)
}

func TestNormalizeFailureShortCircuits(t *testing.T) {
	res := Normalize(map[string]any{
		"success": false,
		"error":   "could not read the document",
		"data":    map[string]any{"currency": "usd"},
	})
	assert.False(t, res.Success)
	assert.Equal(t, "could not read the document", res.Error)
	// Data is not normalized for failed extractions.
	assert.Nil(t, res.Data)
}

func TestNormalizeMissingDataShortCircuits(t *testing.T) {
	res := Normalize(map[string]any{
		"success":      true,
		"documentType": "invoice",
		"confidence":   0.9,
	})
	assert.True(t, res.Success)
	assert.Equal(t, constants.DocTypeInvoice, res.DocumentType)
	assert.Nil(t, res.Data)
	assert.Empty(t, res.MissingFields)
}

func TestNormalizeDocumentTypeSynonyms(t *testing.T) {
	for in, want := range map[string]constants.DocumentType{
		"invoice":   constants.DocTypeInvoice,
		"Quotation": constants.DocTypeQuote,
		"estimate":  constants.DocTypeQuote,
		"gibberish": constants.DocTypeUnknown,
	} {
		res := Normalize(map[string]any{"documentType": in})
		assert.Equal(t, want, res.DocumentType, "documentType %q", in)
	}
}

func TestNormalizeCoercesStringNumbers(t *testing.T) {
	res := Normalize(map[string]any{
		"success":      true,
		"documentType": "invoice",
		"data": map[string]any{
			"client":   map[string]any{"name": "Acme Ltd"},
			"currency": "ngn",
			"items": []any{
				map[string]any{"description": "Design work", "quantity": "2", "unitPrice": "1,500.50"},
			},
			"total": "3,001",
		},
	})
	require.NotNil(t, res.Data)
	assert.Equal(t, "NGN", res.Data.Currency)
	require.Len(t, res.Data.Items, 1)
	it := res.Data.Items[0]
	require.NotNil(t, it.Quantity)
	require.NotNil(t, it.UnitPrice)
	assert.InDelta(t, 2, *it.Quantity, 1e-9)
	assert.InDelta(t, 1500.50, *it.UnitPrice, 1e-9)
	require.NotNil(t, res.Data.Total)
	assert.InDelta(t, 3001, *res.Data.Total, 1e-9)
}

func TestNormalizeSynthesizesItemDescriptions(t *testing.T) {
	res := Normalize(map[string]any{
		"success": true,
		"data": map[string]any{
			"items": []any{
				map[string]any{"amount": 100.0},
				map[string]any{"description": "  ", "amount": 50.0},
				map[string]any{"description": "Hosting", "amount": 25.0},
			},
		},
	})
	require.NotNil(t, res.Data)
	require.Len(t, res.Data.Items, 3)
	assert.Equal(t, "Item 1", res.Data.Items[0].Description)
	assert.Equal(t, "Item 2", res.Data.Items[1].Description)
	assert.Equal(t, "Hosting", res.Data.Items[2].Description)
}

func TestNormalizeFlagsCriticalMissingFields(t *testing.T) {
	res := Normalize(map[string]any{
		"success":       true,
		"missingFields": []any{"client.name"},
		"data":          map[string]any{"notes": "thanks"},
	})
	require.NotNil(t, res.Data)
	// client.name already reported by the model must not be duplicated.
	assert.Equal(t, []string{"client.name", "currency", "items"}, res.MissingFields)
}

func TestNormalizeSnakeCaseAliases(t *testing.T) {
	res := Normalize(map[string]any{
		"success": true,
		"data": map[string]any{
			"due_date":        "2026-09-15",
			"payment_terms":   "Net 30",
			"tax_rate":        0.075,
			"delivery_charge": 20.0,
		},
	})
	require.NotNil(t, res.Data)
	assert.Equal(t, "2026-09-15", res.Data.DueDate)
	assert.Equal(t, "Net 30", res.Data.PaymentTerms)
	require.NotNil(t, res.Data.TaxRate)
	assert.InDelta(t, 0.075, *res.Data.TaxRate, 1e-9)
	require.NotNil(t, res.Data.DeliveryCharge)
	assert.InDelta(t, 20, *res.Data.DeliveryCharge, 1e-9)
}

func TestNormalizeDropsEmptyParty(t *testing.T) {
	res := Normalize(map[string]any{
		"success": true,
		"data": map[string]any{
			"business": map[string]any{"name": "", "address": ""},
			"client":   map[string]any{"name": "Jane"},
		},
	})
	require.NotNil(t, res.Data)
	assert.Nil(t, res.Data.Business)
	require.NotNil(t, res.Data.Client)
	assert.Equal(t, "Jane", res.Data.Client.Name)
}

func TestBackfillDerivationOrder(t *testing.T) {
	d := &DocumentData{
		Items: []LineItem{
			{Description: "Logo", Quantity: f(2), UnitPrice: f(300)},
			{Description: "Cards", Amount: f(150)},
		},
		TaxRate:        f(0.1),
		DeliveryCharge: f(50),
	}
	Backfill(d)

	require.NotNil(t, d.Items[0].Amount)
	assert.InDelta(t, 600, *d.Items[0].Amount, 1e-9)
	require.NotNil(t, d.Subtotal)
	assert.InDelta(t, 750, *d.Subtotal, 1e-9)
	require.NotNil(t, d.TaxAmount)
	assert.InDelta(t, 75, *d.TaxAmount, 1e-9)
	require.NotNil(t, d.Total)
	assert.InDelta(t, 875, *d.Total, 1e-9)
}

func TestBackfillIdempotent(t *testing.T) {
	d := &DocumentData{
		Items:   []LineItem{{Description: "Logo", Quantity: f(2), UnitPrice: f(300)}},
		TaxRate: f(0.05),
	}
	Backfill(d)
	subtotal, tax, total := *d.Subtotal, *d.TaxAmount, *d.Total
	Backfill(d)
	assert.Equal(t, subtotal, *d.Subtotal)
	assert.Equal(t, tax, *d.TaxAmount)
	assert.Equal(t, total, *d.Total)
}

func TestBackfillNeverOverwrites(t *testing.T) {
	d := &DocumentData{
		Items:    []LineItem{{Description: "Logo", Quantity: f(2), UnitPrice: f(300), Amount: f(500)}},
		Subtotal: f(999),
		Total:    f(1200),
	}
	Backfill(d)
	assert.InDelta(t, 500, *d.Items[0].Amount, 1e-9)
	assert.InDelta(t, 999, *d.Subtotal, 1e-9)
	assert.InDelta(t, 1200, *d.Total, 1e-9)
}

func TestBackfillNilAndEmpty(t *testing.T) {
	Backfill(nil) // must not panic

	d := &DocumentData{}
	Backfill(d)
	assert.Nil(t, d.Subtotal)
	assert.Nil(t, d.Total)
}
