package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sanitized(t *testing.T, in string) (map[string]any, []string) {
	t.Helper()
	out, dropped, err := SanitizeOptionalFields([]byte(in))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m, dropped
}

func TestSanitizeCurrencyCasing(t *testing.T) {
	m, dropped := sanitized(t, `{"data": {"currency": " usd "}}`)
	data := m["data"].(map[string]any)
	assert.Equal(t, "USD", data["currency"])
	assert.Empty(t, dropped)
}

func TestSanitizeCurrencyNonISO(t *testing.T) {
	m, dropped := sanitized(t, `{"data": {"currency": "dollars"}}`)
	data := m["data"].(map[string]any)
	_, ok := data["currency"]
	assert.False(t, ok)
	assert.Equal(t, []string{"currency"}, dropped)
}

func TestSanitizeMoneyFields(t *testing.T) {
	m, dropped := sanitized(t, `{"data": {
		"subtotal": 100,
		"taxRate": "0.075",
		"taxAmount": null,
		"deliveryCharge": "  ",
		"total": "about 500"
	}}`)
	data := m["data"].(map[string]any)

	assert.Equal(t, 100.0, data["subtotal"])
	assert.Equal(t, "0.075", data["taxRate"])
	_, ok := data["taxAmount"]
	assert.False(t, ok)
	_, ok = data["deliveryCharge"]
	assert.False(t, ok)
	_, ok = data["total"]
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"taxAmount", "deliveryCharge", "total"}, dropped)
}

func TestSanitizeConfidenceClamped(t *testing.T) {
	m, _ := sanitized(t, `{"confidence": 1.4, "data": {}}`)
	assert.Equal(t, 1.0, m["confidence"])

	m, _ = sanitized(t, `{"confidence": -0.2, "data": {}}`)
	assert.Equal(t, 0.0, m["confidence"])

	m, _ = sanitized(t, `{"confidence": 0.5, "data": {}}`)
	assert.Equal(t, 0.5, m["confidence"])
}

func TestSanitizeNoDataObject(t *testing.T) {
	m, dropped := sanitized(t, `{"success": false, "error": "nope"}`)
	assert.Equal(t, false, m["success"])
	assert.Empty(t, dropped)
}

func TestSanitizeInvalidJSON(t *testing.T) {
	_, _, err := SanitizeOptionalFields([]byte("not json"))
	assert.Error(t, err)
}

func TestSchemaAcceptsCoercibleDocument(t *testing.T) {
	schema := BuildDocumentJSONSchema()
	doc := []byte(`{
		"success": true,
		"documentType": "invoice",
		"confidence": 0.9,
		"data": {
			"client": {"name": "Acme Ltd"},
			"currency": "USD",
			"items": [{"description": "Design", "quantity": "2", "unitPrice": 300}],
			"total": "600"
		},
		"missingFields": []
	}`)
	assert.NoError(t, ValidateJSONAgainstSchema(schema, doc))
}

func TestSchemaRejectsBadShapes(t *testing.T) {
	schema := BuildDocumentJSONSchema()

	// documentType outside the enum
	assert.Error(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"success": true, "documentType": "memo"}`)))

	// required keys missing
	assert.Error(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"confidence": 0.5}`)))

	// confidence out of range
	assert.Error(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"success": true, "documentType": "invoice", "confidence": 3}`)))

	// non-numeric money string
	assert.Error(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"success": true, "documentType": "invoice", "data": {"total": "a lot"}}`)))
}

func TestSchemaThenSanitizeRoundTrip(t *testing.T) {
	schema := BuildDocumentJSONSchema()
	raw := []byte(`{
		"success": true,
		"documentType": "quote",
		"confidence": 1.2,
		"data": {"currency": "eur", "total": "a lot"}
	}`)

	require.Error(t, ValidateJSONAgainstSchema(schema, raw))

	fixed, dropped, err := SanitizeOptionalFields(raw)
	require.NoError(t, err)
	assert.Contains(t, dropped, "total")
	assert.NoError(t, ValidateJSONAgainstSchema(schema, fixed))
}
