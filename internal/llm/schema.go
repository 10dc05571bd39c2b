package llm

import "github.com/quoteflow-app/quoteflow/constants"

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is sent to the model as a structured output constraint and
// used locally to validate the response before normalization.
//
// Numeric fields accept string or number: models frequently quote amounts,
// and the normalizer coerces either form.
func BuildDocumentJSONSchema() map[string]any {
	party := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"address": map[string]any{"type": "string"},
			"phone":   map[string]any{"type": "string"},
			"email":   map[string]any{"type": "string"},
		},
	}
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"quantity":    numericProp(),
			"unitPrice":   numericProp(),
			"amount":      numericProp(),
		},
	}
	data := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"business":       party,
			"client":         party,
			"documentNumber": map[string]any{"type": "string"},
			"date":           map[string]any{"type": "string"},
			"dueDate":        map[string]any{"type": "string"},
			"validUntil":     map[string]any{"type": "string"},
			"currency":       map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
			"items":          map[string]any{"type": "array", "items": item},
			"subtotal":       numericProp(),
			"taxRate":        numericProp(),
			"taxAmount":      numericProp(),
			"deliveryCharge": numericProp(),
			"total":          numericProp(),
			"notes":          map[string]any{"type": "string"},
			"paymentTerms":   map[string]any{"type": "string"},
		},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success":       map[string]any{"type": "boolean"},
			"documentType":  map[string]any{"type": "string", "enum": constants.AsStringSlice()},
			"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"data":          data,
			"missingFields": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"error":         map[string]any{"type": "string"},
			"rawText":       map[string]any{"type": "string"},
		},
		"required": []string{"success", "documentType"},
	}
}

func numericProp() map[string]any {
	return map[string]any{
		"anyOf": []any{
			map[string]any{"type": "number"},
			map[string]any{"type": "string", "pattern": `^-?[\d,]+(\.\d+)?$`},
		},
	}
}
