package llm

import (
	"strings"

	"github.com/quoteflow-app/quoteflow/constants"
)

// BuildSystemPrompt composes the system message with the document-type hint,
// currency defaults, business context, and formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	defCur := strings.TrimSpace(req.Business.DefaultCurrency)
	if defCur == "" {
		defCur = "USD"
	}

	var typeLine string
	if req.DocTypeHint != "" && req.DocTypeHint != constants.DocTypeUnknown {
		typeLine = "The user is preparing a document of type '" + string(req.DocTypeHint) + "'; set 'documentType' accordingly unless the content clearly says otherwise. "
	} else {
		typeLine = "Set 'documentType' to one of: " + strings.Join(constants.AsStringSlice(), ", ") + ". Use 'unknown' only when nothing fits. "
	}

	parts := []string{
		"You are a quote and invoice parser. Return ONLY JSON that matches the provided JSON Schema.",
		typeLine,
		"Put everything you can read into 'data': business, client, line items (description, quantity, unitPrice, amount), dates, currency, totals.",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"Currency must be a 3-letter ISO 4217 code; default to " + defCur + " if uncertain.",
		"Express taxRate as a fraction (0.075 for 7.5%).",
		"List any field you could not read in 'missingFields' using dotted paths like client.name.",
		"Set 'success' true whenever you extracted anything usable, and 'confidence' between 0 and 1.",
		"Never output null. If a field is not present, omit it.",
	}
	if n := strings.TrimSpace(req.Business.BusinessName); n != "" {
		parts = append(parts, "The issuing business is "+n+"; details matching it belong under 'business', not 'client'.")
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt wraps the conversation or OCR text. When an image is
// attached the text (if any) is only a hint; the image is authoritative.
func BuildUserPrompt(req ExtractRequest, imageAttached bool) string {
	var b strings.Builder
	if imageAttached {
		b.WriteString("Extract the document in the attached image.")
		if t := strings.TrimSpace(req.Text); t != "" {
			b.WriteString(" Additional context from the user:\n")
			b.WriteString(truncate(t, 2000))
		}
		return b.String()
	}

	b.WriteString("Extract a document from this conversation:\n\n")
	b.WriteString(truncate(req.Text, 6000))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
