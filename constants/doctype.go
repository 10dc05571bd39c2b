package constants

import (
	"strings"
)

// DocumentType classifies what kind of document an extraction produced.
type DocumentType string

const (
	DocTypeInvoice      DocumentType = "invoice"
	DocTypeQuote        DocumentType = "quote"
	DocTypeReceipt      DocumentType = "receipt"
	DocTypeBusinessCard DocumentType = "business_card"
	DocTypeUnknown      DocumentType = "unknown"
)

var allDocumentTypes = []DocumentType{
	DocTypeInvoice,
	DocTypeQuote,
	DocTypeReceipt,
	DocTypeBusinessCard,
	DocTypeUnknown,
}

func AsStringSlice() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// Canonicalize maps a free-form label to a DocumentType. Unrecognized
// labels resolve to DocTypeUnknown with ok=false.
func Canonicalize(input string) (DocumentType, bool) {
	if input == "" {
		return DocTypeUnknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]DocumentType{
		"bill":          DocTypeInvoice,
		"tax invoice":   DocTypeInvoice,
		"proforma":      DocTypeQuote,
		"quotation":     DocTypeQuote,
		"estimate":      DocTypeQuote,
		"sales receipt": DocTypeReceipt,
		"card":          DocTypeBusinessCard,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	for _, dt := range allDocumentTypes {
		if normalized == strings.ToLower(string(dt)) {
			return dt, true
		}
	}

	return DocTypeUnknown, false
}

// Creatable reports whether a document of this type can be persisted as a
// quote or invoice record.
func (d DocumentType) Creatable() bool {
	return d == DocTypeInvoice || d == DocTypeQuote
}
