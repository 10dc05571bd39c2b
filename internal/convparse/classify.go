package convparse

import (
	"strings"

	"github.com/quoteflow-app/quoteflow/constants"
)

// Classifier decides whether a conversation is about a quote or an invoice
// from keyword presence in the transcript. The default for ambiguous
// conversations (both words or neither) is configurable; it ships as invoice.
type Classifier struct {
	Default constants.DocumentType
}

func NewClassifier() *Classifier {
	return &Classifier{Default: constants.DocTypeInvoice}
}

// Classify scans the concatenated, lower-cased transcript. A conversation
// mentioning only "invoice" classifies as invoice, only "quote" as quote;
// anything else falls back to the configured default.
func (c *Classifier) Classify(turns []Turn) constants.DocumentType {
	text := strings.ToLower(Transcript(turns))
	hasInvoice := strings.Contains(text, "invoice")
	hasQuote := strings.Contains(text, "quote")

	switch {
	case hasInvoice && !hasQuote:
		return constants.DocTypeInvoice
	case hasQuote && !hasInvoice:
		return constants.DocTypeQuote
	default:
		return c.Default
	}
}
