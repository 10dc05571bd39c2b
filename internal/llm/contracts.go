package llm

import (
	"context"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
)

// BusinessContext carries the caller's issuer profile into the prompt.
type BusinessContext struct {
	BusinessName    string `json:"business_name,omitempty"`
	DefaultCurrency string `json:"default_currency,omitempty"`
}

// ExtractRequest describes one extraction call: either free text (a chat
// message or transcript) or an uploaded image, plus prompt context.
type ExtractRequest struct {
	Text      string
	Image     []byte // raw image bytes; empty for text-only requests
	ImageMIME string // e.g. image/png; required when Image is set

	DocTypeHint constants.DocumentType // unknown lets the model decide
	MaxTokens   int
	Temperature float32

	Business BusinessContext
}

// DocumentExtractor is the interface the chat pipeline depends on.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, req ExtractRequest) (*extraction.VisionResult, []byte /*rawJSON*/, error)
}
