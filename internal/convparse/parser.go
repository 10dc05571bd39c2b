package convparse

import (
	"log/slog"

	"github.com/quoteflow-app/quoteflow/internal/extraction"
)

// Parser assembles a canonical document record from a multi-turn chat
// transcript using keyword and pattern heuristics, without a model call.
// It is best-effort: a miss is not an error, the caller falls back to the
// model path or asks a follow-up question.
type Parser struct {
	logger *slog.Logger
	rules  []Rule
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logger,
		// Order matters: DeliveryRule reads the item list, AmountsRule must
		// see stated figures before Backfill derives them.
		rules: []Rule{
			ItemsRule{},
			PartiesRule{},
			CurrencyRule{},
			AmountsRule{},
			DeliveryRule{},
			TermsRule{},
			BankDetailsRule{},
		},
	}
}

// Parse runs every rule over the user transcript. The result is usable only
// when both a business name and at least one line item were found; ok=false
// otherwise, with whatever partial record was assembled.
func (p *Parser) Parse(turns []Turn) (*extraction.DocumentData, bool) {
	text := UserTranscript(turns)
	d := &extraction.DocumentData{}

	for _, r := range p.rules {
		r.Apply(text, d)
	}

	ok := d.Business != nil && d.Business.Name != "" && len(d.Items) > 0
	if ok {
		extraction.Backfill(d)
	}

	p.logger.Debug("convparse.done",
		"usable", ok,
		"items", len(d.Items),
		"has_client", d.Client != nil && d.Client.Name != "",
		"currency", d.Currency,
	)
	return d, ok
}
