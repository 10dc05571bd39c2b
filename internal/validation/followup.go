package validation

import (
	"fmt"
	"strings"

	"github.com/quoteflow-app/quoteflow/constants"
)

// AllInfoPresent is returned when there is nothing left to ask for.
const AllInfoPresent = "All required information is present!"

// QuestionGenerator turns missing field paths into a human-readable
// clarification prompt. Field descriptions are injected so alternate wording
// (or locales) can be swapped in.
type QuestionGenerator struct {
	descriptions map[string]string
}

func NewQuestionGenerator(descriptions map[string]string) *QuestionGenerator {
	if descriptions == nil {
		descriptions = DefaultFieldDescriptions()
	}
	return &QuestionGenerator{descriptions: descriptions}
}

// DefaultFieldDescriptions maps known field paths to natural-language
// descriptions used in follow-up questions.
func DefaultFieldDescriptions() map[string]string {
	return map[string]string{
		constants.FieldClientName:    "the client's name or company name",
		constants.FieldClientAddress: "the client's address",
		constants.FieldClientEmail:   "the client's email address",
		constants.FieldClientPhone:   "the client's phone number",
		constants.FieldBusinessName:  "your business name",
		constants.FieldItems:         "the products or services to include, with quantities and prices",
		constants.FieldCurrency:      "the currency (e.g., USD, NGN, EUR, GBP)",
		constants.FieldDueDate:       "the date payment is due",
		constants.FieldValidUntil:    "how long the quote remains valid",
		constants.FieldPaymentTerms:  "the payment terms (e.g., 50% upfront, net 30)",
		constants.FieldNotes:         "any notes to include on the document",
	}
}

// FollowUp builds a single clarification message for the given missing field
// paths. Unknown paths are silently dropped; if none remain, a generic
// clarification sentence is returned instead of an empty list.
func (g *QuestionGenerator) FollowUp(missing []string, docType constants.DocumentType) string {
	if len(missing) == 0 {
		return AllInfoPresent
	}

	var bullets []string
	for _, field := range missing {
		if desc, ok := g.descriptions[field]; ok {
			bullets = append(bullets, "- "+desc)
		}
	}
	if len(bullets) == 0 {
		return fmt.Sprintf("I need some clarification before I can prepare your %s. Could you tell me a bit more?", docType)
	}

	return fmt.Sprintf("To finish your %s, I still need:\n%s", docType, strings.Join(bullets, "\n"))
}
