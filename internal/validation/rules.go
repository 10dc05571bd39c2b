package validation

import "github.com/quoteflow-app/quoteflow/constants"

// ConditionalRule makes Field required whenever any trigger field resolves
// to a non-empty value.
type ConditionalRule struct {
	Field      string
	RequiredIf []string
}

// Requirements lists the field classification for one document type.
type Requirements struct {
	Required    []string
	Optional    []string
	Conditional []ConditionalRule
}

// Ruleset maps document types to their field requirements. It is injected
// into the Validator at construction and treated as immutable.
type Ruleset map[constants.DocumentType]Requirements

// DefaultRuleset returns the standard requirement tables for quotes and
// invoices.
func DefaultRuleset() Ruleset {
	return Ruleset{
		constants.DocTypeQuote: {
			Required: []string{
				constants.FieldClientName,
				constants.FieldItems,
				constants.FieldCurrency,
			},
			Optional: []string{
				constants.FieldClientAddress,
				constants.FieldClientEmail,
				constants.FieldClientPhone,
				constants.FieldNotes,
				constants.FieldValidUntil,
				constants.FieldBusinessName,
			},
		},
		constants.DocTypeInvoice: {
			Required: []string{
				constants.FieldClientName,
				constants.FieldItems,
				constants.FieldCurrency,
				constants.FieldDueDate,
			},
			Optional: []string{
				constants.FieldClientAddress,
				constants.FieldClientEmail,
				constants.FieldPaymentTerms,
				constants.FieldNotes,
				constants.FieldBusinessName,
			},
			Conditional: []ConditionalRule{
				{Field: constants.FieldPaymentTerms, RequiredIf: []string{constants.FieldDueDate}},
			},
		},
	}
}
