package validation

import (
	"fmt"
	"strings"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
)

// Severity grades a validation outcome.
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Result describes completeness of an extraction and its fitness for
// unattended document creation. It is derived per call, never persisted.
type Result struct {
	IsComplete      bool     `json:"isComplete"`
	CanAutoCreate   bool     `json:"canAutoCreate"`
	MissingRequired []string `json:"missingRequired"`
	MissingOptional []string `json:"missingOptional"`
	Warnings        []string `json:"warnings"`
	Severity        Severity `json:"severity"`
}

// Validator checks DocumentData against a per-document-type requirement
// table.
type Validator struct {
	rules Ruleset
}

func NewValidator(rules Ruleset) *Validator {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Validator{rules: rules}
}

// Validate computes a completeness verdict for data as a document of the
// given type. A nil data reports every required field missing.
func (v *Validator) Validate(data *extraction.DocumentData, docType constants.DocumentType) Result {
	req := v.rules[docType]
	res := Result{
		MissingRequired: []string{},
		MissingOptional: []string{},
		Warnings:        []string{},
	}

	if data == nil {
		res.MissingRequired = append(res.MissingRequired, req.Required...)
		res.Warnings = append(res.Warnings, "No data could be extracted")
		res.Severity = SeverityError
		return res
	}

	for _, field := range req.Required {
		if isAbsent(resolve(data, field)) {
			res.MissingRequired = append(res.MissingRequired, field)
		}
	}
	for _, field := range req.Optional {
		if isAbsent(resolve(data, field)) {
			res.MissingOptional = append(res.MissingOptional, field)
		}
	}

	if len(data.Items) == 0 {
		if !contains(res.MissingRequired, constants.FieldItems) {
			res.MissingRequired = append(res.MissingRequired, constants.FieldItems)
		}
		res.Warnings = append(res.Warnings, "No line items were found")
	} else {
		incomplete := 0
		for _, it := range data.Items {
			hasAmount := it.Amount != nil || (it.Quantity != nil && it.UnitPrice != nil)
			if it.Description == "" && !hasAmount {
				incomplete++
			}
		}
		if incomplete > 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%d item(s) are missing both a description and an amount", incomplete))
		}
	}

	// Currency absence fires both ways: it stays in the required scan above
	// and also surfaces as a warning.
	if data.Currency == "" {
		res.Warnings = append(res.Warnings, "No currency was specified")
	}

	for _, rule := range req.Conditional {
		triggered := false
		for _, trigger := range rule.RequiredIf {
			if !isAbsent(resolve(data, trigger)) {
				triggered = true
				break
			}
		}
		if triggered && isAbsent(resolve(data, rule.Field)) && !contains(res.MissingRequired, rule.Field) {
			res.MissingRequired = append(res.MissingRequired, rule.Field)
		}
	}

	res.IsComplete = len(res.MissingRequired) == 0
	res.CanAutoCreate = res.IsComplete && len(res.Warnings) == 0
	switch {
	case len(res.MissingRequired) > 0:
		res.Severity = SeverityError
	case len(res.Warnings) > 0 || len(res.MissingOptional) > 0:
		res.Severity = SeverityWarning
	default:
		res.Severity = SeverityNone
	}
	return res
}

// resolve looks up a dotted field path on the typed record. Items resolve to
// the slice only when non-empty; due_date and valid_until accept either
// spelling used by upstream producers.
func resolve(d *extraction.DocumentData, path string) any {
	head, rest, nested := strings.Cut(path, ".")
	if nested {
		var p *extraction.Party
		switch head {
		case "client":
			p = d.Client
		case "business":
			p = d.Business
		default:
			return nil
		}
		if p == nil {
			return nil
		}
		switch rest {
		case "name":
			return p.Name
		case "address":
			return p.Address
		case "phone":
			return p.Phone
		case "email":
			return p.Email
		}
		return nil
	}

	switch path {
	case constants.FieldItems:
		if len(d.Items) > 0 {
			return d.Items
		}
		return nil
	case constants.FieldDueDate, "dueDate":
		return d.DueDate
	case constants.FieldValidUntil, "validUntil":
		return d.ValidUntil
	case constants.FieldCurrency:
		return d.Currency
	case constants.FieldPaymentTerms, "paymentTerms":
		return d.PaymentTerms
	case constants.FieldNotes:
		return d.Notes
	case "date":
		return d.Date
	case "document_number", "documentNumber":
		return d.DocumentNumber
	case "subtotal":
		return d.Subtotal
	case "total":
		return d.Total
	}
	return nil
}

func isAbsent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case *float64:
		return t == nil
	case []extraction.LineItem:
		return len(t) == 0
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
