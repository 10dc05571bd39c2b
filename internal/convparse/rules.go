package convparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quoteflow-app/quoteflow/internal/extraction"
)

// Rule is one independent extraction heuristic. Rules are composed in an
// explicit ordered list and each writes its findings into the shared record;
// later rules may read what earlier rules produced (the delivery-charge rule
// depends on the item list, for example).
type Rule interface {
	Name() string
	Apply(text string, d *extraction.DocumentData)
}

var (
	// "2 x Logo design at $300" / "2 × chairs @ 25.50 each"
	reQtyItemPrice = regexp.MustCompile(`(?im)^\s*(?:[-*]\s*)?(\d+(?:\.\d+)?)\s*[x×]\s*([^\n@]+?)\s*(?:@|at)\s*([$€£₦]?\s?\d[\d,]*(?:\.\d{1,2})?)(?:\s*each)?\s*\.?\s*$`)
	// "10 chairs at 25 each" inline in a sentence
	reInlineItem = regexp.MustCompile(`(?i)\b(\d{1,4})\s+([a-z][a-z][\w -]{0,38}?)\s+(?:at|@)\s+([$€£₦]?\s?\d[\d,]*(?:\.\d{1,2})?)\s*(?:each|apiece|per\s+\w+)?\b`)
	// "3 logos for $900": the price is the line total, not the unit price
	reItemForTotal = regexp.MustCompile(`(?i)\b(\d{1,4})\s+([a-z][a-z][\w -]{0,38}?)\s+for\s+([$€£₦]\s?\d[\d,]*(?:\.\d{1,2})?)\b`)

	reBusinessName = regexp.MustCompile(`(?im)\b(?:my (?:business|company)(?:'s)?(?: name)? is|we are|business name[:\s]|sender[:\s])\s*([A-Z][\w&.' -]{1,50}?)\s*(?:[.,\n]|$)`)
	reClientName   = regexp.MustCompile(`(?im)\b(?:client(?:'s name)? is|client[:\s]|(?:invoice|quote|bill)\s+(?:is\s+)?for|bill(?:ed)?\s+to|to client)\s*([A-Z][\w&.' -]{1,50}?)\s*(?:[.,\n]|$)`)

	reISOCurrency = regexp.MustCompile(`\b(USD|EUR|GBP|NGN|CAD|AUD|JPY|CNY|INR|ZAR|KES|GHS)\b`)

	reSubtotal   = regexp.MustCompile(`(?i)\bsub\s?total(?:\s+(?:is|of))?[:\s]+([$€£₦]?\s?\d[\d,]*(?:\.\d{1,2})?)`)
	reTotal      = regexp.MustCompile(`(?i)\b(?:grand\s+)?total(?:\s+(?:is|of))?[:\s]+([$€£₦]?\s?\d[\d,]*(?:\.\d{1,2})?)`)
	reTaxRate    = regexp.MustCompile(`(?i)\b(?:tax|vat)(?:\s+rate)?(?:\s+(?:is|of))?[:\s]+(\d{1,2}(?:\.\d+)?)\s*%`)
	reDeliveryPc = regexp.MustCompile(`(?i)\bdelivery(?:\s+(?:charge|fee|cost))?(?:\s+(?:is|of))?[:\s]+(\d{1,2}(?:\.\d+)?)\s*%`)
	reDeliveryAb = regexp.MustCompile(`(?i)\bdelivery(?:\s+(?:charge|fee|cost))?(?:\s+(?:is|of))?[:\s]+([$€£₦]\s?\d[\d,]*(?:\.\d{1,2})?)`)

	rePaymentTerms = regexp.MustCompile(`(?im)\bpayment terms?(?:\s+(?:are|is))?[:\s]+([^\n.]{3,80})`)
	reNetTerms     = regexp.MustCompile(`(?i)\bnet\s?(\d{1,3})\b`)
	reUpfront      = regexp.MustCompile(`(?i)\b(\d{1,3})\s?%\s*(?:upfront|deposit|advance|in advance)\b`)

	reDueDate      = regexp.MustCompile(`(?i)\bdue\s+(?:by|on|date[:\s]*)?\s*(\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[A-Za-z]+\s+\d{1,2}(?:,?\s*\d{4})?)`)
	reDeliveryDate = regexp.MustCompile(`(?i)\bdeliver(?:y|ed)?\s+(?:by|on|date[:\s]*)\s*(\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[A-Za-z]+\s+\d{1,2}(?:,?\s*\d{4})?)`)

	reBankName = regexp.MustCompile(`(?im)\bbank(?:\s+name)?[:\s]+([A-Z][\w .&-]{2,40}?)\s*(?:[,\n]|$)`)
	reAccount  = regexp.MustCompile(`(?i)\b(?:account|acct)(?:\s+(?:number|no\.?))?[:\s]+(\d[\d -]{6,18}\d)`)
	reSortCode = regexp.MustCompile(`(?i)\bsort\s?code[:\s]+(\d{2}[- ]?\d{2}[- ]?\d{2})`)
)

// parseMoney strips currency symbols and thousands separators.
func parseMoney(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£₦ ")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ItemsRule finds line items stated as quantity/description/price tuples.
type ItemsRule struct{}

func (ItemsRule) Name() string { return "items" }

func (ItemsRule) Apply(text string, d *extraction.DocumentData) {
	add := func(desc string, qty, unit, amount *float64) {
		desc = strings.TrimSpace(desc)
		if desc == "" {
			return
		}
		for _, it := range d.Items {
			if strings.EqualFold(it.Description, desc) {
				return
			}
		}
		d.Items = append(d.Items, extraction.LineItem{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   unit,
			Amount:      amount,
		})
	}

	for _, m := range reQtyItemPrice.FindAllStringSubmatch(text, -1) {
		qty := parseMoney(m[1])
		add(m[2], qty, parseMoney(m[3]), nil)
	}
	for _, m := range reInlineItem.FindAllStringSubmatch(text, -1) {
		add(m[2], parseMoney(m[1]), parseMoney(m[3]), nil)
	}
	for _, m := range reItemForTotal.FindAllStringSubmatch(text, -1) {
		add(m[2], parseMoney(m[1]), nil, parseMoney(m[3]))
	}
}

// PartiesRule picks up the issuing business and the client by introduction
// phrases ("my company is ...", "invoice for ...").
type PartiesRule struct{}

func (PartiesRule) Name() string { return "parties" }

func (PartiesRule) Apply(text string, d *extraction.DocumentData) {
	if m := reBusinessName.FindStringSubmatch(text); m != nil {
		if d.Business == nil {
			d.Business = &extraction.Party{}
		}
		if d.Business.Name == "" {
			d.Business.Name = strings.TrimSpace(m[1])
		}
	}
	if m := reClientName.FindStringSubmatch(text); m != nil {
		if d.Client == nil {
			d.Client = &extraction.Party{}
		}
		if d.Client.Name == "" {
			d.Client.Name = strings.TrimSpace(m[1])
		}
	}
}

// CurrencyRule resolves an ISO code, either stated directly or implied by a
// currency symbol. The first symbol seen wins when no code is present.
type CurrencyRule struct{}

func (CurrencyRule) Name() string { return "currency" }

var symbolCurrencies = []struct {
	symbol string
	code   string
}{
	{"₦", "NGN"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
}

func (CurrencyRule) Apply(text string, d *extraction.DocumentData) {
	if d.Currency != "" {
		return
	}
	if m := reISOCurrency.FindStringSubmatch(strings.ToUpper(text)); m != nil {
		d.Currency = m[1]
		return
	}
	for _, sc := range symbolCurrencies {
		if strings.Contains(text, sc.symbol) {
			d.Currency = sc.code
			return
		}
	}
}

// AmountsRule extracts explicitly stated subtotal, total and tax rate.
// Stated figures win over derived ones, so this runs before backfill.
type AmountsRule struct{}

func (AmountsRule) Name() string { return "amounts" }

func (AmountsRule) Apply(text string, d *extraction.DocumentData) {
	if d.Subtotal == nil {
		if m := reSubtotal.FindStringSubmatch(text); m != nil {
			d.Subtotal = parseMoney(m[1])
		}
	}
	if d.Total == nil {
		if m := reTotal.FindStringSubmatch(text); m != nil {
			d.Total = parseMoney(m[1])
		}
	}
	if d.TaxRate == nil {
		if m := reTaxRate.FindStringSubmatch(text); m != nil {
			if pct := parseMoney(m[1]); pct != nil {
				rate := *pct / 100
				d.TaxRate = &rate
			}
		}
	}
}

// DeliveryRule handles delivery cost, stated either as an absolute amount or
// as a percentage of the item subtotal, and a delivery date. It must run
// after ItemsRule so a percentage has something to apply to.
type DeliveryRule struct{}

func (DeliveryRule) Name() string { return "delivery" }

func (DeliveryRule) Apply(text string, d *extraction.DocumentData) {
	if d.DeliveryCharge == nil {
		if m := reDeliveryAb.FindStringSubmatch(text); m != nil {
			d.DeliveryCharge = parseMoney(m[1])
		} else if m := reDeliveryPc.FindStringSubmatch(text); m != nil {
			if pct := parseMoney(m[1]); pct != nil {
				var sum float64
				for _, it := range d.Items {
					switch {
					case it.Amount != nil:
						sum += *it.Amount
					case it.Quantity != nil && it.UnitPrice != nil:
						sum += *it.Quantity * *it.UnitPrice
					}
				}
				if sum > 0 {
					charge := sum * *pct / 100
					d.DeliveryCharge = &charge
				}
			}
		}
	}
	if m := reDeliveryDate.FindStringSubmatch(text); m != nil {
		appendNote(d, "Delivery date: "+strings.TrimSpace(m[1]))
	}
}

// TermsRule extracts payment terms and the due date.
type TermsRule struct{}

func (TermsRule) Name() string { return "terms" }

func (TermsRule) Apply(text string, d *extraction.DocumentData) {
	if d.PaymentTerms == "" {
		if m := rePaymentTerms.FindStringSubmatch(text); m != nil {
			d.PaymentTerms = strings.TrimSpace(m[1])
		} else if m := reUpfront.FindStringSubmatch(text); m != nil {
			d.PaymentTerms = m[1] + "% upfront"
		} else if m := reNetTerms.FindStringSubmatch(text); m != nil {
			d.PaymentTerms = "Net " + m[1]
		}
	}
	if d.DueDate == "" {
		if m := reDueDate.FindStringSubmatch(text); m != nil {
			d.DueDate = strings.TrimSpace(m[1])
		}
	}
}

// BankDetailsRule collects structured payment details into the notes.
type BankDetailsRule struct{}

func (BankDetailsRule) Name() string { return "bank_details" }

func (BankDetailsRule) Apply(text string, d *extraction.DocumentData) {
	if m := reBankName.FindStringSubmatch(text); m != nil {
		appendNote(d, "Bank: "+strings.TrimSpace(m[1]))
	}
	if m := reAccount.FindStringSubmatch(text); m != nil {
		appendNote(d, "Account: "+strings.TrimSpace(m[1]))
	}
	if m := reSortCode.FindStringSubmatch(text); m != nil {
		appendNote(d, "Sort code: "+strings.TrimSpace(m[1]))
	}
}

func appendNote(d *extraction.DocumentData, line string) {
	if strings.Contains(d.Notes, line) {
		return
	}
	if d.Notes == "" {
		d.Notes = line
		return
	}
	d.Notes += "\n" + line
}
