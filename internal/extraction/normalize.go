package extraction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quoteflow-app/quoteflow/constants"
)

// Normalize coerces a raw, loosely-typed object purportedly matching
// VisionResult into a well-typed, internally consistent one. Malformed input
// never produces an error; every field degrades to its zero/absent default.
func Normalize(raw map[string]any) *VisionResult {
	res := &VisionResult{
		DocumentType:  constants.DocTypeUnknown,
		MissingFields: []string{},
	}
	if raw == nil {
		return res
	}

	res.Success, _ = raw["success"].(bool)
	if s, ok := raw["documentType"].(string); ok {
		if dt, ok := constants.Canonicalize(s); ok {
			res.DocumentType = dt
		}
	}
	if c := asFloat(raw["confidence"]); c != nil {
		res.Confidence = *c
	}
	if mf, ok := raw["missingFields"].([]any); ok {
		for _, v := range mf {
			if s, ok := v.(string); ok {
				res.MissingFields = appendUnique(res.MissingFields, s)
			}
		}
	}
	res.Error, _ = raw["error"].(string)
	res.RawText, _ = raw["rawText"].(string)

	// Failed or empty extractions are returned as-is; there is nothing to
	// normalize and the caller handles the shell.
	dataRaw, ok := raw["data"].(map[string]any)
	if !res.Success || !ok {
		return res
	}

	res.Data = normalizeData(dataRaw)
	Backfill(res.Data)

	if res.Data.Client == nil || res.Data.Client.Name == "" {
		res.MissingFields = appendUnique(res.MissingFields, constants.FieldClientName)
	}
	if res.Data.Currency == "" {
		res.MissingFields = appendUnique(res.MissingFields, constants.FieldCurrency)
	}
	if len(res.Data.Items) == 0 {
		res.MissingFields = appendUnique(res.MissingFields, constants.FieldItems)
	}
	return res
}

// Backfill derives missing monetary fields in place, in a fixed order:
// subtotal from item amounts, taxAmount from subtotal*taxRate, and total from
// subtotal plus the known addends. Applying it twice is a no-op.
func Backfill(d *DocumentData) {
	if d == nil {
		return
	}

	for i := range d.Items {
		it := &d.Items[i]
		if it.Amount == nil && it.Quantity != nil && it.UnitPrice != nil {
			amt := *it.Quantity * *it.UnitPrice
			it.Amount = &amt
		}
	}

	if d.Subtotal == nil && len(d.Items) > 0 {
		var sum float64
		for _, it := range d.Items {
			if it.Amount != nil {
				sum += *it.Amount
			}
		}
		if sum > 0 {
			d.Subtotal = &sum
		}
	}
	if d.TaxAmount == nil && d.Subtotal != nil && d.TaxRate != nil {
		tax := *d.Subtotal * *d.TaxRate
		d.TaxAmount = &tax
	}
	if d.Total == nil && d.Subtotal != nil {
		total := *d.Subtotal
		if d.TaxAmount != nil {
			total += *d.TaxAmount
		}
		if d.DeliveryCharge != nil {
			total += *d.DeliveryCharge
		}
		d.Total = &total
	}
}

func normalizeData(raw map[string]any) *DocumentData {
	d := &DocumentData{}

	d.Business = asParty(raw["business"])
	d.Client = asParty(raw["client"])
	d.DocumentNumber = asString(raw["documentNumber"])
	d.Date = asString(raw["date"])
	d.DueDate = firstString(raw, "dueDate", "due_date")
	d.ValidUntil = firstString(raw, "validUntil", "valid_until")
	d.Currency = strings.ToUpper(asString(raw["currency"]))
	d.Notes = asString(raw["notes"])
	d.PaymentTerms = firstString(raw, "paymentTerms", "payment_terms")

	if items, ok := raw["items"].([]any); ok {
		for i, v := range items {
			m, ok := v.(map[string]any)
			if !ok {
				continue
			}
			it := LineItem{
				Description: asString(m["description"]),
				Quantity:    asFloat(m["quantity"]),
				UnitPrice:   firstFloat(m, "unitPrice", "unit_price"),
				Amount:      asFloat(m["amount"]),
			}
			if it.Description == "" {
				it.Description = fmt.Sprintf("Item %d", i+1)
			}
			d.Items = append(d.Items, it)
		}
	}

	d.Subtotal = asFloat(raw["subtotal"])
	d.TaxRate = firstFloat(raw, "taxRate", "tax_rate")
	d.TaxAmount = firstFloat(raw, "taxAmount", "tax_amount")
	d.DeliveryCharge = firstFloat(raw, "deliveryCharge", "delivery_charge")
	d.Total = asFloat(raw["total"])

	return d
}

func asParty(v any) *Party {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	p := &Party{
		Name:    asString(m["name"]),
		Address: asString(m["address"]),
		Phone:   asString(m["phone"]),
		Email:   asString(m["email"]),
	}
	if p.Name == "" && p.Address == "" && p.Phone == "" && p.Email == "" {
		return nil
	}
	return p
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// asFloat accepts numbers and numeric strings; anything else is absent.
func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

func firstFloat(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if f := asFloat(m[k]); f != nil {
			return f
		}
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
