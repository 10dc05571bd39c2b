package extraction

// Merge combines a prior DocumentData with user-supplied corrections.
// Business and client are merged key-by-key (update wins per key), items are
// replaced wholesale when the update supplies any, and scalar fields take the
// update value when present. Neither input is mutated.
func Merge(prior, update *DocumentData) *DocumentData {
	if prior == nil && update == nil {
		return nil
	}
	if prior == nil {
		prior = &DocumentData{}
	}
	if update == nil {
		update = &DocumentData{}
	}

	out := *prior

	out.Business = mergeParty(prior.Business, update.Business)
	out.Client = mergeParty(prior.Client, update.Client)

	if update.Items != nil {
		out.Items = update.Items
	}

	if update.DocumentNumber != "" {
		out.DocumentNumber = update.DocumentNumber
	}
	if update.Date != "" {
		out.Date = update.Date
	}
	if update.DueDate != "" {
		out.DueDate = update.DueDate
	}
	if update.ValidUntil != "" {
		out.ValidUntil = update.ValidUntil
	}
	if update.Currency != "" {
		out.Currency = update.Currency
	}
	if update.Subtotal != nil {
		out.Subtotal = update.Subtotal
	}
	if update.TaxRate != nil {
		out.TaxRate = update.TaxRate
	}
	if update.TaxAmount != nil {
		out.TaxAmount = update.TaxAmount
	}
	if update.DeliveryCharge != nil {
		out.DeliveryCharge = update.DeliveryCharge
	}
	if update.Total != nil {
		out.Total = update.Total
	}
	if update.Notes != "" {
		out.Notes = update.Notes
	}
	if update.PaymentTerms != "" {
		out.PaymentTerms = update.PaymentTerms
	}

	return &out
}

func mergeParty(prior, update *Party) *Party {
	if update == nil {
		return prior
	}
	if prior == nil {
		p := *update
		return &p
	}
	out := *prior
	if update.Name != "" {
		out.Name = update.Name
	}
	if update.Address != "" {
		out.Address = update.Address
	}
	if update.Phone != "" {
		out.Phone = update.Phone
	}
	if update.Email != "" {
		out.Email = update.Email
	}
	return &out
}
