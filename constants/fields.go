package constants

// Dotted field paths used across normalization, validation and follow-up
// question generation. These are stable identifiers, not display names.
const (
	FieldClientName    = "client.name"
	FieldClientAddress = "client.address"
	FieldClientEmail   = "client.email"
	FieldClientPhone   = "client.phone"
	FieldBusinessName  = "business.name"
	FieldItems         = "items"
	FieldCurrency      = "currency"
	FieldDueDate       = "due_date"
	FieldValidUntil    = "valid_until"
	FieldPaymentTerms  = "payment_terms"
	FieldNotes         = "notes"
)
