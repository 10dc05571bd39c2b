package constants

// DocumentStatus is the canonical status for persisted quote/invoice rows.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusDraft    DocumentStatus = "DRAFT"    // created, not yet sent
	StatusSent     DocumentStatus = "SENT"     // delivered to the client
	StatusAccepted DocumentStatus = "ACCEPTED" // quote accepted by the client
	StatusPaid     DocumentStatus = "PAID"     // invoice settled
	StatusVoid     DocumentStatus = "VOID"     // cancelled, kept for audit
)

// Valid reports whether s is one of the stable status values.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusPaid, StatusVoid:
		return true
	}
	return false
}
