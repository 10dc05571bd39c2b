package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want DocumentType
		ok   bool
	}{
		{"invoice", DocTypeInvoice, true},
		{"  Invoice ", DocTypeInvoice, true},
		{"bill", DocTypeInvoice, true},
		{"quote", DocTypeQuote, true},
		{"quotation", DocTypeQuote, true},
		{"estimate", DocTypeQuote, true},
		{"proforma", DocTypeQuote, true},
		{"receipt", DocTypeReceipt, true},
		{"card", DocTypeBusinessCard, true},
		{"unknown", DocTypeUnknown, true},
		{"", DocTypeUnknown, false},
		{"memo", DocTypeUnknown, false},
	}
	for _, tc := range cases {
		got, ok := Canonicalize(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

func TestCreatable(t *testing.T) {
	assert.True(t, DocTypeInvoice.Creatable())
	assert.True(t, DocTypeQuote.Creatable())
	assert.False(t, DocTypeReceipt.Creatable())
	assert.False(t, DocTypeBusinessCard.Creatable())
	assert.False(t, DocTypeUnknown.Creatable())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusVoid.Valid())
	assert.False(t, DocumentStatus("draft").Valid())
	assert.False(t, DocumentStatus("").Valid())
}
