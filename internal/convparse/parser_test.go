package convparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteflow-app/quoteflow/constants"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, constants.DocTypeInvoice,
		c.Classify([]Turn{{Role: RoleUser, Content: "I need an invoice for Acme"}}))
	assert.Equal(t, constants.DocTypeQuote,
		c.Classify([]Turn{{Role: RoleUser, Content: "Can you quote them for 3 logos?"}}))

	// Both keywords and neither keyword fall back to the default.
	assert.Equal(t, constants.DocTypeInvoice,
		c.Classify([]Turn{{Role: RoleUser, Content: "turn that quote into an invoice"}}))
	assert.Equal(t, constants.DocTypeInvoice,
		c.Classify([]Turn{{Role: RoleUser, Content: "bill Acme for the chairs"}}))

	c.Default = constants.DocTypeQuote
	assert.Equal(t, constants.DocTypeQuote,
		c.Classify([]Turn{{Role: RoleUser, Content: "bill Acme for the chairs"}}))
}

func TestParseFullConversation(t *testing.T) {
	p := NewParser(nil)
	turns := []Turn{
		{Role: RoleUser, Content: "My business is Studio Nine. Invoice for Acme Ltd, in NGN."},
		{Role: RoleAssistant, Content: "Got it. What are the items?"},
		{Role: RoleUser, Content: "2 x Logo design at ₦300\n4 x Flyers at ₦50\nDelivery fee: ₦100\nPayment terms: net 30, due by 2026-09-15"},
	}

	d, ok := p.Parse(turns)
	require.True(t, ok)
	require.NotNil(t, d.Business)
	assert.Equal(t, "Studio Nine", d.Business.Name)
	require.NotNil(t, d.Client)
	assert.Equal(t, "Acme Ltd", d.Client.Name)
	assert.Equal(t, "NGN", d.Currency)

	require.Len(t, d.Items, 2)
	assert.Equal(t, "Logo design", d.Items[0].Description)
	assert.Equal(t, "Flyers", d.Items[1].Description)

	require.NotNil(t, d.DeliveryCharge)
	assert.InDelta(t, 100, *d.DeliveryCharge, 1e-9)
	assert.Equal(t, "net 30, due by 2026-09-15", d.PaymentTerms)
	assert.Equal(t, "2026-09-15", d.DueDate)

	// Backfill ran: amounts and totals were derived.
	require.NotNil(t, d.Subtotal)
	assert.InDelta(t, 800, *d.Subtotal, 1e-9)
	require.NotNil(t, d.Total)
	assert.InDelta(t, 900, *d.Total, 1e-9)
}

func TestParseUnusableWithoutBusinessName(t *testing.T) {
	p := NewParser(nil)
	d, ok := p.Parse([]Turn{
		{Role: RoleUser, Content: "Invoice for Acme Ltd\n2 x Logo design at $300"},
	})

	assert.False(t, ok)
	// Partial findings are still returned for the model prompt to build on.
	require.NotNil(t, d)
	assert.Len(t, d.Items, 1)
	// Backfill is skipped for unusable results.
	assert.Nil(t, d.Subtotal)
}

func TestParseUnusableWithoutItems(t *testing.T) {
	p := NewParser(nil)
	d, ok := p.Parse([]Turn{
		{Role: RoleUser, Content: "My business is Studio Nine, invoice for Acme Ltd"},
	})
	assert.False(t, ok)
	assert.Empty(t, d.Items)
}

func TestParseIgnoresAssistantTurns(t *testing.T) {
	p := NewParser(nil)
	d, ok := p.Parse([]Turn{
		{Role: RoleAssistant, Content: "My business is Phantom Corp. 2 x Ghost item at $10"},
		{Role: RoleUser, Content: "quote please"},
	})
	assert.False(t, ok)
	assert.Nil(t, d.Business)
	assert.Empty(t, d.Items)
}

func TestTranscripts(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
		{Role: RoleUser, Content: ""},
		{Role: RoleUser, Content: "bye"},
	}
	assert.Equal(t, "hello\nhi\nbye\n", Transcript(turns))
	assert.Equal(t, "hello\nbye\n", UserTranscript(turns))
}
