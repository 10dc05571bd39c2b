package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNilInputs(t *testing.T) {
	assert.Nil(t, Merge(nil, nil))

	prior := &DocumentData{Currency: "USD"}
	out := Merge(prior, nil)
	require.NotNil(t, out)
	assert.Equal(t, "USD", out.Currency)

	out = Merge(nil, &DocumentData{Currency: "NGN"})
	require.NotNil(t, out)
	assert.Equal(t, "NGN", out.Currency)
}

func TestMergePartyKeyWise(t *testing.T) {
	prior := &DocumentData{
		Client: &Party{Name: "Acme Ltd", Address: "12 Hill St", Email: "old@acme.test"},
	}
	update := &DocumentData{
		Client: &Party{Email: "billing@acme.test", Phone: "+15550100"},
	}

	out := Merge(prior, update)
	require.NotNil(t, out.Client)
	assert.Equal(t, "Acme Ltd", out.Client.Name)
	assert.Equal(t, "12 Hill St", out.Client.Address)
	assert.Equal(t, "billing@acme.test", out.Client.Email)
	assert.Equal(t, "+15550100", out.Client.Phone)
}

func TestMergeItemsReplaceWholesale(t *testing.T) {
	prior := &DocumentData{
		Items: []LineItem{{Description: "Old A"}, {Description: "Old B"}},
	}
	update := &DocumentData{
		Items: []LineItem{{Description: "New", Amount: f(75)}},
	}

	out := Merge(prior, update)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "New", out.Items[0].Description)

	// An update with no items keeps the prior list.
	out = Merge(prior, &DocumentData{Currency: "EUR"})
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "EUR", out.Currency)
}

func TestMergeScalarsUpdateWins(t *testing.T) {
	prior := &DocumentData{
		Currency: "USD",
		DueDate:  "2026-09-01",
		Total:    f(100),
		Notes:    "old note",
	}
	update := &DocumentData{
		Currency: "GBP",
		Total:    f(250),
	}

	out := Merge(prior, update)
	assert.Equal(t, "GBP", out.Currency)
	assert.Equal(t, "2026-09-01", out.DueDate)
	assert.InDelta(t, 250, *out.Total, 1e-9)
	assert.Equal(t, "old note", out.Notes)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	prior := &DocumentData{
		Client:   &Party{Name: "Acme Ltd"},
		Currency: "USD",
	}
	update := &DocumentData{
		Client:   &Party{Name: "Beta Inc"},
		Currency: "NGN",
	}

	out := Merge(prior, update)
	assert.Equal(t, "Beta Inc", out.Client.Name)
	assert.Equal(t, "Acme Ltd", prior.Client.Name)
	assert.Equal(t, "USD", prior.Currency)
	assert.Equal(t, "Beta Inc", update.Client.Name)
}
