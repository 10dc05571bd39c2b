package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredRule(t *testing.T) {
	assert.Nil(t, Required("name", "Acme"))
	assert.NotNil(t, Required("name", ""))
	assert.NotNil(t, Required("name", "   "))
	assert.NotNil(t, Required("name", nil))
}

func TestMaxLengthRule(t *testing.T) {
	rule := MaxLength(5)
	assert.Nil(t, rule("name", "Acme"))
	assert.NotNil(t, rule("name", "Acme Ltd"))
	// rune count, not byte count
	assert.Nil(t, rule("name", "ümläü"))
}

func TestUUIDRule(t *testing.T) {
	assert.Nil(t, UUID("id", uuid.NewString()))
	assert.NotNil(t, UUID("id", "not-a-uuid"))
	assert.NotNil(t, UUID("id", 42))
}

func TestCurrencyCodeRule(t *testing.T) {
	assert.Nil(t, CurrencyCode("currency", "NGN"))
	assert.NotNil(t, CurrencyCode("currency", "ngn"))
	assert.NotNil(t, CurrencyCode("currency", "NAIRA"))
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator().
		Field("id", "nope", UUID).
		Field("name", "", Required)
	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 2)
	assert.Error(t, v.Error())

	ok := NewValidator().Field("id", uuid.NewString(), UUID)
	assert.NoError(t, ok.Error())
}
