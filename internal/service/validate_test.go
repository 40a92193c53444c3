package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	got, err := normalizeCurrency(" mxn ")
	assert.NoError(t, err)
	assert.Equal(t, "MXN", got)

	got, err = normalizeCurrency("USDT")
	assert.NoError(t, err)
	assert.Equal(t, "USDT", got)

	for _, bad := range []string{"", "m", "pesos!", "TOOLONGCODE"} {
		_, err = normalizeCurrency(bad)
		assert.ErrorIs(t, err, ErrValidation, "input: %q", bad)
	}
}

func TestValidateDate(t *testing.T) {
	got, err := validateDate("2026-08-30")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-30", got)

	for _, bad := range []string{"", "30/08/2026", "2026-13-01", "2024-02-30", "yesterday"} {
		_, err = validateDate(bad)
		assert.ErrorIs(t, err, ErrValidation, "input: %q", bad)
	}
}
