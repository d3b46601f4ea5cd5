package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePIN(t *testing.T) {
	assert.NoError(t, ValidatePIN("1234"))
	assert.NoError(t, ValidatePIN("123456789012"))
	assert.Error(t, ValidatePIN("123"))
	assert.Error(t, ValidatePIN("1234567890123"))
	assert.Error(t, ValidatePIN("12a4"))
}

func TestHashPIN(t *testing.T) {
	hash, err := HashPIN("4321")
	require.NoError(t, err)
	assert.True(t, CheckPINHash("4321", hash))
	assert.False(t, CheckPINHash("1234", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, expiresAt, err := GenerateJWT("local-user", "secret", time.Hour, "ledgerbook")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "local-user", claims.Subject)
	assert.Equal(t, "ledgerbook", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatAmount(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "$1,234.50", FormatAmount(decimal.RequireFromString("1234.5"), " usd "))
	assert.Equal(t, "12.30", FormatAmount(decimal.RequireFromString("12.3"), "XXX-unknown"))
}

func TestCurrencyInfo(t *testing.T) {
	info, ok := CurrencyInfoFor("jpy")
	require.True(t, ok)
	assert.Equal(t, "JPY", info.Code)
	assert.Equal(t, 0, info.Fraction)

	_, ok = CurrencyInfoFor("NOPE")
	assert.False(t, ok)

	list := SupportedCurrencies()
	assert.NotEmpty(t, list)
	assert.Equal(t, "USD", list[0].Code)
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(16)
	require.NoError(t, err)
	b, err := RandomBytes(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)

	_, err = RandomBytes(0)
	assert.Error(t, err)
}
