package judokit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLuhnValid(t *testing.T) {
	for _, s := range []string{"4976000000003436", "100016", "100963875", "18", "4242424242424242"} {
		require.True(t, IsLuhnValid(s), s)
	}
	for _, s := range []string{"4976000000003437", "1000000009", "", "4976 0000", "abc"} {
		require.False(t, IsLuhnValid(s), s)
	}
}

func TestValidateJudoID(t *testing.T) {
	id, err := ValidateJudoID("100-963-875")
	require.NoError(t, err)
	require.Equal(t, "100963875", id)

	id, err = ValidateJudoID("100016")
	require.NoError(t, err)
	require.Equal(t, "100016", id)
}

func TestValidateJudoID_Errors(t *testing.T) {
	// Luhn is checked before length.
	_, err := ValidateJudoID("100915")
	require.True(t, HasCode(err, CodeLuhnValidation))

	_, err = ValidateJudoID("18")
	require.True(t, HasCode(err, CodeJudoIDInvalid))

	_, err = ValidateJudoID("1234567890128")
	require.True(t, HasCode(err, CodeJudoIDInvalid))

	_, err = ValidateJudoID("")
	require.True(t, HasCode(err, CodeLuhnValidation))
}

func TestValidateReceiptID(t *testing.T) {
	require.NoError(t, ValidateReceiptID("100963875"))
	require.True(t, HasCode(ValidateReceiptID("1000000009"), CodeLuhnValidation))
	require.True(t, HasCode(ValidateReceiptID("100-963-875"), CodeLuhnValidation))
}

func TestValidateCardNumber(t *testing.T) {
	pan, err := ValidateCardNumber("4976 0000 0000 3436")
	require.NoError(t, err)
	require.Equal(t, "4976000000003436", pan)

	_, err = ValidateCardNumber("4976-0000-0000-3437")
	require.True(t, HasCode(err, CodeLuhnValidation))
}
