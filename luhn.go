package judokit

import "strings"

const (
	judoIDMinLen = 6
	judoIDMaxLen = 10
)

// IsLuhnValid reports whether digits passes the mod-10 checksum. Empty input
// or input containing anything other than ASCII digits is invalid.
func IsLuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum, dbl := 0, false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return sum%10 == 0
}

// ValidateJudoID checks a merchant identifier. Non-digit characters are
// stripped first; the checksum is verified before the 6-10 digit length, so a
// short id with a valid checksum yields CodeJudoIDInvalid.
func ValidateJudoID(judoID string) (string, error) {
	digits := stripNonDigits(judoID)
	if !IsLuhnValid(digits) {
		return "", NewJudoError(CodeLuhnValidation)
	}
	if l := len(digits); l < judoIDMinLen || l > judoIDMaxLen {
		return "", NewJudoError(CodeJudoIDInvalid)
	}
	return digits, nil
}

// ValidateReceiptID checks the checksum of a server-assigned receipt id.
func ValidateReceiptID(receiptID string) error {
	if !IsLuhnValid(receiptID) {
		return NewJudoError(CodeLuhnValidation)
	}
	return nil
}

// ValidateCardNumber strips separators from a PAN and verifies its checksum.
func ValidateCardNumber(number string) (string, error) {
	pan := normalizePAN(number)
	if !IsLuhnValid(pan) {
		return "", NewJudoError(CodeLuhnValidation)
	}
	return pan, nil
}

func stripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
