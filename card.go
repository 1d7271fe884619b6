package judokit

import "strings"

// CardNetwork is the scheme a card number belongs to, as inferred from its
// leading digits (BIN/IIN).
type CardNetwork string

const (
	NetworkUnknown    CardNetwork = ""
	NetworkVisa       CardNetwork = "visa"
	NetworkMastercard CardNetwork = "mastercard"
	NetworkAmex       CardNetwork = "amex"
	NetworkDiscover   CardNetwork = "discover"
	NetworkMaestro    CardNetwork = "maestro"
	NetworkJCB        CardNetwork = "jcb"
	NetworkDiners     CardNetwork = "diners"
)

// DetectCardNetwork returns the card network for a card number, or
// NetworkUnknown. Separators are ignored.
func DetectCardNetwork(number string) CardNetwork {
	number = normalizePAN(number)
	if len(number) < 1 {
		return NetworkUnknown
	}

	// Visa: starts with 4
	if number[0] == '4' {
		return NetworkVisa
	}

	if len(number) >= 2 {
		p2 := number[:2]
		// Amex: 34, 37
		if p2 == "34" || p2 == "37" {
			return NetworkAmex
		}
		// Mastercard: 51-55
		if p2 >= "51" && p2 <= "55" {
			return NetworkMastercard
		}
		// Diners: 36, 38, 39
		if p2 == "36" || p2 == "38" || p2 == "39" {
			return NetworkDiners
		}
		// Discover: 65
		if p2 == "65" {
			return NetworkDiscover
		}
		// Maestro: 50, 56-58, 6x (checked after the Discover prefixes below)
	}

	if len(number) >= 3 {
		p3 := number[:3]
		if p3 >= "300" && p3 <= "305" {
			return NetworkDiners
		}
		if p3 >= "644" && p3 <= "649" {
			return NetworkDiscover
		}
	}

	if len(number) >= 4 {
		p4 := number[:4]
		// Mastercard 2-series: 2221-2720
		if p4 >= "2221" && p4 <= "2720" {
			return NetworkMastercard
		}
		if p4 == "6011" {
			return NetworkDiscover
		}
		// JCB: 3528-3589
		if p4 >= "3528" && p4 <= "3589" {
			return NetworkJCB
		}
	}

	if len(number) >= 6 {
		p6 := number[:6]
		if p6 >= "622126" && p6 <= "622925" {
			return NetworkDiscover
		}
	}

	if len(number) >= 2 {
		p2 := number[:2]
		if p2 == "50" || (p2 >= "56" && p2 <= "58") || number[0] == '6' {
			return NetworkMaestro
		}
	}

	return NetworkUnknown
}

// MaskPAN keeps the first six and last four digits of a card number and masks
// the rest. Numbers too short to carry a BIN keep only the last four.
func MaskPAN(pan string) string {
	cleaned := normalizePAN(pan)
	n := len(cleaned)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + cleaned[n-4:]
	}
	return cleaned[:6] + strings.Repeat("*", n-10) + cleaned[n-4:]
}

// normalizePAN removes spaces, tabs and dashes.
func normalizePAN(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		default:
			return r
		}
	}, s)
}
