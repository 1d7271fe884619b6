package judokit

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code accepted by the Judopay API.
type Currency string

// Supported currencies. CurrencyUnsupported is returned by ParseCurrency for
// any code outside this set.
const (
	CurrencyAUD Currency = "AUD"
	CurrencyAED Currency = "AED"
	CurrencyBRL Currency = "BRL"
	CurrencyCAD Currency = "CAD"
	CurrencyCHF Currency = "CHF"
	CurrencyCZK Currency = "CZK"
	CurrencyDKK Currency = "DKK"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyHKD Currency = "HKD"
	CurrencyHUF Currency = "HUF"
	CurrencyJPY Currency = "JPY"
	CurrencyNOK Currency = "NOK"
	CurrencyNZD Currency = "NZD"
	CurrencyPLN Currency = "PLN"
	CurrencyQAR Currency = "QAR"
	CurrencySAR Currency = "SAR"
	CurrencySEK Currency = "SEK"
	CurrencySGD Currency = "SGD"
	CurrencyUSD Currency = "USD"
	CurrencyZAR Currency = "ZAR"

	CurrencyUnsupported Currency = "unsupported"
)

var supportedCurrencies = map[Currency]struct{}{
	CurrencyAUD: {}, CurrencyAED: {}, CurrencyBRL: {}, CurrencyCAD: {}, CurrencyCHF: {},
	CurrencyCZK: {}, CurrencyDKK: {}, CurrencyEUR: {}, CurrencyGBP: {}, CurrencyHKD: {},
	CurrencyHUF: {}, CurrencyJPY: {}, CurrencyNOK: {}, CurrencyNZD: {}, CurrencyPLN: {},
	CurrencyQAR: {}, CurrencySAR: {}, CurrencySEK: {}, CurrencySGD: {}, CurrencyUSD: {},
	CurrencyZAR: {},
}

// ParseCurrency maps a raw code to a Currency. Unknown codes map to
// CurrencyUnsupported; callers must check for it explicitly.
func ParseCurrency(raw string) Currency {
	c := Currency(raw)
	if _, ok := supportedCurrencies[c]; ok {
		return c
	}
	return CurrencyUnsupported
}

// IsSupported reports whether c is one of the accepted currency codes.
func (c Currency) IsSupported() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

// Amount is an immutable decimal amount in a given currency.
type Amount struct {
	value    decimal.Decimal
	currency Currency
}

// NewAmount returns an Amount for value in currency.
func NewAmount(value decimal.Decimal, currency Currency) Amount {
	return Amount{value: value, currency: currency}
}

// amountPattern accepts unsigned plain decimals: no sign, exponent or bare point.
var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// AmountFromString parses a decimal string such as "10.99" into an Amount.
// Signs, exponents and a leading or trailing point are rejected.
func AmountFromString(value string, currency Currency) (Amount, error) {
	if !amountPattern.MatchString(value) {
		return Amount{}, newLocalError(CodeInvalidAmount, nil)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, newLocalError(CodeInvalidAmount, err)
	}
	return NewAmount(d, currency), nil
}

// ParseAmount parses a literal such as "12GBP": the last three characters are
// the currency code, everything before them is the decimal amount.
func ParseAmount(literal string) (Amount, error) {
	if len(literal) < 4 {
		return Amount{}, newLocalError(CodeInvalidAmount, nil)
	}
	split := len(literal) - 3
	code := literal[split:]
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return Amount{}, newLocalError(CodeInvalidAmount, nil)
		}
	}
	currency := ParseCurrency(code)
	if currency == CurrencyUnsupported {
		return Amount{}, newLocalError(CodeCurrencyNotSupported, nil)
	}
	return AmountFromString(literal[:split], currency)
}

// MustParseAmount is like ParseAmount but panics on malformed input.
func MustParseAmount(literal string) Amount {
	a, err := ParseAmount(literal)
	if err != nil {
		panic(err)
	}
	return a
}

// Value returns the decimal amount.
func (a Amount) Value() decimal.Decimal { return a.value }

// Currency returns the amount's currency.
func (a Amount) Currency() Currency { return a.currency }

// IsZero reports whether a is the zero Amount (no currency set).
func (a Amount) IsZero() bool { return a.currency == "" }

// Number returns the amount as a JSON number without passing through float64.
func (a Amount) Number() json.Number {
	return json.Number(a.value.String())
}

// String formats the amount as "12.5 GBP".
func (a Amount) String() string {
	return a.value.String() + " " + strings.ToUpper(string(a.currency))
}
