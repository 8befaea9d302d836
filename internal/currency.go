package internal

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts in one currency
type Currency struct {
	Code    string // "GBP", "EUR", "USD"
	unit    currency.Unit
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
}

// localeForCurrency is the "home" locale used for number formatting
var localeForCurrency = map[string]language.Tag{
	"GBP": language.BritishEnglish,
	"EUR": language.German,
	"USD": language.AmericanEnglish,
	"SEK": language.Swedish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"AUD": language.MustParse("en-AU"),
	"CAD": language.MustParse("en-CA"),
	"NZD": language.MustParse("en-NZ"),
}

// GetCurrency returns the Currency for a given code. Unknown codes format
// with the code itself as the symbol.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.XXX
	}

	tag, ok := localeForCurrency[code]
	if !ok {
		tag = language.English
	}

	return Currency{
		Code:    code,
		unit:    unit,
		printer: message.NewPrinter(tag),
	}
}

// symbol returns the currency symbol, using overrides where needed
func (c Currency) symbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	if c.unit == currency.XXX {
		return c.Code
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if the symbol goes before the amount.
// x/text does not expose CLDR symbol placement, so this is a fixed list.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "GBP", "USD", "AUD", "CAD", "NZD":
		return true
	default:
		return false
	}
}

// Format formats an amount with two decimals and the currency symbol.
// Negative amounts get a leading minus sign: -£12.50. NaN and infinities print as "n/a".
func (c Currency) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	formatted := c.printer.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	if c.isPrefix() {
		return sign + c.symbol() + formatted
	}
	return sign + formatted + " " + c.symbol()
}
