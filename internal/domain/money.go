package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money formatting is centralized here. Amounts are integers in the backend's
// minor-unit convention (cents); formatting divides by 100 unconditionally and
// renders with the currency's narrow symbol.
var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a minor-unit amount as a display price, e.g.
// (2599, "usd") → "$25.99".
func FormatAmount(amount int64, currencyCode string) string {
	code := strings.ToUpper(currencyCode)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", float64(amount)/100, code)
	}
	return moneyPrinter.Sprint(currency.NarrowSymbol(unit.Amount(float64(amount) / 100)))
}
