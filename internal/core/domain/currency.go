package domain

// SupportedCurrencies lists the currencies an owner may select in their settings.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "CAD", "AUD"}

// IsSupportedCurrency reports whether code is one of SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
