package utils

import (
	"math"
	"strings"
)

// zeroDecimalCurrencies have no minor unit in everyday pricing.
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "ISK": true,
	"JPY": true, "KMF": true, "KRW": true, "MGA": true, "PYG": true,
	"RWF": true, "UGX": true, "VND": true, "VUV": true, "XAF": true,
	"XOF": true, "XPF": true,
}

// IsZeroDecimalCurrency reports whether amounts in currency carry no decimals.
func IsZeroDecimalCurrency(currency string) bool {
	return zeroDecimalCurrencies[strings.ToUpper(currency)]
}

// RoundForCurrency rounds amount half away from zero to the currency's precision.
func RoundForCurrency(amount float64, currency string) float64 {
	if IsZeroDecimalCurrency(currency) {
		return math.Round(amount)
	}
	return math.Round(amount*100) / 100
}

// ToMinorUnits converts an amount to the integer unit payment processors expect.
func ToMinorUnits(amount float64, currency string) int64 {
	if IsZeroDecimalCurrency(currency) {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

// NormalizeCurrency upper-cases a currency code, defaulting to USD.
func NormalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "USD"
	}
	return currency
}
