package availability

import (
	"time"

	"havenly/models"
	"havenly/utils"
)

// NightlyRate converts a listed price into a per-night rate.
func NightlyRate(price float64, unit string) float64 {
	switch unit {
	case models.PriceUnitWeek:
		return price / 7
	case models.PriceUnitMonth:
		return price / 30
	default:
		return price
	}
}

// Quote prices the stay [checkIn, checkOut) at property p.
func Quote(p *models.Property, checkIn, checkOut time.Time) models.PriceQuote {
	currency := utils.NormalizeCurrency(p.Currency)
	nights := utils.NightsBetween(checkIn, checkOut)
	rate := NightlyRate(p.Price, p.PriceUnit)

	subtotal := utils.RoundForCurrency(rate*float64(nights), currency)
	cleaning := utils.RoundForCurrency(p.CleaningFee, currency)
	service := utils.RoundForCurrency(p.ServiceFee, currency)

	return models.PriceQuote{
		PropertyID:  p.ID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Nights:      nights,
		NightlyRate: utils.RoundForCurrency(rate, currency),
		Subtotal:    subtotal,
		CleaningFee: cleaning,
		ServiceFee:  service,
		Total:       utils.RoundForCurrency(subtotal+cleaning+service, currency),
		Currency:    currency,
	}
}
