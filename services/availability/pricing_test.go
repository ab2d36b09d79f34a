package availability

import (
	"testing"

	"havenly/models"
)

func TestNightlyRate(t *testing.T) {
	if got := NightlyRate(700, models.PriceUnitWeek); got != 100 {
		t.Errorf("Expected weekly price to divide by 7, got %v", got)
	}
	if got := NightlyRate(3000, models.PriceUnitMonth); got != 100 {
		t.Errorf("Expected monthly price to divide by 30, got %v", got)
	}
	if got := NightlyRate(120, models.PriceUnitNight); got != 120 {
		t.Errorf("Expected nightly price unchanged, got %v", got)
	}
}

func TestQuote_NightlyWithFees(t *testing.T) {
	p := &models.Property{ID: "p1", Price: 80, PriceUnit: models.PriceUnitNight, Currency: "usd", CleaningFee: 25, ServiceFee: 10.5}
	q := Quote(p, day("2030-02-01"), day("2030-02-04"))

	if q.Nights != 3 {
		t.Errorf("Expected 3 nights, got %d", q.Nights)
	}
	if q.Subtotal != 240 {
		t.Errorf("Expected subtotal 240, got %v", q.Subtotal)
	}
	if q.Total != 275.5 {
		t.Errorf("Expected total 275.5, got %v", q.Total)
	}
	if q.Currency != "USD" {
		t.Errorf("Expected USD, got %s", q.Currency)
	}
}

func TestQuote_WeeklyPriceRoundsToCents(t *testing.T) {
	p := &models.Property{Price: 500, PriceUnit: models.PriceUnitWeek, Currency: "EUR"}
	q := Quote(p, day("2030-02-01"), day("2030-02-04"))

	// 500/7 = 71.428571... per night
	if q.NightlyRate != 71.43 {
		t.Errorf("Expected nightly rate 71.43, got %v", q.NightlyRate)
	}
	if q.Subtotal != 214.29 {
		t.Errorf("Expected subtotal 214.29, got %v", q.Subtotal)
	}
	if q.Total != q.Subtotal {
		t.Errorf("Expected total to equal subtotal without fees, got %v", q.Total)
	}
}

func TestQuote_ZeroDecimalCurrency(t *testing.T) {
	p := &models.Property{Price: 100000, PriceUnit: models.PriceUnitMonth, Currency: "JPY", CleaningFee: 2500.4}
	q := Quote(p, day("2030-02-01"), day("2030-02-03"))

	// 100000/30 = 3333.33 per night, 6666.67 for two.
	if q.Subtotal != 6667 {
		t.Errorf("Expected whole-yen subtotal 6667, got %v", q.Subtotal)
	}
	if q.Total != 9167 {
		t.Errorf("Expected whole-yen total 9167, got %v", q.Total)
	}
}
