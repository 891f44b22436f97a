package domain

import "math"

// Money is a fixed-point amount stored as integer cents. Arithmetic that
// spans multiple seats (pricing a booking) accumulates in a higher
// precision domain and rounds exactly once at the sum, per spec: banker's
// rounding (round-half-to-even) applied to the total, never per line item.
type Money int64

func MoneyFromFloat(f float64) Money {
	return Money(math.RoundToEven(f * 100))
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

// PriceModifier scales a seat's contribution to a booking total relative
// to the event's base price (1 means no adjustment).
type PriceModifier float64

// SumSeatPrices computes total_price = sum(basePrice * modifier[i]),
// rounding the sum to the nearest cent with round-half-to-even.
func SumSeatPrices(basePrice Money, modifiers []PriceModifier) Money {
	var total float64
	base := float64(basePrice)
	for _, mod := range modifiers {
		total += base * float64(mod)
	}
	return Money(math.RoundToEven(total))
}
