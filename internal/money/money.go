package money

import "math"

// Cents is a monetary value stored in integer minor units.
type Cents = int64

// ToCents converts decimal dollars to cents, rounding ties away from zero.
// This is the only place decimal input crosses into integer arithmetic.
func ToCents(dollars float64) Cents {
	return Cents(math.Round(dollars * 100))
}

// RoundDiv divides n by d and rounds the quotient to the nearest integer,
// ties away from zero. A zero divisor yields zero.
func RoundDiv(n, d Cents) Cents {
	if d == 0 {
		return 0
	}
	return Cents(math.Round(float64(n) / float64(d)))
}

// Percent applies a decimal percentage rate to an amount and rounds.
func Percent(amount Cents, rate float64) Cents {
	return Cents(math.Round(float64(amount) * rate / 100))
}

// Prorate returns principal scaled by part/whole, rounded. Used when a capped
// pool is split proportionally across line items.
func Prorate(principal, part, whole Cents) Cents {
	if whole == 0 {
		return 0
	}
	return Cents(math.Round(float64(principal) * float64(part) / float64(whole)))
}

// Clamp returns v bounded below by zero.
func Clamp(v Cents) Cents {
	if v < 0 {
		return 0
	}
	return v
}
