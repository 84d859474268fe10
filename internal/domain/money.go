package domain

import (
	"math"

	"github.com/shopspring/decimal"

	customError "github.com/dentacore/practice-engine/pkg/errors"
)

// NewMoney converts a raw amount into a currency value with 2-decimal
// precision, rounding half up. Non-finite input is rejected rather than
// coerced.
func NewMoney(amount float64) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, customError.WrapInvalidMoneyAmount(amount)
	}

	return decimal.NewFromFloat(amount).Round(2), nil
}

// MustMoney is NewMoney for trusted constants, mainly in tests.
func MustMoney(amount float64) decimal.Decimal {
	m, err := NewMoney(amount)
	if err != nil {
		panic(err)
	}
	return m
}
