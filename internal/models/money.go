package models

import (
	"fmt"
	"math"
	"strconv"
)

// Mills is the internal money unit: one thousandth of a coin. Balances, mine
// rates and payouts are whole mills so three-decimal coin amounts stay exact
// in integer arithmetic.
type Mills int64

const MillsPerCoin Mills = 1000

func (m Mills) Coins() float64 { return float64(m) / float64(MillsPerCoin) }

// String renders the value in coins with three decimal places.
func (m Mills) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%03d", sign, v/1000, v%1000)
}

// MarshalJSON emits the coin value as a plain JSON number (three decimals).
func (m Mills) MarshalJSON() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mills) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*m = CoinsToMills(f)
	return nil
}

// CoinsToMills converts a coin amount, rounding half away from zero.
func CoinsToMills(coins float64) Mills {
	return Mills(math.Round(coins * float64(MillsPerCoin)))
}

// RoundToMultiple rounds half away from zero to the nearest multiple of step.
func (m Mills) RoundToMultiple(step Mills) Mills {
	if step <= 0 {
		return m
	}
	half := step / 2
	if m < 0 {
		return -((-m + half) / step * step)
	}
	return (m + half) / step * step
}
