package models

import (
	"github.com/shopspring/decimal"
)

// Money is a numeric(10,2) amount. It scans and unmarshals like
// decimal.Decimal but always renders with two decimal places.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

func (m Money) String() string {
	return m.StringFixed(2)
}
