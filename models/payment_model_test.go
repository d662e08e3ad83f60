package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func money(s string) Money {
	return NewMoney(dec(s))
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		paid, due string
		want      PaymentStatus
	}{
		{"0", "500", PaymentPending},
		{"250", "500", PaymentPartial},
		{"500", "500", PaymentPaid},
		{"600", "500", PaymentPaid},
		{"0.01", "500", PaymentPartial},
		{"0", "0", PaymentPaid},
	}

	for _, tt := range tests {
		got := DeriveStatus(dec(tt.paid), dec(tt.due))
		assert.Equal(t, tt.want, got, "paid=%s due=%s", tt.paid, tt.due)
	}
}

func TestQuarterlyDue(t *testing.T) {
	assert.Equal(t, "1000", QuarterlyDue(dec("4000")).String())
	assert.Equal(t, "250", QuarterlyDue(dec("1000.01")).String())
	assert.Equal(t, "250.01", QuarterlyDue(dec("1000.03")).String())
	assert.Equal(t, "1562.5", QuarterlyDue(dec("6250")).String())
}

func TestPayment_Derive(t *testing.T) {
	fee := &FeeStructure{Grade: "5", Board: BoardCBSE, FeeAmount: money("4000")}

	t.Run("DueFromFee", func(t *testing.T) {
		p := Payment{AmountPaid: money("500")}
		p.Derive(fee)
		assert.True(t, p.AmountDue.Equal(dec("1000")))
		assert.Equal(t, PaymentPartial, p.PaymentStatus)
	})

	t.Run("NoFeeRow", func(t *testing.T) {
		p := Payment{AmountPaid: money("500")}
		p.Derive(nil)
		assert.True(t, p.AmountDue.IsZero())
		assert.Equal(t, PaymentPaid, p.PaymentStatus)
	})

	t.Run("ExplicitDueKept", func(t *testing.T) {
		p := Payment{AmountPaid: money("500"), AmountDue: money("800")}
		p.Derive(fee)
		assert.True(t, p.AmountDue.Equal(dec("800")))
		assert.Equal(t, PaymentPartial, p.PaymentStatus)
	})

	t.Run("StatusRecomputedOnEdit", func(t *testing.T) {
		p := Payment{AmountPaid: money("0")}
		p.Derive(fee)
		assert.Equal(t, PaymentPending, p.PaymentStatus)

		p.AmountPaid = money("1000")
		p.Derive(fee)
		assert.Equal(t, PaymentPaid, p.PaymentStatus)
	})
}

func TestEnums(t *testing.T) {
	assert.True(t, ValidGrade("10"))
	assert.False(t, ValidGrade("11"))
	assert.True(t, ValidBoard(BoardSSC))
	assert.False(t, ValidBoard("ICSE"))
	assert.True(t, ValidPaymentMode(PaymentModeCheque))
	assert.False(t, ValidPaymentMode("Card"))
	assert.True(t, ValidPaymentTerm(Term4))
	assert.False(t, ValidPaymentTerm("Term 5"))
	assert.True(t, ApprovalRejected.Valid())
	assert.False(t, ApprovalStatus("maybe").Valid())
}

func TestPaymentTerm_Display(t *testing.T) {
	assert.Equal(t, "Term 1 (Months 1-3)", Term1.Display())
	assert.Equal(t, "Term 2 (Months 4-6)", Term2.Display())
	assert.Equal(t, "Term 3 (Months 7-9)", Term3.Display())
	assert.Equal(t, "Term 4 (Months 10-12)", Term4.Display())
	assert.Equal(t, "Term 9", PaymentTerm("Term 9").Display())
}

func TestFeeStructure_MarshalJSON(t *testing.T) {
	fee := FeeStructure{Grade: "10", Board: BoardSSC, FeeAmount: money("12000")}
	raw, err := json.Marshal(fee)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "10", body["grade"])
	assert.Equal(t, "Grade 10", body["grade_display"])
	assert.Equal(t, "SSC", body["board"])
	assert.Equal(t, "SSC", body["board_display"])
	assert.Equal(t, "12000.00", body["fee_amount"])
	assert.Contains(t, body, "id")
}
