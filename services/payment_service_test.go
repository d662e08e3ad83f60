package services

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("Record_DerivesQuarterlyDue", func(t *testing.T) {
		f.reset(t)
		f.fee(t, "5", models.BoardCBSE, "4000")
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)

		payment, summary, err := f.payments.Record(ctx, PaymentInput{
			StudentID:   student.ID,
			PaymentMode: models.PaymentModeCash,
			PaymentTerm: models.Term1,
			AmountPaid:  amount("500"),
		})
		require.NoError(t, err)

		assertDecimal(t, "1000", payment.AmountDue)
		assert.Equal(t, models.PaymentPartial, payment.PaymentStatus)
		assert.Equal(t, models.Today(), payment.TransactionDate.UTC())
		assert.Regexp(t, regexp.MustCompile(`^RCPT-[A-Z0-9]{8}$`), payment.ReceiptNumber)
		assert.Equal(t, "Asha Rao", payment.StudentName)
		assert.Equal(t, "5", payment.StudentGrade)

		assert.Equal(t, "Asha Rao", summary.StudentName)
		assertDecimal(t, "4000", summary.TotalFee)
		assertDecimal(t, "500", summary.TotalPaid)
		assertDecimal(t, "3500", summary.BalanceDue)
		assertDecimal(t, "1000", summary.TermFee)
		assert.Equal(t, models.Term1, summary.CurrentTerm)
		assertDecimal(t, "500", summary.AmountJustPaid)

		var stored models.Payment
		require.NoError(t, f.db.First(&stored, "id = ?", payment.ID).Error)
		assertDecimal(t, "1000", stored.AmountDue)
		assert.Equal(t, models.PaymentPartial, stored.PaymentStatus)
	})

	t.Run("Record_Statuses", func(t *testing.T) {
		tests := []struct {
			name       string
			fee        string
			paid       string
			due        string
			wantDue    string
			wantStatus models.PaymentStatus
		}{
			{name: "FullTerm", fee: "4000", paid: "1000", wantDue: "1000", wantStatus: models.PaymentPaid},
			{name: "Overpaid", fee: "4000", paid: "1500", wantDue: "1000", wantStatus: models.PaymentPaid},
			{name: "NothingPaid", fee: "4000", paid: "0", wantDue: "1000", wantStatus: models.PaymentPending},
			{name: "ExplicitDue", fee: "4000", paid: "800", due: "800", wantDue: "800", wantStatus: models.PaymentPaid},
			{name: "ZeroDueIsDerived", fee: "4000", paid: "200", due: "0", wantDue: "1000", wantStatus: models.PaymentPartial},
			{name: "NoFeeStructure", paid: "0", wantDue: "0", wantStatus: models.PaymentPaid},
			{name: "RoundsHalfEven", fee: "1000.02", paid: "250", wantDue: "250", wantStatus: models.PaymentPaid},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f.reset(t)
				if tt.fee != "" {
					f.fee(t, "7", models.BoardSSC, tt.fee)
				}
				student := f.student(t, "Ravi", "Kumar", "7", models.BoardSSC)

				in := PaymentInput{
					StudentID:   student.ID,
					PaymentMode: models.PaymentModeOnline,
					PaymentTerm: models.Term2,
					AmountPaid:  amount(tt.paid),
				}
				if tt.due != "" {
					in.AmountDue = amount(tt.due)
				}

				payment, _, err := f.payments.Record(ctx, in)
				require.NoError(t, err)
				assertDecimal(t, tt.wantDue, payment.AmountDue)
				assert.Equal(t, tt.wantStatus, payment.PaymentStatus)
			})
		}
	})

	t.Run("Record_Invalid", func(t *testing.T) {
		f.reset(t)
		student := f.student(t, "Ravi", "Kumar", "7", models.BoardSSC)

		_, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: uuid.New(), PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("10"),
		})
		assertValidationField(t, err, "student")

		_, _, err = f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("-1"),
		})
		assertValidationField(t, err, "amount_paid")

		_, _, err = f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1,
		})
		assertValidationField(t, err, "amount_paid")

		var count int64
		require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Update_RecomputesStatus", func(t *testing.T) {
		f.reset(t)
		f.fee(t, "5", models.BoardCBSE, "4000")
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)

		payment, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("500"),
		})
		require.NoError(t, err)
		require.Equal(t, models.PaymentPartial, payment.PaymentStatus)

		note := "balance cleared"
		updated, err := f.payments.Update(ctx, payment.ID, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCheque, PaymentTerm: models.Term1,
			AmountPaid: amount("1000"), Notes: &note,
		})
		require.NoError(t, err)
		assertDecimal(t, "1000", updated.AmountDue)
		assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
		assert.Equal(t, payment.ReceiptNumber, updated.ReceiptNumber)
		assert.Equal(t, payment.TransactionDate.UTC(), updated.TransactionDate.UTC())

		fetched, err := f.payments.Get(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentModeCheque, fetched.PaymentMode)
		assert.Equal(t, models.PaymentPaid, fetched.PaymentStatus)
		require.NotNil(t, fetched.Notes)
		assert.Equal(t, note, *fetched.Notes)

		_, err = f.payments.Update(ctx, uuid.New(), PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("1"),
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Summary_ByMode", func(t *testing.T) {
		f.reset(t)
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)
		for _, p := range []struct {
			mode models.PaymentMode
			paid string
		}{
			{models.PaymentModeCash, "100"},
			{models.PaymentModeCash, "250.50"},
			{models.PaymentModeOnline, "1000"},
		} {
			_, _, err := f.payments.Record(ctx, PaymentInput{
				StudentID: student.ID, PaymentMode: p.mode, PaymentTerm: models.Term1, AmountPaid: amount(p.paid),
			})
			require.NoError(t, err)
		}

		summary, err := f.payments.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.TotalPayments)
		assertDecimal(t, "1350.50", summary.TotalAmount)
		assertDecimal(t, "350.50", summary.PaymentsByMode[models.PaymentModeCash])
		assertDecimal(t, "1000", summary.PaymentsByMode[models.PaymentModeOnline])
		assertDecimal(t, "0", summary.PaymentsByMode[models.PaymentModeCheque])
		assert.Equal(t, int64(2), summary.CountsByMode[models.PaymentModeCash])
		assert.Equal(t, int64(0), summary.CountsByMode[models.PaymentModeCheque])
	})

	t.Run("Summary_Empty", func(t *testing.T) {
		f.reset(t)
		summary, err := f.payments.Summary(ctx)
		require.NoError(t, err)
		assert.Zero(t, summary.TotalPayments)
		assertDecimal(t, "0", summary.TotalAmount)
		assert.Len(t, summary.PaymentsByMode, len(models.PaymentModes))
	})

	t.Run("StudentSummary", func(t *testing.T) {
		f.reset(t)
		f.fee(t, "5", models.BoardCBSE, "4000")
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)
		first, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("1000"),
		})
		require.NoError(t, err)
		_, _, err = f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term2, AmountPaid: amount("600"),
		})
		require.NoError(t, err)

		summary, err := f.payments.StudentSummary(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", summary.StudentName)
		assertDecimal(t, "4000", summary.TotalFee)
		assertDecimal(t, "1600", summary.TotalPaid)
		assertDecimal(t, "2400", summary.BalanceDue)
		assertDecimal(t, "1000", summary.TermFee)
		assert.Equal(t, first.ID, summary.CurrentPayment.ID)
		assert.Equal(t, models.Term1, summary.CurrentPayment.PaymentTerm)
		assert.Equal(t, "Term 1 (Months 1-3)", summary.CurrentPayment.PaymentTermDisplay)
		assert.Equal(t, "Asha Rao", summary.CurrentPayment.StudentName)
		assertDecimal(t, "1000", summary.CurrentPayment.AmountPaid)

		raw, err := json.Marshal(summary)
		require.NoError(t, err)
		var keys map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &keys))
		assert.ElementsMatch(t,
			[]string{"student_name", "total_fee", "total_paid", "balance_due", "term_fee", "current_payment"},
			mapKeys(keys))
		assert.JSONEq(t, `"4000.00"`, string(keys["total_fee"]))
	})

	t.Run("StudentSummary_NoFeeStructure", func(t *testing.T) {
		f.reset(t)
		student := f.student(t, "Ravi", "Kumar", "7", models.BoardSSC)
		payment, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term4, AmountPaid: amount("300"),
		})
		require.NoError(t, err)

		summary, err := f.payments.StudentSummary(ctx, payment.ID)
		require.NoError(t, err)
		assertDecimal(t, "0", summary.TotalFee)
		assertDecimal(t, "0", summary.TermFee)
		assertDecimal(t, "-300", summary.BalanceDue)
		assert.Equal(t, "Term 4 (Months 10-12)", summary.CurrentPayment.PaymentTermDisplay)
	})

	t.Run("StudentSummary_NotFound", func(t *testing.T) {
		_, err := f.payments.StudentSummary(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		f.reset(t)
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)
		payment, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("10"),
		})
		require.NoError(t, err)

		require.NoError(t, f.payments.Delete(ctx, payment.ID))
		assert.ErrorIs(t, f.payments.Delete(ctx, payment.ID), ErrNotFound)
		_, err = f.payments.Get(ctx, payment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("List_IncludesStudent", func(t *testing.T) {
		f.reset(t)
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)
		_, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("10"),
		})
		require.NoError(t, err)

		payments, err := f.payments.List(ctx)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, "Asha Rao", payments[0].StudentName)
		assert.Equal(t, "Cash", payments[0].PaymentModeDisplay)
	})

	t.Run("Between", func(t *testing.T) {
		f.reset(t)
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)
		_, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("10"),
		})
		require.NoError(t, err)

		today := models.Today()
		payments, err := f.payments.Between(ctx, today.AddDate(0, 0, -1), today)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, "Asha", payments[0].Student.FirstName)

		payments, err = f.payments.Between(ctx, today.AddDate(0, 0, -10), today.AddDate(0, 0, -5))
		require.NoError(t, err)
		assert.Empty(t, payments)
	})
}
