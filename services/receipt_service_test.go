package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	html string
	err  error
}

func (r *stubRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type stubUploader struct {
	name string
	data []byte
}

func (u *stubUploader) Upload(_ context.Context, data []byte, name string) (string, error) {
	u.name, u.data = name, data
	return "https://files.example.com/receipts/" + name + ".pdf", nil
}

func TestReceiptHTML(t *testing.T) {
	txn := "CHQ-0042"
	notes := "<b>first instalment</b>"
	view := &PaymentView{
		Payment: models.Payment{
			ReceiptNumber:   "RCPT-ABCD2345",
			PaymentMode:     models.PaymentModeCheque,
			PaymentTerm:     models.Term3,
			PaymentStatus:   models.PaymentPartial,
			AmountPaid:      money("400"),
			AmountDue:       money("1000"),
			TransactionDate: time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
			TransactionID:   &txn,
			Notes:           &notes,
			Student:         models.Student{Board: models.BoardSSC},
		},
		StudentName:  "Asha Rao",
		StudentGrade: "5",
	}

	html, err := ReceiptHTML(view, time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, html, "Receipt RCPT-ABCD2345")
	assert.Contains(t, html, "issued July 15, 2025")
	assert.Contains(t, html, "Asha Rao")
	assert.Contains(t, html, "Grade 5 / SSC")
	assert.Contains(t, html, "Cheque (CHQ-0042)")
	assert.Contains(t, html, "Term 3 (Months 7-9)")
	assert.Contains(t, html, "2025-07-14")
	assert.Contains(t, html, "1000.00")
	assert.Contains(t, html, "400.00")
	assert.Contains(t, html, "Partial")
	assert.Contains(t, html, "&lt;b&gt;first instalment&lt;/b&gt;")
	assert.NotContains(t, html, "<b>first")
}

func TestReceiptService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record := func(t *testing.T) *PaymentView {
		f.fee(t, "5", models.BoardCBSE, "4000")
		student := f.student(t, "Asha", "Rao", "5", models.BoardCBSE)
		payment, _, err := f.payments.Record(ctx, PaymentInput{
			StudentID: student.ID, PaymentMode: models.PaymentModeCash, PaymentTerm: models.Term1, AmountPaid: amount("1000"),
		})
		require.NoError(t, err)
		return payment
	}

	t.Run("PDF", func(t *testing.T) {
		f.reset(t)
		payment := record(t)
		renderer := &stubRenderer{}
		receipts := NewReceiptService(f.db, f.payments, renderer, nil, time.Second, zerolog.Nop())

		pdf, view, err := receipts.PDF(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 stub"), pdf)
		assert.Equal(t, payment.ReceiptNumber, view.ReceiptNumber)
		assert.Contains(t, renderer.html, payment.ReceiptNumber)
		assert.Contains(t, renderer.html, "Grade 5 / CBSE")

		_, _, err = receipts.PDF(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PDF_RendererFails", func(t *testing.T) {
		f.reset(t)
		payment := record(t)
		receipts := NewReceiptService(f.db, f.payments, &stubRenderer{err: errors.New("chrome missing")}, nil, time.Second, zerolog.Nop())

		_, _, err := receipts.PDF(ctx, payment.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chrome missing")
	})

	t.Run("Publish_Disabled", func(t *testing.T) {
		f.reset(t)
		payment := record(t)
		receipts := NewReceiptService(f.db, f.payments, &stubRenderer{}, nil, time.Second, zerolog.Nop())

		_, err := receipts.Publish(ctx, payment.ID)
		assert.ErrorIs(t, err, ErrReceiptStorageDisabled)
	})

	t.Run("Publish_StoresURL", func(t *testing.T) {
		f.reset(t)
		payment := record(t)
		uploader := &stubUploader{}
		receipts := NewReceiptService(f.db, f.payments, &stubRenderer{}, uploader, time.Second, zerolog.Nop())

		published, err := receipts.Publish(ctx, payment.ID)
		require.NoError(t, err)
		require.NotNil(t, published.ReceiptURL)
		assert.Contains(t, *published.ReceiptURL, payment.ReceiptNumber)
		assert.Equal(t, payment.ReceiptNumber+"_"+payment.StudentID.String(), uploader.name)
		assert.NotEmpty(t, uploader.data)

		stored, err := f.payments.Get(ctx, payment.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ReceiptURL)
		assert.Equal(t, *published.ReceiptURL, *stored.ReceiptURL)
		assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	})
}
