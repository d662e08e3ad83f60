package services

import (
	"encoding/csv"
	"io"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/pkg/errors"
)

var reportHeader = []string{
	"Receipt Number", "Transaction Date", "Student Name", "Grade", "Board",
	"Term", "Mode", "Amount Paid", "Amount Due", "Status", "Transaction ID",
}

// WritePaymentsCSV writes one row per payment. Payments must have their
// Student loaded.
func WritePaymentsCSV(w io.Writer, payments []models.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	for _, p := range payments {
		txnID := ""
		if p.TransactionID != nil {
			txnID = *p.TransactionID
		}
		row := []string{
			p.ReceiptNumber,
			p.TransactionDate.Format("2006-01-02"),
			p.Student.FullName(),
			p.Student.Grade,
			string(p.Student.Board),
			string(p.PaymentTerm),
			string(p.PaymentMode),
			p.AmountPaid.StringFixed(2),
			p.AmountDue.StringFixed(2),
			string(p.PaymentStatus),
			txnID,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
