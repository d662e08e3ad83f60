package utils

import (
	"math/rand"
	"time"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const receiptSuffixLength = 8
const receiptPrefix = "RCPT-"
const letterBytes = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomReceiptNumber(r *rand.Rand) string {
	b := make([]byte, receiptSuffixLength)
	for i := range b {
		b[i] = letterBytes[r.Intn(len(letterBytes))]
	}
	return receiptPrefix + string(b)
}

// GenerateUniqueReceiptNumber returns a receipt number not yet used by any
// payment visible to tx.
func GenerateUniqueReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		code := randomReceiptNumber(seededRand)

		var count int64
		if err := tx.Model(&models.Payment{}).Where("receipt_number = ?", code).Count(&count).Error; err != nil {
			return "", errors.Wrap(err, "checking receipt number")
		}
		if count == 0 {
			return code, nil
		}
	}
}
