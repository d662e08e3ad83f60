package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name            string `json:"name" validate:"required,notblank"`
	Grade           string `json:"grade" validate:"required,grade"`
	Board           string `json:"board" validate:"required,board"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type payment struct {
	Mode     string `json:"payment_mode" validate:"required,payment_mode"`
	Term     string `json:"payment_term" validate:"required,payment_term"`
	Decision string `json:"decision" validate:"omitempty,approval_decision"`
	Status   string `json:"status" validate:"omitempty,approval_status"`
}

func TestValidate_CustomTags(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		err := Validate.Struct(signup{
			Name: "Asha", Grade: "10", Board: "CBSE",
			Password: "password123", ConfirmPassword: "password123",
		})
		assert.NoError(t, err)

		err = Validate.Struct(payment{Mode: "Cheque", Term: "Term 4", Decision: "rejected", Status: "pending"})
		assert.NoError(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		err := Validate.Struct(signup{
			Name: "   ", Grade: "11", Board: "ICSE",
			Password: "password123", ConfirmPassword: "password321",
		})
		require.Error(t, err)

		fields := FieldErrors(err)
		assert.Equal(t, map[string]string{
			"name":             "this field cannot be blank",
			"grade":            "grade must be one of 1 to 10",
			"board":            "board must be one of CBSE, SSC",
			"confirm_password": "Passwords don't match",
		}, fields)
	})

	t.Run("InvalidEnums", func(t *testing.T) {
		err := Validate.Struct(payment{Mode: "Card", Term: "Term 5", Decision: "pending", Status: "done"})
		require.Error(t, err)

		fields := FieldErrors(err)
		assert.Equal(t, "payment_mode must be one of Cash, Cheque, Online", fields["payment_mode"])
		assert.Equal(t, "payment_term must be one of Term 1, Term 2, Term 3, Term 4", fields["payment_term"])
		assert.Equal(t, "decision must be one of approved, rejected", fields["decision"])
		assert.Equal(t, "status must be one of pending, approved, rejected", fields["status"])
	})

	t.Run("DefaultTranslation", func(t *testing.T) {
		err := Validate.Struct(signup{Name: "Asha", Grade: "1", Board: "SSC", Password: "short", ConfirmPassword: "short"})
		require.Error(t, err)
		assert.Equal(t, "password must be at least 8 characters in length", FieldErrors(err)["password"])
	})
}

func TestFieldErrors_NotValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
