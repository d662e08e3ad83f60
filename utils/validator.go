package utils

import (
	"reflect"
	"strings"

	"github.com/anjiri1684/tuition_admin/models"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag    = "notblank"
	gradeTag       = "grade"
	boardTag       = "board"
	paymentModeTag = "payment_mode"
	paymentTermTag = "payment_term"
	decisionTag    = "approval_decision"
	statusTag      = "approval_status"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// error keys use the json names clients send
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlank)
	_ = Validate.RegisterValidation(gradeTag, func(fl validator.FieldLevel) bool {
		return models.ValidGrade(fl.Field().String())
	})
	_ = Validate.RegisterValidation(boardTag, func(fl validator.FieldLevel) bool {
		return models.ValidBoard(models.Board(fl.Field().String()))
	})
	_ = Validate.RegisterValidation(paymentModeTag, func(fl validator.FieldLevel) bool {
		return models.ValidPaymentMode(models.PaymentMode(fl.Field().String()))
	})
	_ = Validate.RegisterValidation(paymentTermTag, func(fl validator.FieldLevel) bool {
		return models.ValidPaymentTerm(models.PaymentTerm(fl.Field().String()))
	})
	_ = Validate.RegisterValidation(decisionTag, func(fl validator.FieldLevel) bool {
		s := models.ApprovalStatus(fl.Field().String())
		return s == models.ApprovalApproved || s == models.ApprovalRejected
	})
	_ = Validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return models.ApprovalStatus(fl.Field().String()).Valid()
	})

	registerCustomTranslations(notBlankTag, gradeTag, boardTag, paymentModeTag, paymentTermTag, decisionTag, statusTag, "eqfield")
}

// registerCustomTranslations routes the listed tags to customMessage. The
// eqfield override only fits because confirm_password is its one user.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, customMessage)
	}
}

func customMessage(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case gradeTag:
		return "grade must be one of 1 to 10"
	case boardTag:
		return "board must be one of CBSE, SSC"
	case paymentModeTag:
		return "payment_mode must be one of Cash, Cheque, Online"
	case paymentTermTag:
		return "payment_term must be one of Term 1, Term 2, Term 3, Term 4"
	case decisionTag:
		return "decision must be one of approved, rejected"
	case statusTag:
		return "status must be one of pending, approved, rejected"
	case "eqfield":
		return "Passwords don't match"
	}
	return fe.Error()
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// FieldErrors flattens validator errors into a json field name to message map.
func FieldErrors(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(Translator)
	}
	return fields
}
