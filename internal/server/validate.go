package server

import (
	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/utils"
)

// newValidator checks the shape of enum, clock and date fields. Required
// fields are left to the ledger, which treats a missing one as a no-op.
func newValidator() *validator.Validate {
	v := validator.New()
	register(v, "party", func(s string) error { _, err := models.ParseParty(s); return err })
	register(v, "weekday", func(s string) error { _, err := models.ParseWeekday(s); return err })
	register(v, "paymentcategory", func(s string) error { _, err := models.ParsePaymentCategory(s); return err })
	register(v, "clock", func(s string) error { _, err := utils.ParseTime(s); return err })
	return v
}

func register(v *validator.Validate, tag string, parse func(string) error) {
	// Tags are fixed and well formed, so registration cannot fail.
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return parse(fl.Field().String()) == nil
	})
}
