package bookings

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the booking tags to gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("booking_type", func(fl validator.FieldLevel) bool {
		return BookingType(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	return v.RegisterValidation("id_type", func(fl validator.FieldLevel) bool {
		return IDProofType(fl.Field().String()).IsValid()
	})
}
