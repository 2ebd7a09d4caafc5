package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"hangarhub/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type HangarValidator struct {
	validate *validator.Validate
}

func NewHangarValidator() *HangarValidator {
	return &HangarValidator{
		validate: validator.New(),
	}
}

func (v *HangarValidator) Validate(hangar *model.Hangar) error {
	if err := v.validate.Struct(hangar); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return v.validateSlots(hangar.Availability)
}

func (v *HangarValidator) ValidateUpdate(update *model.HangarUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return v.validateSlots(update.Availability)
}

// validateSlots rejects inverted declared availability ranges. The gtfield
// tag on the slot struct covers this for the dive path, but an explicit
// check keeps the error message readable.
func (v *HangarValidator) validateSlots(slots []model.AvailabilitySlot) error {
	var out ValidationErrors
	for i, slot := range slots {
		if !slot.EndDate.After(slot.StartDate) {
			out = append(out, ValidationError{
				Field:   fmt.Sprintf("availability[%d]", i),
				Message: "endDate must be after startDate",
			})
		}
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func (v *HangarValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
