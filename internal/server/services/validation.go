package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/accounts/internal/common"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/nyaruka/phonenumbers"
)

// MinPasswordLength is the minimum password length in characters.
const MinPasswordLength = 8

// RegisterInput is what a caller submits to start a registration.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber int64  `json:"phone_number"`
}

func (in RegisterInput) validate(region string) error {
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("name is required")),
		validation.Field(&in.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email is invalid")),
		validation.Field(&in.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error("password must be at least 8 characters")),
		validation.Field(&in.PhoneNumber,
			validation.Required.Error("phone number is required"),
			validation.Min(int64(1)).Error("phone number is invalid"),
			validation.By(phoneRule(region))),
	))
}

// ActivateInput carries the mailed code together with the token it belongs to.
type ActivateInput struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

func (in ActivateInput) validate() error {
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.ActivationToken, validation.Required.Error("activation token is required")),
		validation.Field(&in.ActivationCode, validation.Required.Error("activation code is required")),
	))
}

func phoneRule(region string) validation.RuleFunc {
	return func(value any) error {
		n, _ := value.(int64)
		if n <= 0 {
			return nil
		}
		if _, err := phonenumbers.Parse(strconv.FormatInt(n, 10), region); err != nil {
			return errors.New("phone number is invalid")
		}
		return nil
	}
}

// validationError tags ozzo errors with common.ErrValidation, keeping the
// field map reachable through errors.As.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrValidation, err)
}

// FieldErrors extracts field -> message pairs from a validation error.
func FieldErrors(err error) map[string]string {
	var verr validation.Errors
	if !errors.As(err, &verr) {
		return nil
	}
	out := make(map[string]string, len(verr))
	for field, e := range verr {
		out[field] = e.Error()
	}
	return out
}
