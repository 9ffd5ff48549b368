// validation.go - Form validation and client error values

package client

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go-training-backend/passwordhash"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidForm        = errors.New("invalid form")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("trainer access required")
)

// UserForm is the editable part of a user.
type UserForm struct {
	Name     string `json:"name" validate:"required,min=2,max=50,alphaspace"`
	Surname  string `json:"surname" validate:"required,min=2,max=50,alphaspace"`
	Password string `json:"password" validate:"required,min=3,pwbytes"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Category string `json:"category" validate:"required,min=2,max=30,alnumspace"`
	Role     string `json:"role" validate:"required,oneof=Trainer Player"`
}

// TrainingForm is the editable part of a training.
type TrainingForm struct {
	PlayerID    string `json:"playerId" validate:"required"`
	TrainingDay string `json:"trainingDay" validate:"required,isodatetime"`
}

var (
	alphaSpace = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	alnumSpace = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
)

// trainingDayLayouts are the accepted trainingDay formats: full ISO-8601 and
// the minute-precision form produced by datetime pickers.
var trainingDayLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpace.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("alnumspace", func(fl validator.FieldLevel) bool {
		return alnumSpace.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= passwordhash.MaxBytes
	})
	_ = v.RegisterValidation("isodatetime", func(fl validator.FieldLevel) bool {
		_, ok := parseTrainingDay(fl.Field().String())
		return ok
	})
	return v
}

func parseTrainingDay(s string) (time.Time, bool) {
	for _, layout := range trainingDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalize trims the free-text fields in place.
func (f *UserForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Surname = strings.TrimSpace(f.Surname)
	f.Email = strings.TrimSpace(f.Email)
	f.Category = strings.TrimSpace(f.Category)
}

// validateStruct runs v and folds field errors into one ErrInvalidForm.
func validateStruct(v *validator.Validate, form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(msgs, "; "))
}
