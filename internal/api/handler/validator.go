package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stockhub/auth-service/internal/core/domain"
	"github.com/stockhub/auth-service/internal/core/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator with the credential tags installed.
func NewValidator() (*echoValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := validation.Register(v); err != nil {
		return nil, fmt.Errorf("register validation tags: %w", err)
	}
	return &echoValidator{v: v}, nil
}

// Validate satisfies the echo.Validator interface. Every failing field is
// reported in a single *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	verr := domain.NewValidationError()
	for _, fe := range ve {
		verr.Add(fieldErrors(fe)...)
	}
	return verr
}

// fieldErrors converts one FieldError into client-facing messages.
func fieldErrors(fe validator.FieldError) []string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return []string{field + " is required"}
	case "email_syntax":
		return []string{field + " must be a valid email address"}
	case "password_strength":
		value, _ := fe.Value().(string)
		return validation.ValidatePassword(value).Errors
	case "max":
		return []string{fmt.Sprintf("%s must be at most %s characters", field, fe.Param())}
	default:
		return []string{fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())}
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
