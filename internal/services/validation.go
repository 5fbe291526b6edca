package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"marketplace-api/internal/repositories"
)

// bindPayload decodes payload into the request struct dst and applies its
// validate tags. Type mismatches and rule failures are payload errors.
func bindPayload(v *validator.Validate, op, entity string, payload repositories.Payload, dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dst,
	})
	if err != nil {
		return fmt.Errorf("payload decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(payload)); err != nil {
		return repositories.PayloadError(op, entity, fmt.Sprintf("invalid payload: %v", err))
	}

	if err := v.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return repositories.PayloadError(op, entity, formatValidationErrors(validationErrs))
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "excludesall":
			msgs = append(msgs, field+" must not contain path separators")
		case "base64":
			msgs = append(msgs, field+" must be base64 encoded")
		case "max", "min":
			msgs = append(msgs, fmt.Sprintf("%s must have %s length %s", field, fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return "invalid payload: " + strings.Join(msgs, "; ")
}

// newValidator returns a validator reporting json field names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
