package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"todos/shared/constant"
	"todos/shared/failure"
	"todos/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

// dueDate accepts a real calendar date in YYYY-MM-DD.
func dueDate(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := timezone.Parse(constant.DueDateFormat, value)

	return err == nil
}

func notBlank(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return true
	}

	return strings.TrimSpace(value) != ""
}

// jsonName reports fields by their wire name.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	for tag, fn := range map[string]val.Func{"duedate": dueDate, "notblank": notBlank} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

// Validate decodes a JSON body into data and validates it. Both failures are bad requests.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
