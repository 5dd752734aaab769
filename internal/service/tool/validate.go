package tool

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mcpjungle/obsidian-mcp/pkg/types"
)

// ValidationError is returned when the arguments of a tool call are missing or malformed.
// It is raised before any request is sent to the vault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("%s argument %s", e.Field, e.Reason)
}

// newValidator returns a validator that reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("patch_operation", func(fl validator.FieldLevel) bool {
		_, err := types.ValidatePatchOperation(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("target_type", func(fl validator.FieldLevel) bool {
		_, err := types.ValidateTargetType(fl.Field().String())
		return err == nil
	})
	return v
}

// decodeArgs converts the loosely-typed arguments of a tool call into its typed input.
func decodeArgs(args map[string]any, dst any) error {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{
				Field:  typeErr.Field,
				Reason: "must be of type " + jsonTypeName(typeErr.Type),
			}
		}
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

// validateInput checks in against its validation tags and reports the first violation.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Reason: "missing in arguments"}
	case "patch_operation":
		_, err := types.ValidatePatchOperation(fmt.Sprint(fe.Value()))
		return &ValidationError{Field: fe.Field(), Reason: "is invalid: " + err.Error()}
	case "target_type":
		_, err := types.ValidateTargetType(fmt.Sprint(fe.Value()))
		return &ValidationError{Field: fe.Field(), Reason: "is invalid: " + err.Error()}
	case "gte":
		return &ValidationError{Field: fe.Field(), Reason: "must be greater than or equal to " + fe.Param()}
	default:
		return &ValidationError{Field: fe.Field(), Reason: "failed validation: " + fe.Tag()}
	}
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		return jsonTypeName(t.Elem())
	}
	return t.String()
}
