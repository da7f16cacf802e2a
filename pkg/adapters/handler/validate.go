package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

const maxBodyBytes = 1 << 20

// Validator wraps go-playground/validator and reports fields by their JSON names.
type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validator: v}
}

// Validate returns a *domain.ValidationError, or nil when s is valid.
func (v *Validator) Validate(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{Field: fe.Field(), Msg: errorMessage(fe)})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int64, reflect.Float64:
		numeric = true
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if numeric {
			return fmt.Sprintf("%s must be at least %s", field, param)
		}
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "max":
		if numeric {
			return fmt.Sprintf("%s must be at most %s", field, param)
		}
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, param)
	default:
		return fmt.Sprintf("something wrong on %s; %s", field, fe.Tag())
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation on it.
func (v *Validator) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Validate(dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}
