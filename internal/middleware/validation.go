package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/pkg/validation"
)

// Locations reported in FieldError.Loc
const (
	LocBody  = "body"
	LocQuery = "query"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator engine.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin binding validator is not go-playground/validator")
		}

		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(dto.Date); ok {
				return d.Time()
			}
			return nil
		}, dto.Date{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if o, ok := field.Interface().(dto.Optional[string]); ok && o.Value != nil {
				return *o.Value
			}
			return nil
		}, dto.Optional[string]{})

		mustRegister(v, "password_strength", func(fl validator.FieldLevel) bool {
			return validation.IsStrongPassword(fl.Field().String())
		})
		mustRegister(v, "student_age", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			return ok && validation.IsValidStudentAge(t, time.Now())
		})
		mustRegister(v, "not_future", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			return ok && validation.IsNotInFuture(t, time.Now())
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// fieldName reports fields by their wire name
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// BindJSON binds and validates a JSON body. On failure it writes the 422 body and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithBindingErrors(c, err, LocBody)
		return false
	}
	return true
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted.
// An empty body leaves obj at its zero value, whatever the Content-Length says.
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	abortWithBindingErrors(c, err, LocBody)
	return false
}

// BindQuery binds and validates query parameters. On failure it writes the 422 body and returns false.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		abortWithBindingErrors(c, err, LocQuery)
		return false
	}
	return true
}

func abortWithBindingErrors(c *gin.Context, err error, loc string) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(BindingErrors(err, loc)))
}

// BindingErrors converts binder and validator errors into field errors
func BindingErrors(err error, loc string) []dto.FieldError {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
	)
	switch {
	case errors.As(err, &verrs):
		out := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, dto.FieldError{
				Loc:  fieldLoc(loc, fe),
				Msg:  formatValidationError(fe),
				Type: "value_error." + fe.Tag(),
			})
		}
		return out
	case errors.As(err, &typeErr):
		return []dto.FieldError{{
			Loc:  []string{loc, typeErr.Field},
			Msg:  fmt.Sprintf("must be of type %s", typeErr.Type.String()),
			Type: "type_error",
		}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []dto.FieldError{{Loc: []string{loc}, Msg: "Malformed JSON body", Type: "value_error.jsondecode"}}
	case errors.Is(err, io.EOF):
		return []dto.FieldError{{Loc: []string{loc}, Msg: "Request body is required", Type: "value_error.missing"}}
	case errors.As(err, &numErr):
		return []dto.FieldError{{
			Loc:  []string{loc},
			Msg:  fmt.Sprintf("'%s' is not a valid number", numErr.Num),
			Type: "type_error.integer",
		}}
	default:
		return []dto.FieldError{{Loc: []string{loc}, Msg: err.Error(), Type: "value_error"}}
	}
}

// fieldLoc drops the root struct name from the validator namespace
func fieldLoc(loc string, fe validator.FieldError) []string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := []string{loc}
	for _, p := range parts {
		// embedded structs appear under their Go type name
		if p == "" || p == "ListQuery" || p == "RegisterRequest" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return field + " must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return field + " must be at most " + e.Param()
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "password_strength":
		return "Password must contain at least one digit and one letter"
	case "student_age":
		return fmt.Sprintf("Student must be between %d and %d years old", validation.MinStudentAge, validation.MaxStudentAge)
	case "not_future":
		return "Enrollment date cannot be in the future"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
