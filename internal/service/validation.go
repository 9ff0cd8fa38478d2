package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report fields by their form name so notices match the page.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ProductInput is the raw product form. Price stays a string until the
// service parses it so that bad numbers get their own error.
type ProductInput struct {
	Code        string `form:"codigo" validate:"required,max=50"`
	Description string `form:"descripcion" validate:"required"`
	ImageRef    string `form:"foto" validate:"omitempty,url"`
	Price       string `form:"precio"`
}

// Normalize trims surrounding whitespace from every field.
func (in ProductInput) Normalize() ProductInput {
	return ProductInput{
		Code:        strings.TrimSpace(in.Code),
		Description: strings.TrimSpace(in.Description),
		ImageRef:    strings.TrimSpace(in.ImageRef),
		Price:       strings.TrimSpace(in.Price),
	}
}

// FieldError represents a field validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InputError lists every rejected field. It matches ErrValidation.
type InputError struct {
	Fields []FieldError
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *InputError) Unwrap() error {
	return ErrValidation
}

// ValidateStruct runs the validate tags of v and converts failures to an
// *InputError.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	inputErr := &InputError{}
	for _, e := range validationErrors {
		inputErr.Fields = append(inputErr.Fields, FieldError{
			Field:   e.Field(),
			Message: fieldMessage(e),
		})
	}
	return inputErr
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es obligatorio"
	case "url":
		return "debe ser una URL válida"
	case "max":
		return "admite como máximo " + e.Param() + " caracteres"
	default:
		return "valor inválido"
	}
}
