package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidParams   = errors.New("invalid params")
	ErrInvalidPath     = errors.New("invalid template path")
	ErrInvalidTemplate = errors.New("invalid template")
	ErrTemplateFailed  = errors.New("template raised an exception")
	ErrInternal        = errors.New("internal error")
)

type ErrorField struct {
	FieldName    string `json:"field_name"`
	ErrorMessage string `json:"error_message"`
}

// SyntaxDetail locates a template syntax error.
type SyntaxDetail struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Source string `json:"source"`
}

type ErrorResponse struct {
	Error  string        `json:"error"`
	Fields []ErrorField  `json:"fields,omitempty"`
	Syntax *SyntaxDetail `json:"syntax,omitempty"`
}

func NewErrorResponse(err error, fields ...ErrorField) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Fields: fields}
}

var bindingErrorMessages = map[string]string{
	"required":         "this field is required",
	"required_without": "this field is required",
	"excluded_with":    "must be empty when the other field is set",
	"min":              "value is too short",
	"max":              "value is too long",
}

// getBindingErrorMessage maps a validation tag to the message shown to the client.
func getBindingErrorMessage(tag string) string {
	if msg, ok := bindingErrorMessages[tag]; ok {
		return msg
	}
	return "invalid input"
}

// ExtractErrorFields turns validation errors into per-field messages.
// Other errors give no fields.
func ExtractErrorFields(err error) []ErrorField {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]ErrorField, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, ErrorField{
			FieldName:    fe.Field(),
			ErrorMessage: getBindingErrorMessage(fe.Tag()),
		})
	}
	return fields
}

func extractErrorFromBuffer(buf *bytes.Buffer) (*ErrorResponse, error) {
	var resp ErrorResponse
	if err := json.NewDecoder(buf).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
