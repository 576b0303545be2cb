package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

// newRequestValidator validates the binding tags of request structs and reports
// fields by their json names, as gin does once main registers the tag name func.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func TestExtractErrorFields_NonValidationError(t *testing.T) {
	fields := ExtractErrorFields(errors.New("not a validation error"))
	require.Empty(t, fields)
}

func TestExtractErrorFields_Requests(t *testing.T) {
	v := newRequestValidator()

	testCases := []struct {
		name    string
		request any
		want    []ErrorField
	}{
		{
			name:    "compile_missing_source",
			request: compileTemplateRequest{Name: "a.pha"},
			want:    []ErrorField{{FieldName: "source", ErrorMessage: "this field is required"}},
		},
		{
			name:    "compile_name_too_long",
			request: compileTemplateRequest{Source: "%p", Name: strings.Repeat("a", 256)},
			want:    []ErrorField{{FieldName: "name", ErrorMessage: "value is too long"}},
		},
		{
			name:    "render_source_and_path",
			request: renderTemplateRequest{Source: "%p", Path: "a.pha"},
			want:    []ErrorField{{FieldName: "source", ErrorMessage: "must be empty when the other field is set"}},
		},
		{
			name:    "render_neither_source_nor_path",
			request: renderTemplateRequest{},
			want: []ErrorField{
				{FieldName: "source", ErrorMessage: "this field is required"},
				{FieldName: "path", ErrorMessage: "this field is required"},
			},
		},
		{
			name:    "list_page_size_too_large",
			request: listTemplatesRequest{PageSize: 200},
			want:    []ErrorField{{FieldName: "page_size", ErrorMessage: "value is too long"}},
		},
		{
			name:    "list_page_size_too_small",
			request: listTemplatesRequest{PageSize: 2},
			want:    []ErrorField{{FieldName: "page_size", ErrorMessage: "value is too short"}},
		},
		{
			name:    "list_negative_page",
			request: listTemplatesRequest{PageID: -1},
			want:    []ErrorField{{FieldName: "page_id", ErrorMessage: "value is too short"}},
		},
		{
			name:    "save_missing_source",
			request: saveTemplateRequest{},
			want:    []ErrorField{{FieldName: "source", ErrorMessage: "this field is required"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.request)
			require.Error(t, err)
			require.Equal(t, tc.want, ExtractErrorFields(err))
		})
	}
}

func TestExtractErrorFields_ValidRequests(t *testing.T) {
	v := newRequestValidator()

	for _, request := range []any{
		compileTemplateRequest{Source: "%p"},
		renderTemplateRequest{Path: "pages/a.pha"},
		renderTemplateRequest{Source: "%p", Args: []any{1}},
		listTemplatesRequest{},
		listTemplatesRequest{Prefix: "pages/", PageID: 3, PageSize: 50},
		saveTemplateRequest{Source: "%p"},
	} {
		require.NoError(t, v.Struct(request))
	}
}

func TestGetBindingErrorMessage_Fallback(t *testing.T) {
	require.Equal(t, "invalid input", getBindingErrorMessage("hexcolor"))
}

func TestExtractErrorFromBuffer(t *testing.T) {
	exp := ErrorResponse{
		Error: ErrInvalidParams.Error(),
		Fields: []ErrorField{
			{FieldName: "source", ErrorMessage: "this field is required"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(exp))

	got, err := extractErrorFromBuffer(&buf)
	require.NoError(t, err)
	require.Equal(t, exp, *got)
}

func TestExtractErrorFromBufferSyntax(t *testing.T) {
	exp := ErrorResponse{
		Error:  "invalid template: Expected id name",
		Syntax: &SyntaxDetail{Kind: "ExpectedIDName", Line: 3, Col: 2, Source: "%a#"},
	}

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(exp))

	got, err := extractErrorFromBuffer(&buf)
	require.NoError(t, err)
	require.Equal(t, exp, *got)
}
