package api

import (
	"errors"
	"net/http"

	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
	"github.com/Drolfothesgnir/gohaa/engine"
	"github.com/Drolfothesgnir/gohaa/loader"
	"github.com/Drolfothesgnir/gohaa/parsing"
	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// templateErrorResponse maps an error of the template engine or the store
// to a status code and a response body.
func templateErrorResponse(err error) (int, ErrorResponse) {
	var (
		syntaxErr *parsing.SyntaxError
		inhErr    *runtime.InheritanceError
		renderErr *engine.RenderError
	)

	switch {
	case errors.As(err, &syntaxErr):
		resp := ErrorResponse{
			Error: ErrInvalidTemplate.Error() + ": " + syntaxErr.Description(),
			Syntax: &SyntaxDetail{
				Kind:   syntaxErr.Kind.String(),
				Line:   syntaxErr.Line,
				Col:    syntaxErr.Col,
				Source: syntaxErr.Source,
			},
		}
		return http.StatusUnprocessableEntity, resp

	case errors.As(err, &inhErr), errors.Is(err, loader.ErrOutsideRoot):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}

	case errors.As(err, &renderErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: ErrTemplateFailed.Error() + ": " + renderErr.Err.Error()}

	case loader.IsNotFound(err), db.ErrorKind(err) == db.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}

	case db.ErrorKind(err) == db.KindInvalid:
		return http.StatusBadRequest, NewErrorResponse(ErrInvalidPath)

	case db.ErrorKind(err) == db.KindConflict:
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrInternal)
}

func abortWithTemplateError(ctx *gin.Context, err error) {
	status, resp := templateErrorResponse(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("route", ctx.FullPath()).Msg("request failed")
	}
	ctx.AbortWithStatusJSON(status, resp)
}
