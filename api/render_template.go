package api

import (
	"iter"
	"net/http"

	"github.com/Drolfothesgnir/gohaa/engine"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type renderTemplateRequest struct {
	// Source renders an ad hoc template, Path a stored or file template.
	Source string         `json:"source" binding:"required_without=Path,excluded_with=Path"`
	Path   string         `json:"path" binding:"required_without=Source"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// renderTemplate streams the rendered template. Errors raised before the first
// chunk is written produce an error response, later ones abort the connection.
func (s *Service) renderTemplate(ctx *gin.Context) {
	var req renderTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(ErrInvalidParams, ExtractErrorFields(err)...))
		return
	}

	args, err := engine.Args(req.Args)
	if err != nil {
		errField := ErrorField{"args", err.Error()}
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(ErrInvalidParams, errField))
		return
	}

	kwargs, err := engine.Keywords(req.Kwargs)
	if err != nil {
		errField := ErrorField{"kwargs", err.Error()}
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(ErrInvalidParams, errField))
		return
	}

	var tmpl *engine.Template
	if req.Path != "" {
		tmpl, err = s.env.GetTemplate(ctx, req.Path)
	} else {
		tmpl, err = s.env.FromString(ctx, req.Source)
	}
	if err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	next, stop := iter.Pull2(tmpl.Render(ctx.Request.Context(), args, kwargs))
	defer stop()

	chunk, err, ok := next()
	if ok && err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/html; charset="+s.env.Encoding())
	ctx.Status(http.StatusOK)

	for ok {
		if _, err := ctx.Writer.Write(chunk); err != nil {
			log.Debug().Err(err).Str("template", tmpl.Name()).Msg("client went away")
			ctx.Abort()
			return
		}

		chunk, err, ok = next()
		if err != nil {
			log.Error().Err(err).Str("template", tmpl.Name()).Msg("rendering failed mid-stream")
			ctx.Abort()
			return
		}
	}
}
