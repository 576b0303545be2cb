package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type compileTemplateRequest struct {
	Source string `json:"source" binding:"required"`
	Name   string `json:"name" binding:"omitempty,max=255"`
}

type compileTemplateResponse struct {
	Name     string   `json:"name"`
	Renderer string   `json:"renderer"`
	Parents  []string `json:"parents"`
	Partials []string `json:"partials"`
	Warnings []string `json:"warnings"`
}

// compileTemplate returns the renderer source generated for a template without
// storing or rendering it. Parents are reported but not loaded.
func (s *Service) compileTemplate(ctx *gin.Context) {
	var req compileTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(ErrInvalidParams, ExtractErrorFields(err)...))
		return
	}

	name := req.Name
	if name == "" {
		name = "<string>"
	}

	m, err := s.env.Compile(req.Source, name, "")
	if err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, compileTemplateResponse{
		Name:     m.Name,
		Renderer: m.Source,
		Parents:  nonNil(m.Parents),
		Partials: nonNil(m.Partials()),
		Warnings: nonNil(m.Warnings),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
