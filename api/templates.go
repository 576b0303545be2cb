package api

import (
	"net/http"

	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
	"github.com/Drolfothesgnir/gohaa/util"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 20

type listTemplatesRequest struct {
	Prefix   string `json:"prefix" form:"prefix" binding:"omitempty,max=1024"`
	PageID   int32  `json:"page_id" form:"page_id" binding:"omitempty,min=1"`
	PageSize int32  `json:"page_size" form:"page_size" binding:"omitempty,min=5,max=100"`
}

func (s *Service) listTemplates(ctx *gin.Context) {
	var req listTemplatesRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(ErrInvalidParams, ExtractErrorFields(err)...))
		return
	}

	if req.PageID == 0 {
		req.PageID = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}

	templates, err := s.store.ListTemplates(ctx, db.ListTemplatesParams{
		Prefix: util.OptionalText(req.Prefix),
		Limit:  req.PageSize,
		Offset: (req.PageID - 1) * req.PageSize,
	})
	if err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, templates)
}

func (s *Service) getTemplate(ctx *gin.Context) {
	path := extractTemplatePathFromCtx(ctx)

	tmpl, err := s.store.GetTemplate(ctx, path)
	if err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, tmpl)
}

type saveTemplateRequest struct {
	Source string `json:"source" binding:"required"`
}

type saveTemplateResponse struct {
	Template db.Template `json:"template"`
	Warnings []string    `json:"warnings"`
}

// saveTemplate stores the template at path after checking that it compiles.
// Responds 201 when the template is new and 200 when it replaced another one.
func (s *Service) saveTemplate(ctx *gin.Context) {
	path := extractTemplatePathFromCtx(ctx)

	var req saveTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(ErrInvalidParams, ExtractErrorFields(err)...))
		return
	}

	m, err := s.env.Compile(req.Source, path, "db:"+path)
	if err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	result, err := s.store.SaveTemplateTx(ctx, db.SaveTemplateTxParams{
		Path:   path,
		Source: req.Source,
	})
	if err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	s.env.Invalidate(path)

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, saveTemplateResponse{
		Template: result.Template,
		Warnings: nonNil(m.Warnings),
	})
}

func (s *Service) deleteTemplate(ctx *gin.Context) {
	path := extractTemplatePathFromCtx(ctx)

	if err := s.store.DeleteTemplate(ctx, path); err != nil {
		abortWithTemplateError(ctx, err)
		return
	}

	s.env.Invalidate(path)
	ctx.Status(http.StatusNoContent)
}
