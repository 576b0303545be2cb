package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// api routes
	CompileURL   = "/compile"
	RenderURL    = "/render"
	TemplatesURL = "/templates"
)

// Establishes HTTP router.
func (service *Service) setupRouter(server *http.Server) {
	router := gin.Default()

	router.Use(service.corsMiddleware())

	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})

	router.POST(CompileURL, service.compileTemplate)
	router.POST(RenderURL, service.renderTemplate)

	router.GET(TemplatesURL, service.listTemplates)
	templateGroup := router.Group(TemplatesURL).Use(templatePathMiddleware())
	templateGroup.GET("/*path", service.getTemplate)
	templateGroup.PUT("/*path", service.saveTemplate)
	templateGroup.DELETE("/*path", service.deleteTemplate)

	server.Handler = router
	service.router = router
}
