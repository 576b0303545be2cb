package api

import (
	"fmt"
	"net/http"
	"strings"

	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
	"github.com/gin-gonic/gin"
)

const templatePathKey = "provided_template_path"

// templatePathMiddleware validates the catch-all path parameter and stores it
// without the leading slash.
func templatePathMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := ctx.Param("path")
		path := strings.TrimPrefix(raw, "/")

		if !db.ValidPath(path) {
			errField := ErrorField{"path", fmt.Sprintf("Invalid template path: %s", raw)}
			ctx.AbortWithStatusJSON(
				http.StatusBadRequest,
				NewErrorResponse(ErrInvalidPath, errField),
			)
			return
		}

		ctx.Set(templatePathKey, path)
		ctx.Next()
	}
}

func extractTemplatePathFromCtx(ctx *gin.Context) string {
	return ctx.MustGet(templatePathKey).(string)
}
