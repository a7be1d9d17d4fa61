package lessonview

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches progress endpoints for authenticated callers.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated []gin.HandlerFunc) {
	progress := router.Group("/lessons/:lessonId/progress")
	{
		progress.GET("", append(authenticated, handler.GetProgress)...)
		progress.PUT("", append(authenticated, handler.UpdateProgress)...)
	}
}
