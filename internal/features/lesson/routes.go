package lesson

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches admin lesson endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, adminOnly []gin.HandlerFunc) {
	lessons := router.Group("/lessons")
	{
		lessons.GET("", append(adminOnly, handler.List)...)
		lessons.POST("", append(adminOnly, handler.Create)...)
		lessons.GET("/:lessonId", append(adminOnly, handler.GetByID)...)
		lessons.PUT("/:lessonId", append(adminOnly, handler.Update)...)
		lessons.DELETE("/:lessonId", append(adminOnly, handler.Delete)...)
		lessons.POST("/:lessonId/products", append(adminOnly, handler.AttachProducts)...)
		lessons.DELETE("/:lessonId/products/:productId", append(adminOnly, handler.DetachProduct)...)
	}
}
