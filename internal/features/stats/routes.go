package stats

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the admin statistics endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, adminOnly []gin.HandlerFunc) {
	all := router.Group("/all_products")
	{
		all.GET("", append(adminOnly, handler.List)...)
		all.GET("/:productId", append(adminOnly, handler.GetByID)...)
	}
}
