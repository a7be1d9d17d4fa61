package catalog

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the student product endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated []gin.HandlerFunc) {
	products := router.Group("/product_access")
	{
		products.GET("", append(authenticated, handler.List)...)
		products.GET("/:productId", append(authenticated, handler.GetByID)...)
	}
}
