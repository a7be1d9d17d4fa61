package product

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches admin product endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, adminOnly []gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("", append(adminOnly, handler.List)...)
		products.POST("", append(adminOnly, handler.Create)...)
		products.GET("/:productId", append(adminOnly, handler.GetByID)...)
		products.PUT("/:productId", append(adminOnly, handler.Update)...)
		products.DELETE("/:productId", append(adminOnly, handler.Delete)...)
	}
}
