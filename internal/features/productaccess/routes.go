package productaccess

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches admin grant endpoints under a product.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, adminOnly []gin.HandlerFunc) {
	access := router.Group("/products/:productId/access")
	{
		access.GET("", append(adminOnly, handler.ListByProduct)...)
		access.POST("", append(adminOnly, handler.Grant)...)
		access.DELETE("/:userId", append(adminOnly, handler.Revoke)...)
	}
}
