package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the login endpoint and, behind the authenticated chain,
// the caller lookup.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, authenticated []gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.GET("/me", append(authenticated, handler.Me)...)
}
