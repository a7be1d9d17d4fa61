package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessNoStore writes a success envelope that no browser or proxy may keep.
// Used for caller-specific payloads such as progress and purchased catalogs.
func SuccessNoStore(c *gin.Context, status int, data interface{}, message string) {
	c.Header("Cache-Control", "private, no-store")
	c.Header("Vary", "Authorization")
	Success(c, status, data, message, nil)
}
