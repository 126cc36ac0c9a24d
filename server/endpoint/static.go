package endpoint

import (
	"github.com/gin-gonic/gin"
)

// JSON returns a handler that always writes body with the given status.
// The body is serialized on every call, so it must not be mutated after
// the handler is built.
func JSON(status int, body any) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(status, body)
	}
}
