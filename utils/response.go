package utils

import (
	"github.com/gin-gonic/gin"

	"hotel-channel/ota"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// XMLError writes a minimal <Errors> body. Used at the webhook boundary
// before the message family is known.
func XMLError(c *gin.Context, code int, errType, message string) {
	c.XML(code, ota.Errors{Errors: []ota.ErrorElem{{Type: errType, Text: message}}})
}
