package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONError sends the error shape the client expects: a body with a
// user-visible "message" field.
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"message": message,
	})
}
