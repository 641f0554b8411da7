package middlewares

import (
	"log"

	"github.com/gin-gonic/gin"
)

// RespondJSON writes data as the JSON response body.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs the underlying error and responds with a client-safe message.
func HttpError(c *gin.Context, message string, status int, err error) {
	log.Printf("%s %s -> %d %s: %v", c.Request.Method, c.Request.URL.Path, status, message, err)
	c.JSON(status, gin.H{"error": message})
}
