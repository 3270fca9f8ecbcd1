package handlers

import (
	"strconv"

	"restaurant_pos/internal/services"

	"github.com/gin-gonic/gin"
)

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondError writes a ServiceError using its status and client-safe message.
// Anything else is reported as a generic 500.
func respondError(c *gin.Context, err error) {
	serviceErr := services.AsServiceError(err)
	respondMessage(c, serviceErr.StatusCode, serviceErr.Message)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
