package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shopcart-api/internal/pkg/apperror"
)

// respondError writes the public message of err with its mapped status
func respondError(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{
		"error": apperror.PublicMessage(err),
	})
}

// bindJSON decodes the request body, answering 400 itself on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		case errors.Is(err, io.EOF):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing data"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		}
		return false
	}
	return true
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
