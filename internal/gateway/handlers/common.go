package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stocktrail-system/internal/apperrors"
)

// Helper functions
func success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

func failFromError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		fail(c, http.StatusNotFound, err.Error())
	case apperrors.KindInvalidInput:
		fail(c, http.StatusBadRequest, err.Error())
	case apperrors.KindInsufficientStock:
		fail(c, http.StatusConflict, err.Error())
	case apperrors.KindDependencyFailure:
		fail(c, http.StatusBadGateway, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

// parseTimeQuery accepts either a bare date or a full RFC 3339 timestamp.
func parseTimeQuery(c *gin.Context, param string) (*time.Time, bool) {
	str := c.Query(param)
	if str == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return &t, true
	}
	return nil, false
}
