// Package handlers holds shared HTTP response helpers for the API handlers.
package handlers

import (
	"errors"
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError maps service errors onto HTTP responses. CustomErrors carry
// their own status and code; anything else is a 500.
func RespondError(c *gin.Context, err error) {
	var custom *common.CustomError
	if errors.As(err, &custom) {
		if custom.Status >= 500 {
			common.LogError("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("code", custom.Code),
				zap.Error(err))
		}
		c.JSON(custom.Status, common.ErrorResponse{
			Code:    custom.Code,
			Message: custom.Message,
		})
		return
	}

	common.LogError("unexpected error",
		zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "internal server error",
	})
}
