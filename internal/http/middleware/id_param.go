package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

// IDParam проверяет, что параметр пути paramName - положительное целое.
// Использование: router.GET("/contracts/:id", IDParam("id"), handler.GetContract)
func IDParam(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Message: paramName + " must be a positive integer",
				Error:   string(apperror.ErrCodeBadRequest),
			})
			return
		}
		c.Next()
	}
}
