package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/http/middleware"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/pagination"
)

// ErrProfileNotInContext - обработчик вызван без ProfileAuth.
var ErrProfileNotInContext = errors.New("profile not found in context")

// CurrentProfile возвращает профиль, определённый middleware.ProfileAuth.
func CurrentProfile(c *gin.Context) (*models.Profile, error) {
	raw, exists := c.Get(middleware.ContextProfileKey)
	if !exists {
		return nil, ErrProfileNotInContext
	}
	profile, ok := raw.(*models.Profile)
	if !ok || profile == nil {
		return nil, ErrProfileNotInContext
	}
	return profile, nil
}

// MustProfile отвечает 401, если профиля нет в контексте.
func MustProfile(c *gin.Context) (*models.Profile, bool) {
	profile, err := CurrentProfile(c)
	if err != nil {
		RespondAppError(c, apperror.ErrUnauthorized)
		return nil, false
	}
	return profile, true
}

// ParseIDParam читает положительный целый параметр пути.
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Newf(apperror.ErrCodeBadRequest, "%s must be a positive integer", name)
	}
	return id, nil
}

// ParseIntQuery читает целый query параметр; при ошибке разбора возвращает fallback.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPagination читает page и page_size. Нормализация выполняется в pagination.Calculate.
func GetPagination(c *gin.Context) (page, pageSize int) {
	return ParseIntQuery(c, "page", pagination.DefaultPage), ParseIntQuery(c, "page_size", pagination.DefaultPageSize)
}

// BindJSON разбирает тело запроса; ошибка превращается в 400.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondAppError(c, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error()))
		return false
	}
	return true
}

func RespondSuccess(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, dto.SuccessResponse{Message: message, Data: data})
}

func RespondList(c *gin.Context, message string, count int, data any) {
	c.JSON(http.StatusOK, dto.ListResponse{Message: message, Count: count, Data: data})
}

// RespondAppError отвечает ошибкой из таксономии. Причина 5xx только логируется.
func RespondAppError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	switch {
	case appErr.HTTPStatus >= http.StatusInternalServerError:
		logger.WithContext(c.Request.Context()).WithError(err).WithField("path", c.FullPath()).Error("request failed")
	case apperror.IsValidation(appErr):
		logger.WithContext(c.Request.Context()).WithField("path", c.FullPath()).Debugf("request rejected: %s", appErr.Message)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, dto.ErrorResponse{
		Message: appErr.Message,
		Error:   string(appErr.Code),
	})
}
