package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

// ProfileIDHeader - заголовок, которым клиент сообщает свой профиль.
const ProfileIDHeader = "profile_id"

// ContextProfileKey - ключ профиля в gin.Context.
const ContextProfileKey = "profile"

// ProfileLookup находит профиль по id.
type ProfileLookup interface {
	GetProfileByID(ctx context.Context, id int64) (*models.Profile, error)
}

// ProfileAuth определяет профиль по заголовку profile_id.
// Это идентификация, а не аутентификация: заголовок никак не подписан.
func ProfileAuth(lookup ProfileLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := resolveProfile(c, lookup, c.GetHeader(ProfileIDHeader))
		if !ok {
			abortUnauthorized(c)
			return
		}
		setProfile(c, profile)
		c.Next()
	}
}

// ProfileAuthFromQuery - вариант для WebSocket upgrade: profile_id берётся из заголовка или query.
func ProfileAuthFromQuery(lookup ProfileLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ProfileIDHeader)
		if raw == "" {
			raw = c.Query(ProfileIDHeader)
		}
		profile, ok := resolveProfile(c, lookup, raw)
		if !ok {
			abortUnauthorized(c)
			return
		}
		setProfile(c, profile)
		c.Next()
	}
}

func resolveProfile(c *gin.Context, lookup ProfileLookup, raw string) (*models.Profile, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	profile, err := lookup.GetProfileByID(c.Request.Context(), id)
	if err != nil {
		if !apperror.IsNotFound(err) {
			logger.WithContext(c.Request.Context()).WithError(err).Error("profile lookup failed")
		}
		return nil, false
	}
	return profile, true
}

func setProfile(c *gin.Context, profile *models.Profile) {
	c.Set(ContextProfileKey, profile)
	c.Request = c.Request.WithContext(logger.ContextWithProfileID(c.Request.Context(), profile.ID))
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(apperror.ErrUnauthorized.HTTPStatus, dto.ErrorResponse{
		Message: apperror.ErrUnauthorized.Message,
		Error:   string(apperror.ErrUnauthorized.Code),
	})
}
