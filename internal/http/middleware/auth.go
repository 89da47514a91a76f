package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/gigledger/internal/auth"
	"github.com/nurpe/gigledger/internal/model"
)

const principalKey = "principal"

// ProfileResolver turns an authenticated profile id into the stored profile.
type ProfileResolver interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// Auth validates the bearer token and resolves the profile it names. The
// resolved principal is trusted by everything downstream.
func Auth(parser *auth.Parser, profiles ProfileResolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		profileID, err := parser.ParseProfileID(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Msg("rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), profileID)
		if err != nil {
			log.Debug().Err(err).Str("profile_id", profileID.String()).Msg("unknown profile in token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid profile"})
			return
		}

		c.Set(principalKey, model.Principal{ID: profile.ID, Type: profile.Type})
		c.Next()
	}
}

// Admin requires an authenticated admin principal. Must run after Auth.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}
