// Package auth resolves the authenticated caller from a bearer token. It
// only validates tokens; issuing them (and anything password-shaped) is the
// identity provider's problem, not this service's.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpulse/eventpulse/internal/models"
	"github.com/eventpulse/eventpulse/internal/repository"
)

const userContextKey = "auth.currentUser"

// Identity validates HS256 bearer tokens and resolves the caller to a
// stored user profile.
type Identity struct {
	secret []byte
	users  repository.UserRepository
	log    *zap.Logger
}

// NewIdentity creates a new identity resolver
func NewIdentity(secret string, users repository.UserRepository, log *zap.Logger) *Identity {
	return &Identity{
		secret: []byte(secret),
		users:  users,
		log:    log,
	}
}

// Middleware rejects requests without a valid token and stores the resolved
// user on the request context for handlers to pick up.
func (i *Identity) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		userID, err := i.parseToken(raw)
		if err != nil {
			i.log.Debug("Rejected request with invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := i.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func (i *Identity) parseToken(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("unexpected claims type")
	}

	sub, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id claim: %w", err)
	}

	return userID, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		// Browsers cannot set headers on websocket dials; accept the token
		// as a query parameter there.
		if tok := r.URL.Query().Get("token"); tok != "" {
			return tok, true
		}
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the caller resolved by Middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
