package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fit-backend/internal/shared/auth"
	"fit-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	isGuestKey   = "isGuest"

	// SessionCookie carries the same token as the Authorization header for
	// browser clients.
	SessionCookie = "session"
	guestHeader   = "X-Guest-Id"
)

// AuthOptions configures identity resolution.
type AuthOptions struct {
	Issuer     *auth.Issuer
	AllowGuest bool
}

// Auth resolves the caller from a bearer token, the session cookie or, when
// allowed, the guest header. Unresolved callers get 401.
func Auth(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, present := bearerToken(c)
		if present {
			claims, err := verify(opts.Issuer, token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, claims.Subject)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			c.Set(isGuestKey, false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader(guestHeader))
		if !opts.AllowGuest || guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing identity", nil)
			return
		}
		c.Set(userIDKey, "guest:"+guestID)
		c.Set(isGuestKey, true)
		c.Next()
	}
}

// bearerToken returns the token from the Authorization header or the session
// cookie. present is true when the caller attempted token auth at all.
func bearerToken(c *gin.Context) (token string, present bool) {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", true
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), true
	}
	return "", false
}

func verify(issuer *auth.Issuer, token string) (*auth.Claims, error) {
	if issuer == nil || token == "" {
		return nil, auth.ErrInvalidToken
	}
	return issuer.Verify(token)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// IsGuest reports whether the caller was identified by the guest header.
func IsGuest(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(isGuestKey)
}

// UserEmailFromContext returns the email claim of an authenticated caller.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userEmailKey)
}
