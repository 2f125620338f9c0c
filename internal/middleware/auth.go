package middleware

import (
	"net/http"
	"strings"

	"wolftactical/internal/apierror"
	"wolftactical/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie is the hardened admin cookie (HttpOnly, SameSite=Lax).
	SessionCookie = "wt_session"

	sessionKey = "session"
	sidKey     = "sid"
)

// SessionToken extracts the raw session token from the cookie or, as a
// fallback for non-browser clients, from a Bearer header.
func SessionToken(c *gin.Context) string {
	if tok, err := c.Cookie(SessionCookie); err == nil && tok != "" {
		return tok
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// ParseSID verifies the token signature and returns the embedded session id.
func ParseSID(token, secret string) (string, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sid, ok := claims["sid"].(string)
	return sid, ok && sid != ""
}

// SessionAuth guards admin routes: the cookie carries a signed session id and
// the authoritative logged-in state is looked up server-side, so a destroyed
// session is rejected even while its token is still unexpired.
func SessionAuth(secret string, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		sid, ok := ParseSID(token, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sesion invalida o expirada"))
			return
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sesion invalida o expirada"))
			return
		}

		// Slide the idle window on every authenticated request.
		_ = store.Touch(c.Request.Context(), sid)

		c.Set(sessionKey, sess)
		c.Set(sidKey, sid)
		c.Next()
	}
}

// GetSesion retrieves the authenticated session from the Gin context.
func GetSesion(c *gin.Context) *session.Session {
	s, _ := c.MustGet(sessionKey).(*session.Session)
	return s
}

// GetSID retrieves the authenticated session id from the Gin context.
func GetSID(c *gin.Context) string {
	return c.GetString(sidKey)
}
