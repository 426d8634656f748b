package middleware

import (
	"net/http"
	"strings"

	"empleadosauth/internal/apierror"
	"empleadosauth/internal/token"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

// JWTAuth validates the Bearer token on every protected route. A missing or
// non-Bearer Authorization header is a 401; a token that fails verification
// (forged, malformed or expired — indistinguishable by contract) is a 403.
func JWTAuth(tokens *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token de acceso requerido"))
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Token inválido o expirado"))
			return
		}

		// Verified claims are the authenticated identity for the rest of
		// the request.
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *token.Claims {
	claims, _ := c.MustGet(ClaimsKey).(*token.Claims)
	return claims
}
