package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	a "github.com/greenloop/wastecoin/pkg/auth"
)

// JWTAuth rejects requests without a valid bearer token before any handler
// runs. Only the `Bearer <token>` form is accepted.
func JWTAuth(mgr *a.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		tok := strings.TrimPrefix(h, "Bearer ")
		claims, err := mgr.ParseValidate(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("sub", claims.Sub)
		c.Set("role", claims.Role)
		c.Set("email", claims.Email)
		c.Set("wallet", claims.Wallet)
		c.Next()
	}
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("role")
		role, _ := v.(string)
		if !a.Allowed(role, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "officer role required"})
			return
		}
		c.Next()
	}
}
