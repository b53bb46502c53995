package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/tienda-ropa/internal/utils"
)

// SubjectKey is the gin context key holding the authenticated token subject.
const SubjectKey = "subject"

// AuthMiddleware requires a bearer token signed with secret and carrying the
// report-reader role.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		claims, err := utils.ValidateJWT(secret, raw)
		switch {
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		case claims.Role != utils.RoleReportReader:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Report access denied"})
		default:
			c.Set(SubjectKey, claims.Subject)
			c.Next()
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
