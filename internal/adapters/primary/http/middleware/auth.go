package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artefact-registry/internal/core/domain"
)

// ContextPrincipal is the gin context key holding the authenticated caller.
const ContextPrincipal = "principal"

type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller in both the gin context and the request context.
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}

		p, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}

		c.Set(ContextPrincipal, p)
		c.Request = c.Request.WithContext(domain.WithPrincipal(c.Request.Context(), p))

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
