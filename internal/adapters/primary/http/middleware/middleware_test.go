package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"artefact-registry/internal/core/domain"
)

type stubVerifier map[string]domain.Principal

func (s stubVerifier) Verify(token string) (domain.Principal, error) {
	p, ok := s[token]
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logging())

	verifier := stubVerifier{"good": {UserID: "JPEREZ", Name: "Juan Perez", Role: "A"}}
	api := r.Group("/api", JWTAuth(verifier))
	api.GET("/whoami", func(c *gin.Context) {
		p, ok := domain.PrincipalFrom(c.Request.Context())
		fromGin, _ := c.Get(ContextPrincipal)
		c.JSON(http.StatusOK, gin.H{"id": p.UserID, "found": ok, "same": fromGin == p})
	})
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"JPEREZ","found":true,"same":true}`, w.Body.String())
}

func TestJWTAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic good"},
		{name: "no token", header: "Bearer "},
		{name: "unknown token", header: "Bearer bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter()

			req, _ := http.NewRequest("GET", "/api/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), domain.ErrUnauthenticated.Error())
		})
	}
}

func TestRequestID(t *testing.T) {
	r := setupRouter()

	t.Run("generated", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/whoami", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(headerRequestID), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/whoami", nil)
		req.Header.Set(headerRequestID, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(headerRequestID))
	})
}

func TestGzip_SkipsArchives(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Gzip())
	r.GET("/api/v1/artifacts", func(c *gin.Context) { c.String(http.StatusOK, "listing") })
	r.GET("/api/v1/artifacts/:id/download", func(c *gin.Context) { c.Data(http.StatusOK, "application/zip", []byte("PK")) })

	req, _ := http.NewRequest("GET", "/api/v1/artifacts", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	req, _ = http.NewRequest("GET", "/api/v1/artifacts/CN_Z_A/download", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "PK", w.Body.String())
}
