package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(true))
	router.GET("/history", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestHSTSDisabled(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(false))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestIssueAndValidateToken(t *testing.T) {
	auth := NewClinicianAuth("test-secret", time.Hour)

	token, err := auth.IssueToken("dr-lee")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "dr-lee", claims.Subject)
	assert.Equal(t, ClinicianRole, claims.Role)

	_, err = NewClinicianAuth("other-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejects(t *testing.T) {
	auth := NewClinicianAuth("test-secret", time.Hour)

	expired, err := NewClinicianAuth("test-secret", -time.Minute).IssueToken("dr-lee")
	require.NoError(t, err)
	_, err = auth.ValidateToken(expired)
	assert.Error(t, err)

	wrongRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClinicianClaims{
		Role: "parent",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "neuroweave",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := wrongRole.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &ClinicianClaims{Role: ClinicianRole}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestIssueTokenDisabled(t *testing.T) {
	_, err := NewClinicianAuth("", time.Hour).IssueToken("dr-lee")
	assert.Error(t, err)
}

func TestClinicianMiddleware(t *testing.T) {
	auth := NewClinicianAuth("test-secret", time.Hour)
	token, err := auth.IssueToken("dr-lee")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/history", auth.Middleware(), func(c *gin.Context) {
		claims, ok := GetClinicianClaims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Subject)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "dr-lee", w.Body.String())
			}
		})
	}
}

func TestClinicianMiddlewareDisabled(t *testing.T) {
	router := gin.New()
	router.GET("/history", NewClinicianAuth("", time.Hour).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
