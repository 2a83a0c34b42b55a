package security

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ClinicianRole is the only role allowed to read screening history.
const ClinicianRole = "clinician"

const claimsKey = "clinician_claims"

// ClinicianClaims are the claims of a clinician access token
type ClinicianClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ClinicianAuth issues and validates HS256 clinician tokens
type ClinicianAuth struct {
	secret     []byte
	expiration time.Duration
}

// NewClinicianAuth creates a token manager. An empty secret disables
// authentication and Middleware lets every request through.
func NewClinicianAuth(secret string, expiration time.Duration) *ClinicianAuth {
	return &ClinicianAuth{secret: []byte(secret), expiration: expiration}
}

// Enabled reports whether a secret is configured
func (a *ClinicianAuth) Enabled() bool {
	return len(a.secret) > 0
}

// IssueToken signs a clinician token for subject
func (a *ClinicianAuth) IssueToken(subject string) (string, error) {
	if !a.Enabled() {
		return "", errors.New("clinician auth is not configured")
	}

	now := time.Now()
	claims := &ClinicianClaims{
		Role: ClinicianRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "neuroweave",
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateToken parses tokenString and checks the clinician role
func (a *ClinicianAuth) ValidateToken(tokenString string) (*ClinicianClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ClinicianClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return a.secret, nil
	}, jwt.WithIssuer("neuroweave"))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ClinicianClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != ClinicianRole {
		return nil, errors.New("token is not a clinician token")
	}
	return claims, nil
}

// Middleware requires a valid bearer clinician token when auth is enabled
func (a *ClinicianAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClinicianClaims extracts claims set by Middleware
func GetClinicianClaims(c *gin.Context) (*ClinicianClaims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*ClinicianClaims)
	return claims, ok
}
