package middleware

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

var secret = []byte("middleware-secret")

func sign(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

type seenKeys struct {
	userID, role, clientID string
}

func newEngine(seen *seenKeys) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RequireRole(secret, "client"), func(c *gin.Context) {
		*seen = seenKeys{c.GetString(KeyUserID), c.GetString(KeyUserRole), c.GetString(KeyClientID)}
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	valid := sign(t, jwt.MapClaims{"sub": "u-1", "role": "client", "client_id": "c-9", "exp": exp}, secret)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bad scheme", "Token " + valid, "", http.StatusUnauthorized},
		{"wrong key", "Bearer " + sign(t, jwt.MapClaims{"role": "client", "exp": exp}, []byte("other")), "", http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.MapClaims{"role": "client", "exp": time.Now().Add(-time.Minute).Unix()}, secret), "", http.StatusUnauthorized},
		{"wrong role", "Bearer " + sign(t, jwt.MapClaims{"role": "technician", "exp": exp}, secret), "", http.StatusForbidden},
		{"bearer", "Bearer " + valid, "", http.StatusNoContent},
		{"cookie", "", valid, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen seenKeys
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			newEngine(&seen).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, seenKeys{"u-1", "client", "c-9"}, seen)
			}
		})
	}
}
