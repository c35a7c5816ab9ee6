package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubTokenizer map[string]map[string]interface{}

func (s stubTokenizer) Generate(map[string]interface{}, time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (s stubTokenizer) Decode(token string) (map[string]interface{}, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := stubTokenizer{
		"good":      {"userID": "u-1"},
		"anonymous": {"username": "nobody"},
	}

	engine := gin.New()
	engine.GET("/me", Authorize(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{"no token", "", "", http.StatusUnauthorized, ""},
		{"malformed header", "Token good", "", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer bad", "", http.StatusUnauthorized, ""},
		{"token without user", "Bearer anonymous", "", http.StatusUnauthorized, ""},
		{"valid header", "Bearer good", "", http.StatusOK, "u-1"},
		{"valid query token", "", "?access_token=good", http.StatusOK, "u-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}
