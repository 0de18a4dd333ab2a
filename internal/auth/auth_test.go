package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	ts := New("secret", time.Hour)

	token, expires, err := ts.Issue(Principal{UserID: 42, Staff: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	p, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 42, Staff: true}, p)
}

func TestTokenService_Rejects(t *testing.T) {
	ts := New("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := New("other", time.Hour).Issue(Principal{UserID: 1})
		require.NoError(t, err)
		_, err = ts.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := New("secret", -time.Minute).Issue(Principal{UserID: 1})
		require.NoError(t, err)
		_, err = ts.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ts.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func newRouter(ts *TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Middleware(ts), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID})
	})
	r.GET("/admin", Middleware(ts), RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	ts := New("secret", time.Hour)
	r := newRouter(ts)
	userToken, _, _ := ts.Issue(Principal{UserID: 7})
	staffToken, _, _ := ts.Issue(Principal{UserID: 8, Staff: true})

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"user", "/me", "Bearer " + userToken, http.StatusOK},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden},
		{"staff on admin route", "/admin", "Bearer " + staffToken, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
