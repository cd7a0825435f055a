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

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	t.Run("Wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other", time.Hour).ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken("user-1", "alice")
		require.NoError(t, err)
		_, err = m.ParseAndValidate(expired)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.ParseAndValidate("not.a.jwt")
		assert.Error(t, err)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptPasswordHasher(4)

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, "s3cret!"))
	assert.Error(t, h.Compare(hash, "wrong"))

	assert.Equal(t, 10, NewBcryptPasswordHasher(99).cost)
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Hour)

	r := gin.New()
	r.GET("/private", AuthRequired(m), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "username": GetUsername(c)})
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer abc").Code)

	token, err := m.GenerateAccessToken("user-1", "alice")
	require.NoError(t, err)

	w := call("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user-1","username":"alice"}`, w.Body.String())
}
