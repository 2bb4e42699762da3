package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tlmvpsc/questionbank/internal/models"
)

type fakeSource struct {
	hashes map[string]string
}

func (f *fakeSource) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	hash, ok := f.hashes[username]
	if !ok {
		return nil, errors.New("admin not found")
	}
	return &models.Admin{Username: username, PasswordHash: hash}, nil
}

func newGuardedRouter(t *testing.T, password string) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	source := &fakeSource{hashes: map[string]string{"alice": string(hash)}}

	var caller string
	r := gin.New()
	r.GET("/protected", Credentials(source), func(c *gin.Context) {
		caller = c.GetString(ContextUsername)
		c.Status(http.StatusOK)
	})
	return r, &caller
}

func get(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCredentialsFailClosed(t *testing.T) {
	r, _ := newGuardedRouter(t, "correct horse")

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"no colon", "alice"},
		{"unknown username", "ghost:correct horse"},
		{"wrong password", "alice:battery staple"},
		{"empty password", "alice:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.auth)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			// Same generic body for every failure mode.
			assert.JSONEq(t, `{"success":false,"error":"unauthorized"}`, w.Body.String())
		})
	}
}

func TestCredentialsAcceptsValidPair(t *testing.T) {
	r, caller := newGuardedRouter(t, "correct horse")

	w := get(r, "alice:correct horse")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", *caller)
}

func TestCredentialsSplitsAtFirstColon(t *testing.T) {
	r, caller := newGuardedRouter(t, "pass:with:colons")

	w := get(r, "alice:pass:with:colons")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", *caller)
}

func TestSplitCredentials(t *testing.T) {
	username, password, ok := SplitCredentials("alice:secret")
	require.True(t, ok)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "secret", password)

	_, _, ok = SplitCredentials("")
	assert.False(t, ok)

	_, _, ok = SplitCredentials("no-colon-here")
	assert.False(t, ok)
}
