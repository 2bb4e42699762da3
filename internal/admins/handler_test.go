package admins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tlmvpsc/questionbank/internal/middleware"
	"github.com/tlmvpsc/questionbank/internal/models"
)

var errNotFound = errors.New("admin not found")

// fakeStore is an in-memory admin store implementing both the handler's
// Store and the guard's CredentialSource.
type fakeStore struct {
	hashes map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: make(map[string]string)}
}

func (f *fakeStore) Exists(_ context.Context, username string) (bool, error) {
	_, ok := f.hashes[username]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, username, passwordHash string) error {
	f.hashes[username] = passwordHash
	return nil
}

func (f *fakeStore) Delete(_ context.Context, username string) (bool, error) {
	if _, ok := f.hashes[username]; !ok {
		return false, nil
	}
	delete(f.hashes, username)
	return true, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	hash, ok := f.hashes[username]
	if !ok {
		return nil, errNotFound
	}
	return &models.Admin{Username: username, PasswordHash: hash}, nil
}

func (f *fakeStore) add(t *testing.T, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.hashes[username] = string(hash)
}

func newTestRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, zap.NewNop())
	r := gin.New()
	r.PUT("/admins/add", h.Add)
	r.DELETE("/admins/delete/:username", middleware.Credentials(store), h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAddValidationOrder(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]string
		wantError string
	}{
		{
			name:      "missing username",
			body:      map[string]string{"password": "longenough"},
			wantError: "Must provide a 'username'.",
		},
		{
			name:      "username too short after trimming",
			body:      map[string]string{"username": "  ab  ", "password": "longenough"},
			wantError: "'username' must be at least 3 characters long.",
		},
		{
			name:      "missing password",
			body:      map[string]string{"username": "alice"},
			wantError: "Must provide a 'password'.",
		},
		{
			name:      "password too short",
			body:      map[string]string{"username": "alice", "password": "short"},
			wantError: "'password' must be at least 8 characters long.",
		},
		{
			name:      "username reported before password",
			body:      map[string]string{"username": "ab", "password": "short"},
			wantError: "'username' must be at least 3 characters long.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			w := doJSON(t, newTestRouter(store), http.MethodPut, "/admins/add", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.Empty(t, store.hashes, "no record may be created on validation failure")
		})
	}
}

func TestAddStoresTrimmedUsernameAndHash(t *testing.T) {
	store := newFakeStore()
	w := doJSON(t, newTestRouter(store), http.MethodPut, "/admins/add", "",
		map[string]string{"username": "  alice  ", "password": "correct horse"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])

	hash, ok := store.hashes["alice"]
	require.True(t, ok, "username must be stored trimmed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct horse")))
}

func TestAddRejectsDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store)
	body := map[string]string{"username": "alice", "password": "correct horse"}

	w := doJSON(t, r, http.MethodPut, "/admins/add", "", body)
	require.Equal(t, http.StatusCreated, w.Code)
	original := store.hashes["alice"]

	w = doJSON(t, r, http.MethodPut, "/admins/add", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "The username 'alice' is already taken.", decodeBody(t, w)["error"])
	assert.Equal(t, original, store.hashes["alice"], "original record must be unchanged")
}

func TestDeleteRequiresAuth(t *testing.T) {
	store := newFakeStore()
	store.add(t, "alice", "correct horse")
	r := newTestRouter(store)

	for _, auth := range []string{"", "alice", "alice:wrong", "bob:correct horse"} {
		w := doJSON(t, r, http.MethodDelete, "/admins/delete/alice", auth, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "auth %q", auth)
	}
	assert.Contains(t, store.hashes, "alice")
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	store := newFakeStore()
	store.add(t, "alice", "correct horse")

	w := doJSON(t, newTestRouter(store), http.MethodDelete, "/admins/delete/alice", "alice:correct horse", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You can't delete your own account.", decodeBody(t, w)["error"])
	assert.Contains(t, store.hashes, "alice")
}

func TestDeleteUnknownUsername(t *testing.T) {
	store := newFakeStore()
	store.add(t, "alice", "correct horse")

	w := doJSON(t, newTestRouter(store), http.MethodDelete, "/admins/delete/ghost", "alice:correct horse", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Couldn't delete this admin. You most probably provided an unexistent username.", decodeBody(t, w)["error"])
	assert.Len(t, store.hashes, 1)
}

func TestDeleteOtherAdmin(t *testing.T) {
	store := newFakeStore()
	store.add(t, "alice", "correct horse")
	store.add(t, "bob", "battery staple")

	w := doJSON(t, newTestRouter(store), http.MethodDelete, "/admins/delete/bob", "alice:correct horse", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
	assert.NotContains(t, store.hashes, "bob")
	assert.Contains(t, store.hashes, "alice")
}
