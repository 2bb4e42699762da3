package panel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlmvpsc/questionbank/internal/models"
)

func TestConnectSendsColonDelimitedHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	questions, err := client.Connect(context.Background(), Credentials{Username: "alice", Password: "correct horse"})

	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.Equal(t, "alice:correct horse", gotAuth)
}

func TestConnectClassifiesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Connect(context.Background(), Credentials{Username: "alice", Password: "wrong"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestConnectClassifiesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := NewClient(srv.URL)
	_, err := client.Connect(context.Background(), Credentials{Username: "alice", Password: "pw"})

	assert.ErrorIs(t, err, ErrUnreachable)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestAddQuestionReturnsStoredRecord(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/questions/add", r.URL.Path)

		var req struct {
			Statement string   `json:"statement"`
			Answers   []string `json:"answers"`
			Labels    []string `json:"labels"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"question": models.Question{
				ID:        id,
				Statement: req.Statement,
				Answers:   req.Answers,
				Labels:    req.Labels,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetCredentials(Credentials{Username: "alice", Password: "pw"})

	stored, err := client.AddQuestion(context.Background(), models.Question{
		Statement: "2+2?",
		Answers:   []string{"3", "4"},
		Labels:    []string{"math"},
	})

	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "2+2?", stored.Statement)
	assert.Equal(t, []string{"3", "4"}, stored.Answers)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"no question with this id"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetCredentials(Credentials{Username: "alice", Password: "pw"})

	err := client.DeleteQuestion(context.Background(), uuid.New())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "no question with this id", apiErr.Message)
}
