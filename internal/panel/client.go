package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tlmvpsc/questionbank/internal/models"
)

var (
	// ErrUnreachable means the API could not be reached at the transport level.
	ErrUnreachable = errors.New("server unreachable")
	// ErrUnauthorized means the API rejected the supplied credentials.
	ErrUnauthorized = errors.New("invalid credentials")
)

// APIError carries a non-auth error reported by the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// Credentials is the username/password pair reused on every request.
type Credentials struct {
	Username string
	Password string
}

// Client is a REST client for the question bank API. It sends the raw
// "username:password" Authorization header the API expects.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
}

// NewClient creates a panel API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetCredentials caches the credentials used on subsequent requests.
func (c *Client) SetCredentials(creds Credentials) {
	c.creds = creds
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.creds.Username+":"+c.creds.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Connect caches the credentials and performs the authenticated probe: an
// initial question fetch. Wrong credentials surface as ErrUnauthorized, a
// dead server as ErrUnreachable.
func (c *Client) Connect(ctx context.Context, creds Credentials) ([]models.Question, error) {
	c.SetCredentials(creds)
	return c.ListQuestions(ctx)
}

// ListQuestions fetches all questions.
func (c *Client) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var list []models.Question
	if err := c.do(ctx, http.MethodGet, "/questions/get", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type saveQuestionRequest struct {
	Statement string   `json:"statement"`
	Answers   []string `json:"answers"`
	Labels    []string `json:"labels,omitempty"`
}

type addQuestionResponse struct {
	Success  bool            `json:"success"`
	Question models.Question `json:"question"`
}

// AddQuestion stores a new question and returns it with its assigned id.
func (c *Client) AddQuestion(ctx context.Context, q models.Question) (models.Question, error) {
	body := saveQuestionRequest{Statement: q.Statement, Answers: q.Answers, Labels: q.Labels}
	var resp addQuestionResponse
	if err := c.do(ctx, http.MethodPut, "/questions/add", body, &resp); err != nil {
		return models.Question{}, err
	}
	return resp.Question, nil
}

// EditQuestion replaces the stored fields of the question matching q.ID.
func (c *Client) EditQuestion(ctx context.Context, q models.Question) error {
	body := saveQuestionRequest{Statement: q.Statement, Answers: q.Answers, Labels: q.Labels}
	return c.do(ctx, http.MethodPatch, "/questions/edit/"+q.ID.String(), body, nil)
}

// DeleteQuestion removes a question by id.
func (c *Client) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/questions/delete/"+id.String(), nil, nil)
}

type addAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddAdmin provisions a new admin account.
func (c *Client) AddAdmin(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPut, "/admins/add", addAdminRequest{Username: username, Password: password}, nil)
}

// DeleteAdmin removes another admin account.
func (c *Client) DeleteAdmin(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/admins/delete/"+username, nil, nil)
}
