// Package auth is the client-side authentication collaborator: it logs in
// and registers against the server, keeps the bearer token and the saved
// base URL in the local metadata store, and hands the Authorization header
// to the upload scheduler.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/metadata"
	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
	"github.com/gontarzpawel/photo-pigeon-send/internal/validate"
)

const (
	keyToken   = "auth_token"
	keyBaseURL = "base_url"

	loginPath    = "login"
	registerPath = "register"
)

type Service struct {
	meta   metadata.Repository
	client *http.Client

	mu      sync.RWMutex
	token   string
	baseURL string
}

// NewService builds a Service and hydrates the token and base URL persisted
// by a previous session, if any.
func NewService(ctx context.Context, meta metadata.Repository) (*Service, error) {
	s := &Service{meta: meta, client: &http.Client{Timeout: 30 * time.Second}}

	token, err := meta.Get(ctx, keyToken)
	if err != nil {
		return nil, fmt.Errorf("load auth token: %w", err)
	}
	baseURL, err := meta.Get(ctx, keyBaseURL)
	if err != nil {
		return nil, fmt.Errorf("load base url: %w", err)
	}

	s.token = string(token)
	s.baseURL = string(baseURL)
	return s, nil
}

type loginResponse struct {
	Token    string `json:"token"`
	Identity struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"identity"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login authenticates against serverURL and stores the received token plus
// the base URL for later sessions. The URL is validated before any network
// call.
func (s *Service) Login(ctx context.Context, username, password, serverURL string) error {
	if !validate.IsValidURL(serverURL) {
		return common.ErrInvalidURL
	}

	if err := s.saveBaseURL(ctx, serverURL); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	data, status, err := s.postJSON(ctx, validate.JoinAPIURL(serverURL, loginPath), body)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return common.ErrBadCredential
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("login failed: %s", serverMessage(data, status))
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil || resp.Token == "" {
		return fmt.Errorf("unexpected login response")
	}

	return s.saveToken(ctx, resp.Token)
}

// Register creates a new account on serverURL. It does not log the user in.
func (s *Service) Register(ctx context.Context, username, password, email, serverURL string) error {
	if !validate.IsValidURL(serverURL) {
		return common.ErrInvalidURL
	}

	if err := s.saveBaseURL(ctx, serverURL); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	})
	if err != nil {
		return fmt.Errorf("marshal register request: %w", err)
	}

	data, status, err := s.postJSON(ctx, validate.JoinAPIURL(serverURL, registerPath), body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("registration failed: %s", serverMessage(data, status))
	}

	var resp registerResponse
	if err := json.Unmarshal(data, &resp); err == nil && !resp.Success && resp.Message != "" {
		return fmt.Errorf("registration failed: %s", resp.Message)
	}

	return nil
}

// Logout drops the token but keeps the base URL so it can be reused on the
// next login.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.meta.Delete(ctx, keyToken); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *Service) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// AuthHeader returns the Authorization header value for API requests, or ""
// when no token is present.
func (s *Service) AuthHeader() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return ""
	}
	return "Bearer " + s.token
}

// BaseURL returns the saved server base URL, or "" if none was saved yet.
func (s *Service) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

func (s *Service) saveBaseURL(ctx context.Context, baseURL string) error {
	if err := s.meta.Set(ctx, keyBaseURL, []byte(baseURL)); err != nil {
		return fmt.Errorf("save base url: %w", err)
	}
	s.mu.Lock()
	s.baseURL = baseURL
	s.mu.Unlock()
	return nil
}

func (s *Service) saveToken(ctx context.Context, token string) error {
	if err := s.meta.Set(ctx, keyToken, []byte(token)); err != nil {
		return fmt.Errorf("save auth token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *Service) postJSON(ctx context.Context, url string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, nil
}

func serverMessage(data []byte, status int) string {
	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return fmt.Sprintf("status %d", status)
}
