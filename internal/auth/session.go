package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCreds = errors.New("invalid credentials")

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// Client performs the login call against the backend. Credential
// verification happens server-side; the client only holds the issued token.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*Credentials, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCreds
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login returned status: %d", resp.StatusCode)
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	return NewCredentials(parsed.Token, parsed.User.Name), nil
}

// Credentials holds the issued token and what the client could read from it.
// The signature is not verified here, the secret lives on the server, so the
// claims are advisory: display name and expiry for session bookkeeping.
type Credentials struct {
	Token       string
	DisplayName string
	ExpiresAt   time.Time
}

func NewCredentials(token, fallbackName string) *Credentials {
	creds := &Credentials{Token: token, DisplayName: fallbackName}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return creds
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return creds
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		creds.DisplayName = name
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		creds.ExpiresAt = exp.Time
	}
	return creds
}

// Session tracks the authenticated flag and display name for the running
// client. Logout side effects (clearing bookmarks and notifications) belong
// to the caller; this type only owns the identity state.
type Session struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SetCredentials(creds *Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
}

// Authenticated reports whether a non-expired login is present.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return false
	}
	if !s.creds.ExpiresAt.IsZero() && time.Now().After(s.creds.ExpiresAt) {
		return false
	}
	return true
}

func (s *Session) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.DisplayName
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
}
