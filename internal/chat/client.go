package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bokjikok/bokjikok/internal/catalog"
	"github.com/bokjikok/bokjikok/internal/models"
)

// contextLabel is sent with every chat request so the backend knows the
// consultation domain.
const contextLabel = "복지 혜택 상담"

type chatRequest struct {
	Message  string          `json:"message"`
	Context  string          `json:"context,omitempty"`
	UserInfo *models.Profile `json:"userInfo"`
}

type chatResponse struct {
	Reply    string               `json:"reply"`
	Policies []catalog.RawBenefit `json:"policies"`
}

// RemoteClient sends chat messages to the backend's /chat endpoint.
type RemoteClient struct {
	baseURL string
	client  *http.Client
}

func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *RemoteClient) Reply(ctx context.Context, message string, profile *models.Profile) (*Reply, error) {
	reqBody := chatRequest{
		Message:  message,
		Context:  contextLabel,
		UserInfo: profile,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat returned status: %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Reply{
		Text:  parsed.Reply,
		Items: catalog.FromRawList(parsed.Policies),
	}, nil
}
