package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bokjikok/bokjikok/internal/logger"
	"github.com/bokjikok/bokjikok/internal/models"
)

// Provider owns the current catalog snapshot. It starts from the built-in
// sample list and replaces the snapshot wholesale whenever a remote fetch
// completes. Items are immutable once published.
type Provider struct {
	baseURL string
	client  *http.Client
	log     logger.Logger

	mu    sync.RWMutex
	items []models.BenefitItem
}

func NewProvider(baseURL string, timeout time.Duration, log logger.Logger) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
		items:   SampleItems(),
	}
}

// Items returns a copy of the current snapshot in catalog order.
func (p *Provider) Items() []models.BenefitItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.BenefitItem, len(p.items))
	copy(out, p.items)
	return out
}

// Lookup resolves a single item by identifier.
func (p *Provider) Lookup(id string) (models.BenefitItem, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, item := range p.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.BenefitItem{}, false
}

// Filter narrows the snapshot by category ("" or "전체" match everything) and
// a case-insensitive substring query over title, conditions and agency.
func (p *Provider) Filter(category, query string) []models.BenefitItem {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.BenefitItem
	for _, item := range p.Items() {
		if category != "" && category != "전체" && item.Category != category {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(item.Title + " " + item.Conditions + " " + item.Agency)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

type policiesResponse struct {
	Policies []RawBenefit `json:"policies"`
}

// Refresh fetches the remote catalog and swaps the snapshot. A failure leaves
// the previous snapshot in place; the caller decides how to surface it.
func (p *Provider) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/policies", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status: %d", resp.StatusCode)
	}

	var parsed policiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode catalog: %w", err)
	}

	items := dedupeByID(FromRawList(parsed.Policies))
	if len(items) == 0 {
		return fmt.Errorf("catalog response contained no usable items")
	}

	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	p.log.Info("catalog refreshed", logger.Int("items", len(items)))
	return nil
}

// dedupeByID keeps the first occurrence of each identifier so a snapshot
// never violates the unique-id invariant.
func dedupeByID(items []models.BenefitItem) []models.BenefitItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
