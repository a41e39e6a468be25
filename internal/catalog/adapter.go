package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/bokjikok/bokjikok/internal/models"
)

// RawBenefit mirrors the loosely-shaped records the remote endpoints return.
// Different variants of the backend disagree on field names (title vs name,
// deadline vs endDate, amount vs benefit) and on whether IDs are numbers or
// strings; FromRaw is the single place that drift is absorbed.
type RawBenefit struct {
	ID           json.RawMessage `json:"id"`
	Title        string          `json:"title"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Summary      string          `json:"summary"`
	Amount       string          `json:"amount"`
	Benefit      string          `json:"benefit"`
	Agency       string          `json:"agency"`
	Organization string          `json:"organization"`
	Deadline     string          `json:"deadline"`
	EndDate      string          `json:"endDate"`
	Conditions   string          `json:"conditions"`
	Eligibility  string          `json:"eligibility"`
	Benefits     []string        `json:"benefits"`
}

var textPolicy = bluemonday.StrictPolicy()

// HTMLToText strips markup from upstream descriptions, collapsing whitespace.
func HTMLToText(html string) string {
	sanitized := textPolicy.Sanitize(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitized))
	if err != nil {
		return cleanText(sanitized)
	}
	return cleanText(doc.Text())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateText cuts a string to max runes, appending an ellipsis if cut.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes[:maxLen])
}

// FromRaw converts one loosely-shaped upstream record into the canonical
// BenefitItem. Missing fields stay zero; an unusable ID falls back to a slug
// of the title so bookmark references stay stable across fetches.
func FromRaw(raw RawBenefit) models.BenefitItem {
	item := models.BenefitItem{
		ID:         decodeID(raw.ID),
		Title:      firstNonEmpty(raw.Title, raw.Name),
		Category:   raw.Category,
		Summary:    HTMLToText(firstNonEmpty(raw.Summary, raw.Description)),
		Amount:     firstNonEmpty(raw.Amount, raw.Benefit),
		Agency:     firstNonEmpty(raw.Agency, raw.Organization),
		Conditions: firstNonEmpty(raw.Conditions, raw.Eligibility),
		Benefits:   raw.Benefits,
	}

	if item.ID == "" {
		item.ID = slugify(item.Title)
	}

	rawDeadline := firstNonEmpty(raw.Deadline, raw.EndDate)
	if isAlwaysOpen(rawDeadline) {
		item.AlwaysOpen = true
	} else if t, err := ParseDeadline(rawDeadline); err == nil {
		item.Deadline = &t
	}

	return item
}

// FromRawList normalizes a whole upstream payload, dropping records that end
// up without both an ID and a title.
func FromRawList(raws []RawBenefit) []models.BenefitItem {
	items := make([]models.BenefitItem, 0, len(raws))
	for _, raw := range raws {
		item := FromRaw(raw)
		if item.ID == "" && item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
