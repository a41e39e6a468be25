package match

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bokjikok/bokjikok/internal/catalog"
	"github.com/bokjikok/bokjikok/internal/logger"
	"github.com/bokjikok/bokjikok/internal/models"
)

// manwon converts bracket values (quoted in 만원) to the currency base unit.
const manwon = 10_000

// ValidationError carries every profile problem at once so the caller can
// surface the full list, not just the first failure.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid profile: " + strings.Join(e.Messages, "; ")
}

// Validate checks the fields a matching request requires: a parseable age in
// [0,120], a parseable income, and an enumerated job status.
func Validate(p models.Profile) *ValidationError {
	var msgs []string

	age, err := strconv.Atoi(strings.TrimSpace(p.Age))
	if err != nil {
		msgs = append(msgs, "나이를 숫자로 입력해주세요.")
	} else if age < 0 || age > 120 {
		msgs = append(msgs, "나이는 0~120 사이여야 합니다.")
	}

	if strings.TrimSpace(p.Income) == "" {
		msgs = append(msgs, "월 소득을 선택해주세요.")
	} else if _, err := NormalizeIncome(p.Income); err != nil {
		msgs = append(msgs, "월 소득 형식을 확인해주세요.")
	}

	if p.Job == "" {
		msgs = append(msgs, "직업 상태를 선택해주세요.")
	} else if !models.ValidJobStatus(string(p.Job)) {
		msgs = append(msgs, "직업 상태 값이 올바르지 않습니다.")
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// NormalizeIncome turns a bracket or raw number into a representative amount
// in won. "100-200" and "100~200" resolve to the midpoint of the bounds,
// "500+" to its numeric prefix, and a bare number to itself, all scaled from
// 만원 to won.
func NormalizeIncome(raw string) (int64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "~", "-")
	if raw == "" {
		return 0, fmt.Errorf("empty income")
	}

	if strings.HasSuffix(raw, "+") {
		lo, err := strconv.ParseFloat(strings.TrimSuffix(raw, "+"), 64)
		if err != nil {
			return 0, fmt.Errorf("unable to parse income %q: %w", raw, err)
		}
		return int64(lo * manwon), nil
	}

	if lo, hi, ok := strings.Cut(raw, "-"); ok {
		loVal, loErr := strconv.ParseFloat(lo, 64)
		hiVal, hiErr := strconv.ParseFloat(hi, 64)
		if loErr != nil || hiErr != nil {
			return 0, fmt.Errorf("unable to parse income bracket %q", raw)
		}
		return int64((loVal + hiVal) / 2 * manwon), nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse income %q: %w", raw, err)
	}
	return int64(val * manwon), nil
}

// HouseholdSize derives the household-size proxy sent with search requests.
func HouseholdSize(family models.FamilyStatus) int {
	switch family {
	case models.FamilyHasChildren:
		return 3
	case models.FamilyCouple, models.FamilySenior:
		return 2
	default:
		return 1
	}
}

// Matcher issues profile-driven search and diagnosis requests.
type Matcher struct {
	baseURL string
	client  *http.Client
	limit   int
	log     logger.Logger
}

func NewMatcher(baseURL string, timeout time.Duration, limit int, log logger.Logger) *Matcher {
	if limit <= 0 {
		limit = 20
	}
	return &Matcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limit:   limit,
		log:     log,
	}
}

type policiesResponse struct {
	Policies []catalog.RawBenefit `json:"policies"`
	Error    string               `json:"error"`
}

// FindMatchingBenefits validates the profile and queries the search
// endpoint. A *ValidationError means no request was issued. Any transport or
// decode problem is an error distinct from an empty (but successful) result.
func (m *Matcher) FindMatchingBenefits(ctx context.Context, profile models.Profile) ([]models.BenefitItem, error) {
	if verr := Validate(profile); verr != nil {
		return nil, verr
	}

	income, err := NormalizeIncome(profile.Income)
	if err != nil {
		return nil, &ValidationError{Messages: []string{"월 소득 형식을 확인해주세요."}}
	}

	params := url.Values{}
	params.Set("age", strings.TrimSpace(profile.Age))
	params.Set("region", strings.TrimSpace(profile.Region))
	params.Set("job", string(profile.Job))
	params.Set("income", strconv.FormatInt(income, 10))
	params.Set("householdSize", strconv.Itoa(HouseholdSize(profile.Family)))
	params.Set("limit", strconv.Itoa(m.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/policies?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status: %d", resp.StatusCode)
	}

	var parsed policiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := catalog.FromRawList(parsed.Policies)
	m.log.Debug("matching benefits fetched", logger.Int("count", len(items)))
	return items, nil
}

type diagnosisRequest struct {
	Age    string `json:"age"`
	Income string `json:"income"`
	Job    string `json:"job"`
}

// Diagnose posts the raw profile form fields to the diagnosis endpoint and
// returns the recommended items. A body-level error field or a non-success
// status is a failure, never an empty result.
func (m *Matcher) Diagnose(ctx context.Context, profile models.Profile) ([]models.BenefitItem, error) {
	if verr := Validate(profile); verr != nil {
		return nil, verr
	}

	jsonData, err := json.Marshal(diagnosisRequest{
		Age:    strings.TrimSpace(profile.Age),
		Income: strings.TrimSpace(profile.Income),
		Job:    string(profile.Job),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/diagnosis", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diagnosis request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed policiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return nil, fmt.Errorf("diagnosis failed: %s", parsed.Error)
		}
		return nil, fmt.Errorf("diagnosis returned status: %d", resp.StatusCode)
	}

	return catalog.FromRawList(parsed.Policies), nil
}
