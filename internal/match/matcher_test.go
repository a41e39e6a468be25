package match

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bokjikok/bokjikok/internal/logger"
	"github.com/bokjikok/bokjikok/internal/models"
)

func TestNormalizeIncome(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"100-200", 1_500_000},
		{"100~200", 1_500_000},
		{"0-100", 500_000},
		{"500+", 5_000_000},
		{"250", 2_500_000},
	}
	for _, tc := range cases {
		got, err := NormalizeIncome(tc.raw)
		if err != nil {
			t.Fatalf("NormalizeIncome(%q) failed: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeIncome(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeIncome_Invalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "a-b", "많이+"} {
		if _, err := NormalizeIncome(raw); err == nil {
			t.Fatalf("NormalizeIncome(%q) should fail", raw)
		}
	}
}

func TestValidate_CollectsAllMessages(t *testing.T) {
	verr := Validate(models.Profile{Age: "많음", Income: "", Job: "astronaut"})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	if len(verr.Messages) != 3 {
		t.Fatalf("expected 3 messages at once, got %d: %v", len(verr.Messages), verr.Messages)
	}
}

func TestValidate_AgeBounds(t *testing.T) {
	if verr := Validate(models.Profile{Age: "121", Income: "100-200", Job: models.JobStudent}); verr == nil {
		t.Fatal("age above 120 should fail")
	}
	if verr := Validate(models.Profile{Age: "0", Income: "100-200", Job: models.JobStudent}); verr != nil {
		t.Fatalf("age 0 should pass, got %v", verr.Messages)
	}
}

func TestHouseholdSize(t *testing.T) {
	cases := map[models.FamilyStatus]int{
		models.FamilyHasChildren: 3,
		models.FamilyCouple:      2,
		models.FamilySenior:      2,
		models.FamilySingle:      1,
		"":                       1,
	}
	for family, want := range cases {
		if got := HouseholdSize(family); got != want {
			t.Fatalf("HouseholdSize(%q) = %d, want %d", family, got, want)
		}
	}
}

func validProfile() models.Profile {
	return models.Profile{
		Age:    "27",
		Income: "100-200",
		Job:    models.JobStudent,
		Family: models.FamilyHasChildren,
		Region: "부산광역시",
	}
}

func TestFindMatchingBenefits_SendsNormalizedQuery(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"age":           r.URL.Query().Get("age"),
			"income":        r.URL.Query().Get("income"),
			"job":           r.URL.Query().Get("job"),
			"householdSize": r.URL.Query().Get("householdSize"),
			"limit":         r.URL.Query().Get("limit"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"policies":[{"id":1,"title":"청년 월세 한시 특별지원"}]}`))
	}))
	defer srv.Close()

	m := NewMatcher(srv.URL, time.Second, 10, logger.Nop())
	items, err := m.FindMatchingBenefits(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Fatalf("unexpected items: %+v", items)
	}

	want := map[string]string{
		"age":           "27",
		"income":        "1500000",
		"job":           "student",
		"householdSize": "3",
		"limit":         "10",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query param %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestFindMatchingBenefits_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"policies":[]}`))
	}))
	defer srv.Close()

	m := NewMatcher(srv.URL, time.Second, 10, logger.Nop())
	items, err := m.FindMatchingBenefits(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("zero matches must not be an error, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestFindMatchingBenefits_ServerErrorIsDistinctFromEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewMatcher(srv.URL, time.Second, 10, logger.Nop())
	if _, err := m.FindMatchingBenefits(context.Background(), validProfile()); err == nil {
		t.Fatal("expected an error for a failed request")
	}
}

func TestFindMatchingBenefits_InvalidProfileSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	m := NewMatcher(srv.URL, time.Second, 10, logger.Nop())
	_, err := m.FindMatchingBenefits(context.Background(), models.Profile{})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if called {
		t.Fatal("no request may be issued for an invalid profile")
	}
}

func TestDiagnose_ErrorBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"유관 기관 점검 중"}`))
	}))
	defer srv.Close()

	m := NewMatcher(srv.URL, time.Second, 10, logger.Nop())
	if _, err := m.Diagnose(context.Background(), validProfile()); err == nil {
		t.Fatal("expected diagnosis failure")
	}
}

func TestDiagnose_ReturnsPolicies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"policies":[{"id":"5","name":"부산 청년 월세 지원"}]}`))
	}))
	defer srv.Close()

	m := NewMatcher(srv.URL, time.Second, 10, logger.Nop())
	items, err := m.Diagnose(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "부산 청년 월세 지원" {
		t.Fatalf("unexpected items: %+v", items)
	}
}
