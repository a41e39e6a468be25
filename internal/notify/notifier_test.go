package notify

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bokjikok/bokjikok/internal/catalog"
	"github.com/bokjikok/bokjikok/internal/models"
)

var fixedNow = time.Date(2026, 2, 12, 12, 0, 0, 0, time.UTC)

func itemDue(id string, d time.Duration) models.BenefitItem {
	deadline := fixedNow.Add(d)
	return models.BenefitItem{ID: id, Title: "혜택 " + id, Deadline: &deadline}
}

func TestRemainingDays_CeilsPartialDays(t *testing.T) {
	deadline := fixedNow.Add(6 * time.Hour)
	if got := RemainingDays(deadline, fixedNow); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
}

func TestComputeNotifications_WindowBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		until    time.Duration
		included bool
	}{
		{"due now excluded", 0, false},
		{"past excluded", -24 * time.Hour, false},
		{"one day included", 24 * time.Hour, true},
		{"seven days included", 7 * 24 * time.Hour, true},
		{"eight days excluded", 8 * 24 * time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeNotifications([]models.BenefitItem{itemDue("a", tc.until)}, nil, fixedNow)
			if tc.included && len(got) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(got))
			}
			if !tc.included && len(got) != 0 {
				t.Fatalf("expected no notifications, got %d", len(got))
			}
		})
	}
}

// Date-only deadlines resolve to midnight, so the window counts calendar
// days: a deadline dated seven days from now is the last one alerted on, and
// a deadline dated today is already due.
func TestComputeNotifications_CalendarDateBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		date     string
		included bool
		days     int
	}{
		{"2026-08-30", false, 0},
		{"2026-08-31", true, 1},
		{"2026-09-06", true, 7},
		{"2026-09-07", false, 8},
	}

	for _, tc := range cases {
		deadline, err := catalog.ParseDeadline(tc.date)
		if err != nil {
			t.Fatalf("ParseDeadline(%q) failed: %v", tc.date, err)
		}
		item := models.BenefitItem{ID: "a", Title: "혜택", Deadline: &deadline}

		got := ComputeNotifications([]models.BenefitItem{item}, nil, now)
		if tc.included && len(got) != 1 {
			t.Fatalf("deadline %s should alert, got %d notifications", tc.date, len(got))
		}
		if !tc.included && len(got) != 0 {
			t.Fatalf("deadline %s should not alert, got %d notifications", tc.date, len(got))
		}
		if tc.included {
			want := fmt.Sprintf("%d일", tc.days)
			if !strings.Contains(got[0].Message, want) {
				t.Fatalf("deadline %s message %q should carry %s remaining", tc.date, got[0].Message, want)
			}
		}
	}
}

func TestComputeNotifications_AlwaysOpenNeverIncluded(t *testing.T) {
	soon := fixedNow.Add(48 * time.Hour)
	items := []models.BenefitItem{
		{ID: "rolling", Title: "상시 혜택", AlwaysOpen: true, Deadline: &soon},
	}
	if got := ComputeNotifications(items, nil, fixedNow); len(got) != 0 {
		t.Fatalf("always-open item produced %d notifications", len(got))
	}
}

func TestComputeNotifications_Severity(t *testing.T) {
	got := ComputeNotifications([]models.BenefitItem{
		itemDue("urgent", 2*24*time.Hour),
		itemDue("info", 5*24*time.Hour),
	}, nil, fixedNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Severity != models.SeverityUrgent || got[0].Title != "마감 임박" {
		t.Fatalf("expected urgent first, got %+v", got[0])
	}
	if got[1].Severity != models.SeverityInfo || got[1].Title != "마감 안내" {
		t.Fatalf("expected info second, got %+v", got[1])
	}
}

func TestComputeNotifications_BookmarkedSubsetWins(t *testing.T) {
	items := []models.BenefitItem{
		itemDue("a", 2*24*time.Hour),
		itemDue("b", 3*24*time.Hour),
		itemDue("c", 4*24*time.Hour),
	}
	got := ComputeNotifications(items, map[string]bool{"b": true}, fixedNow)
	if len(got) != 1 {
		t.Fatalf("expected only the bookmarked alert, got %d", len(got))
	}
	if got[0].ItemID != "b" {
		t.Fatalf("expected item b, got %s", got[0].ItemID)
	}
}

func TestComputeNotifications_UnbookmarkedCappedAtTwo(t *testing.T) {
	items := []models.BenefitItem{
		itemDue("a", 2*24*time.Hour),
		itemDue("b", 3*24*time.Hour),
		itemDue("c", 4*24*time.Hour),
	}
	got := ComputeNotifications(items, nil, fixedNow)
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
	if got[0].ItemID != "a" || got[1].ItemID != "b" {
		t.Fatalf("expected catalog order a,b got %s,%s", got[0].ItemID, got[1].ItemID)
	}
}

func TestComputeNotifications_DeterministicIDs(t *testing.T) {
	items := []models.BenefitItem{itemDue("42", 24 * time.Hour)}
	first := ComputeNotifications(items, nil, fixedNow)
	second := ComputeNotifications(items, nil, fixedNow)
	if first[0].ID != "deadline-42" || first[0].ID != second[0].ID {
		t.Fatalf("expected stable id deadline-42, got %s / %s", first[0].ID, second[0].ID)
	}
}
