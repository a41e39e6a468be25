package catalog

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFromRaw_TitleNameDrift(t *testing.T) {
	withTitle := FromRaw(RawBenefit{ID: json.RawMessage(`"a"`), Title: "청년 월세 한시 특별지원"})
	if withTitle.Title != "청년 월세 한시 특별지원" {
		t.Fatalf("unexpected title: %q", withTitle.Title)
	}

	withName := FromRaw(RawBenefit{ID: json.RawMessage(`"b"`), Name: "부산 청년 월세 지원"})
	if withName.Title != "부산 청년 월세 지원" {
		t.Fatalf("name field must map to title, got %q", withName.Title)
	}
}

func TestFromRaw_NumericAndStringIDs(t *testing.T) {
	if got := FromRaw(RawBenefit{ID: json.RawMessage(`1`)}); got.ID != "1" {
		t.Fatalf("numeric id not normalized: %q", got.ID)
	}
	if got := FromRaw(RawBenefit{ID: json.RawMessage(`"policy-7"`)}); got.ID != "policy-7" {
		t.Fatalf("string id mangled: %q", got.ID)
	}
}

func TestFromRaw_MissingIDFallsBackToTitleSlug(t *testing.T) {
	got := FromRaw(RawBenefit{Title: "청년 구직활동 지원금"})
	if got.ID == "" {
		t.Fatal("expected a derived id")
	}
	again := FromRaw(RawBenefit{Title: "청년 구직활동 지원금"})
	if got.ID != again.ID {
		t.Fatal("derived ids must be stable")
	}
}

func TestFromRaw_AlwaysOpenSentinel(t *testing.T) {
	got := FromRaw(RawBenefit{ID: json.RawMessage(`"3"`), Deadline: "상시"})
	if !got.AlwaysOpen {
		t.Fatal("상시 must map to always-open")
	}
	if got.Deadline != nil {
		t.Fatal("always-open items carry no concrete deadline")
	}
	if got.HasDeadline() {
		t.Fatal("always-open items never participate in deadline arithmetic")
	}
}

func TestFromRaw_DeadlineAndEndDateDrift(t *testing.T) {
	fromDeadline := FromRaw(RawBenefit{ID: json.RawMessage(`"a"`), Deadline: "2025-12-31"})
	if fromDeadline.Deadline == nil || fromDeadline.Deadline.Day() != 31 {
		t.Fatalf("deadline field not parsed: %+v", fromDeadline.Deadline)
	}

	fromEndDate := FromRaw(RawBenefit{ID: json.RawMessage(`"b"`), EndDate: "2025-12-31"})
	if fromEndDate.Deadline == nil || !fromEndDate.Deadline.Equal(*fromDeadline.Deadline) {
		t.Fatal("endDate field must parse like deadline")
	}
}

func TestFromRaw_StripsHTMLFromDescription(t *testing.T) {
	got := FromRaw(RawBenefit{
		ID:          json.RawMessage(`"a"`),
		Description: "<p>월 <b>20만원</b> 지원</p><script>alert(1)</script>",
	})
	if got.Summary != "월 20만원 지원" {
		t.Fatalf("expected sanitized plain text, got %q", got.Summary)
	}
}

func TestFromRawList_DropsUnusableRecords(t *testing.T) {
	items := FromRawList([]RawBenefit{
		{ID: json.RawMessage(`"a"`), Title: "유효한 혜택"},
		{},
	})
	if len(items) != 1 {
		t.Fatalf("expected unusable record dropped, got %d items", len(items))
	}
}

func TestParseDeadline_Formats(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2025-12-31", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"2025.05.30", time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)},
		{"2025년 9월 30일", time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)},
		{"2025년 9월", time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDeadline(tc.raw)
		if err != nil {
			t.Fatalf("ParseDeadline(%q) failed: %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDeadline(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseDeadline_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "미정", "nope"} {
		if _, err := ParseDeadline(raw); err == nil {
			t.Fatalf("ParseDeadline(%q) should fail", raw)
		}
	}
}

func TestTruncateText_RuneSafe(t *testing.T) {
	if got := TruncateText("가나다라마바사", 6); got != "가나다..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateText("short", 10); got != "short" {
		t.Fatalf("short strings must pass through, got %q", got)
	}
}
