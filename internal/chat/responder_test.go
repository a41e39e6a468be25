package chat

import (
	"strings"
	"testing"
)

func TestAnswer_YouthSupportRule(t *testing.T) {
	got := Answer("청년 지원")
	if !strings.Contains(got, "청년") {
		t.Fatalf("expected youth answer, got %q", got)
	}
	if !strings.Contains(got, "청년 월세 한시 특별지원") {
		t.Fatal("expected the youth benefit bullet list")
	}
}

func TestAnswer_Deterministic(t *testing.T) {
	first := Answer("청년 지원")
	second := Answer("청년 지원")
	if first != second {
		t.Fatal("same input must yield identical answer")
	}
}

func TestAnswer_FirstMatchingRuleWins(t *testing.T) {
	// Mentions both youth+support and housing; the youth rule is first.
	got := Answer("청년 월세 지원 알려줘")
	if got != responderRules[0].Answer {
		t.Fatal("expected the first matching rule to win")
	}
}

func TestAnswer_NoMatchSuggestsKeywords(t *testing.T) {
	got := Answer("날씨 어때")
	if got != noMatchAnswer {
		t.Fatalf("expected the generic no-match answer, got %q", got)
	}
	if !strings.Contains(got, "청년 지원") {
		t.Fatal("no-match answer should suggest keywords")
	}
}

func TestAnswer_AnyKeywordGroups(t *testing.T) {
	cases := []struct {
		message string
		rule    int
	}{
		{"전세 대출 받을 수 있나요", 1},
		{"장학금 알려줘", 2},
		{"일자리 찾는 중이에요", 3},
		{"병원비 부담돼요", 4},
		{"출산 혜택 있나요", 5},
		{"어디서 하나요", 6},
		{"안녕하세요", 7},
	}
	for _, tc := range cases {
		if got := Answer(tc.message); got != responderRules[tc.rule].Answer {
			t.Fatalf("message %q matched the wrong rule", tc.message)
		}
	}
}
