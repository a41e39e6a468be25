package catalog

import (
	"time"

	"github.com/bokjikok/bokjikok/internal/models"
)

// Categories is the fixed filter list shown on the home view.
var Categories = []string{"전체", "주거", "교육", "고용", "의료", "육아", "노후"}

// datePtr builds a date-only deadline, midnight UTC like ParseDeadline.
func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// SampleItems returns the built-in benefit list used until a remote catalog
// fetch completes, and by the dev mock API as its dataset.
func SampleItems() []models.BenefitItem {
	return []models.BenefitItem{
		{
			ID:         "1",
			Title:      "청년 월세 한시 특별지원",
			Category:   "주거",
			Amount:     "월 20만원",
			Deadline:   datePtr(2025, time.December, 31),
			Agency:     "국토교통부",
			Conditions: "만 19~34세, 월소득 250만원 이하",
		},
		{
			ID:         "2",
			Title:      "국가장학금 Ⅰ유형",
			Category:   "교육",
			Amount:     "등록금 지원",
			Deadline:   datePtr(2025, time.May, 30),
			Agency:     "한국장학재단",
			Conditions: "대학(원)생, 소득분위별 차등 지원",
		},
		{
			ID:         "3",
			Title:      "신혼부부 전세자금 대출",
			Category:   "주거",
			Amount:     "최대 2억원",
			AlwaysOpen: true,
			Agency:     "주택도시기금",
			Conditions: "혼인 7년 이내, 부부합산 연소득 7천만원 이하",
		},
		{
			ID:         "4",
			Title:      "청년 구직활동 지원금",
			Category:   "고용",
			Amount:     "월 50만원 (최대 6개월)",
			Deadline:   datePtr(2025, time.September, 30),
			Agency:     "고용노동부",
			Conditions: "만 18~34세 미취업 청년, 졸업 후 2년 이내",
		},
		{
			ID:         "5",
			Title:      "부산 청년 월세 지원",
			Category:   "주거",
			Amount:     "월 10만원",
			Deadline:   datePtr(2025, time.September, 30),
			Agency:     "부산광역시",
			Conditions: "부산 거주 만 18~34세, 중위소득 150% 이하",
		},
	}
}
