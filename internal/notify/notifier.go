package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/bokjikok/bokjikok/internal/models"
)

const (
	// lookaheadDays is the deadline window that produces alerts.
	lookaheadDays = 7
	// urgentDays marks the remaining-day threshold for urgent severity.
	urgentDays = 3
	// maxUnbookmarked caps alerts for users with no bookmarked matches.
	maxUnbookmarked = 2
)

// RemainingDays computes the whole days left until deadline, rounding up so
// a deadline later today counts as 1.
func RemainingDays(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// ComputeNotifications derives deadline alerts from a catalog snapshot, the
// bookmark set and a fixed clock. It is a pure function of its inputs.
//
// An item qualifies when it has a concrete deadline 1..7 whole days away;
// always-open items never qualify. When any qualifying item is bookmarked,
// the result is restricted to the bookmarked subset. Otherwise at most the
// first two matches in catalog order are returned.
func ComputeNotifications(catalog []models.BenefitItem, bookmarked map[string]bool, now time.Time) []models.Notification {
	var all []models.Notification
	var fromBookmarks []models.Notification

	for _, item := range catalog {
		if !item.HasDeadline() {
			continue
		}
		days := RemainingDays(*item.Deadline, now)
		if days <= 0 || days > lookaheadDays {
			continue
		}

		n := models.Notification{
			ID:       "deadline-" + item.ID,
			Severity: models.SeverityInfo,
			Title:    "마감 안내",
			Message:  fmt.Sprintf("%s 신청 마감이 %d일 남았습니다!", item.Title, days),
			ItemID:   item.ID,
			Date:     item.Deadline.Format("2006-01-02"),
		}
		if days <= urgentDays {
			n.Severity = models.SeverityUrgent
			n.Title = "마감 임박"
		}

		all = append(all, n)
		if bookmarked[item.ID] {
			fromBookmarks = append(fromBookmarks, n)
		}
	}

	if len(fromBookmarks) > 0 {
		return fromBookmarks
	}
	if len(all) > maxUnbookmarked {
		return all[:maxUnbookmarked]
	}
	return all
}

// WelcomeNotification is appended once after a successful login.
func WelcomeNotification() models.Notification {
	return models.Notification{
		ID:       "welcome",
		Severity: models.SeveritySuccess,
		Title:    "환영합니다",
		Message:  "복지콕에 로그인해주셔서 감사합니다. 이제 마감일 알림을 받을 수 있어요!",
		Date:     "방금 전",
	}
}
