package models

import "time"

// BenefitItem is the canonical welfare program record. Upstream sources use
// inconsistent field names and shapes; everything funnels through
// catalog.FromRaw before it reaches this struct.
type BenefitItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Summary    string     `json:"summary"`
	Amount     string     `json:"amount"`
	Agency     string     `json:"agency"`
	Deadline   *time.Time `json:"deadline"`
	AlwaysOpen bool       `json:"always_open"`
	Conditions string     `json:"conditions"`
	Benefits   []string   `json:"benefits,omitempty"`
}

// HasDeadline reports whether the item carries a concrete deadline that may
// participate in deadline-window arithmetic. Always-open items never do.
func (b BenefitItem) HasDeadline() bool {
	return !b.AlwaysOpen && b.Deadline != nil
}

// JobStatus enumerates the profile job field.
type JobStatus string

const (
	JobStudent    JobStatus = "student"
	JobEmployee   JobStatus = "employee"
	JobSeeker     JobStatus = "unemployed"
	JobFreelancer JobStatus = "freelancer"
	JobBusiness   JobStatus = "business"
	JobOther      JobStatus = "etc"
)

// ValidJobStatus reports whether s is one of the enumerated job values.
func ValidJobStatus(s string) bool {
	switch JobStatus(s) {
	case JobStudent, JobEmployee, JobSeeker, JobFreelancer, JobBusiness, JobOther:
		return true
	}
	return false
}

// FamilyStatus enumerates the profile family-situation field.
type FamilyStatus string

const (
	FamilySingle      FamilyStatus = "single"
	FamilyCouple      FamilyStatus = "couple"
	FamilyHasChildren FamilyStatus = "child"
	FamilySenior      FamilyStatus = "senior"
)

// Profile holds the user-entered attributes driving matching requests.
// Fields are individually optional; match.Validate enforces what a matching
// request needs.
type Profile struct {
	Age    string       `json:"age"`
	Income string       `json:"income"`
	Job    JobStatus    `json:"job"`
	Family FamilyStatus `json:"family"`
	Region string       `json:"region"`
}

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityUrgent  Severity = "urgent"
	SeveritySuccess Severity = "success"
)

// Notification is a derived, session-scoped alert. IDs are deterministic for
// a given source item and kind so recomputation is idempotent.
type Notification struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	ItemID   string   `json:"item_id,omitempty"`
	Date     string   `json:"date"`
}
