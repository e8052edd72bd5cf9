package models

import "time"

// ApplicationStatus is one stage of the application funnel. The active
// stages are ordered (applied → screening → interview → offer → hired);
// rejected and withdrawn are terminal.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusScreening ApplicationStatus = "screening"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusHired     ApplicationStatus = "hired"
	StatusRejected  ApplicationStatus = "rejected"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

// statusOrder positions active stages in funnel order. Terminal failure
// states are not part of the progression.
var statusOrder = map[ApplicationStatus]int{
	StatusApplied:   0,
	StatusScreening: 1,
	StatusInterview: 2,
	StatusOffer:     3,
	StatusHired:     4,
}

// Valid reports whether s is a recognized status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer,
		StatusHired, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether s ends the application's lifecycle.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

// Reached reports whether s is at or past stage in the funnel order.
// Terminal failure states never reach any stage beyond their last
// recorded active one, so they report false here.
func (s ApplicationStatus) Reached(stage ApplicationStatus) bool {
	si, ok := statusOrder[s]
	if !ok {
		return false
	}
	ti, ok := statusOrder[stage]
	if !ok {
		return false
	}
	return si >= ti
}

// Application is a tracked job application.
type Application struct {
	ID              string            `json:"id" db:"id"`
	UserID          string            `json:"user_id" db:"user_id"`
	Company         string            `json:"company" db:"company"`
	Title           string            `json:"title" db:"title"`
	ApplicationDate time.Time         `json:"application_date" db:"application_date"`
	Status          ApplicationStatus `json:"status" db:"status"`
	MatchScore      *float64          `json:"match_score,omitempty" db:"match_score"`
	ResumeID        string            `json:"resume_id,omitempty" db:"resume_id"`
	JobID           string            `json:"job_id,omitempty" db:"job_id"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
}

// ApplicationEvent is one append-only status transition. Replaying an
// application's events in order reconstructs its current status.
type ApplicationEvent struct {
	ID            string            `json:"id" db:"id"`
	ApplicationID string            `json:"application_id" db:"application_id"`
	FromStatus    ApplicationStatus `json:"from_status" db:"from_status"`
	ToStatus      ApplicationStatus `json:"to_status" db:"to_status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// ReplayStatus folds events (assumed chronological) into the resulting
// status, starting from initial.
func ReplayStatus(initial ApplicationStatus, events []*ApplicationEvent) ApplicationStatus {
	status := initial
	for _, ev := range events {
		status = ev.ToStatus
	}
	return status
}
