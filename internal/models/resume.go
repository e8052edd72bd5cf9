// Package models defines core data structures for resumes, jobs, analyses,
// tailoring output and application tracking.
package models

import "time"

// Resume is a stored resume. Tailored copies reference their source through
// TailoredFrom; the chain never forms a cycle. At most one resume per user
// carries IsMaster. Resumes referenced by versions or applications are
// archived, not deleted.
type Resume struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	IsMaster     bool      `json:"is_master" db:"is_master"`
	TailoredFrom string    `json:"tailored_from,omitempty" db:"tailored_from"`
	Archived     bool      `json:"archived,omitempty" db:"archived"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ResumeInput is the input for creating a resume.
type ResumeInput struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsMaster bool   `json:"is_master,omitempty"`
}

// ResumeVersion is one entry in a resume lineage's append-only version
// history. VersionNumber starts at 1 and increments by exactly 1 per
// tailoring event; entries are never mutated or reordered.
type ResumeVersion struct {
	ID               string    `json:"id" db:"id"`
	ResumeID         string    `json:"resume_id" db:"resume_id"`
	VersionNumber    int       `json:"version_number" db:"version_number"`
	ChangesSummary   string    `json:"changes_summary" db:"changes_summary"`
	MatchScoreBefore *float64  `json:"match_score_before,omitempty" db:"match_score_before"`
	MatchScoreAfter  *float64  `json:"match_score_after,omitempty" db:"match_score_after"`
	JobID            string    `json:"job_id,omitempty" db:"job_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
