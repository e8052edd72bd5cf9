package models

import "time"

// JobDescription is a stored job posting. Immutable after creation except
// for metadata corrections.
type JobDescription struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Company        string    `json:"company" db:"company"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	Seniority      string    `json:"seniority,omitempty" db:"seniority"`
	EmploymentType string    `json:"employment_type,omitempty" db:"employment_type"`
	Location       string    `json:"location,omitempty" db:"location"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// JobDescriptionInput is the input for creating a job description.
type JobDescriptionInput struct {
	UserID         string `json:"user_id"`
	Company        string `json:"company"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Seniority      string `json:"seniority,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	Location       string `json:"location,omitempty"`
}
