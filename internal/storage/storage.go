// Package storage defines the persistence interface for resumes, jobs,
// analyses, tailoring output and application history.
package storage

import (
	"context"
	"time"

	"github.com/jobtailor/jobtailor/internal/models"
)

// Storage defines the persistence operations the pipeline depends on. The
// shape of the persisted state is owned here; the match-analysis write is
// an upsert keyed by (resume_id, job_id), resume versions and application
// events are append-only, and PersistTailoring commits its three rows as
// one atomic unit.
type Storage interface {
	// Resume operations
	CreateResume(ctx context.Context, r *models.Resume) error
	GetResume(ctx context.Context, id string) (*models.Resume, error)
	UpdateResumeTitle(ctx context.Context, id, title string) error
	// SetMasterResume flags the resume as the user's master and clears the
	// flag on every other resume of the same user, atomically.
	SetMasterResume(ctx context.Context, userID, resumeID string) error
	ArchiveResume(ctx context.Context, id string) error
	ListResumesByUser(ctx context.Context, userID string) ([]*models.Resume, error)
	// ListResumeChildren returns resumes whose tailored_from is parentID.
	ListResumeChildren(ctx context.Context, parentID string) ([]*models.Resume, error)

	// Job description operations
	CreateJobDescription(ctx context.Context, j *models.JobDescription) error
	GetJobDescription(ctx context.Context, id string) (*models.JobDescription, error)
	UpdateJobMetadata(ctx context.Context, id, seniority, employmentType, location string) error

	// Match analyses: one current row per (resume_id, job_id).
	UpsertMatchAnalysis(ctx context.Context, a *models.MatchAnalysis) error
	GetMatchAnalysis(ctx context.Context, resumeID, jobID string) (*models.MatchAnalysis, error)

	// Tailoring output. PersistTailoring writes the tailored resume copy,
	// the tailoring result and the new version in one transaction; on any
	// failure none of the three rows is visible.
	PersistTailoring(ctx context.Context, resume *models.Resume, result *models.TailoringResult, version *models.ResumeVersion) error
	GetTailoringResult(ctx context.Context, id string) (*models.TailoringResult, error)

	// Version ledger rows, append-only.
	ListVersions(ctx context.Context, resumeIDs []string) ([]*models.ResumeVersion, error)

	// Application history.
	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	ListApplications(ctx context.Context, userID string, start, end time.Time) ([]*models.Application, error)
	// AppendApplicationEvent records a status transition and moves the
	// application to the event's target status, atomically.
	AppendApplicationEvent(ctx context.Context, ev *models.ApplicationEvent) error
	ListApplicationEvents(ctx context.Context, applicationID string) ([]*models.ApplicationEvent, error)

	Close() error
}
