// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS resumes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT,
		content TEXT NOT NULL,
		is_master INTEGER NOT NULL DEFAULT 0,
		tailored_from TEXT,
		archived INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id);
	CREATE INDEX IF NOT EXISTS idx_resumes_tailored_from ON resumes(tailored_from);

	CREATE TABLE IF NOT EXISTS job_descriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		company TEXT,
		title TEXT,
		content TEXT NOT NULL,
		seniority TEXT,
		employment_type TEXT,
		location TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_user ON job_descriptions(user_id);

	CREATE TABLE IF NOT EXISTS match_analyses (
		id TEXT PRIMARY KEY,
		resume_id TEXT NOT NULL,
		job_id TEXT NOT NULL,
		overall_score REAL NOT NULL,
		skills_match REAL NOT NULL,
		experience_match REAL NOT NULL,
		education_match REAL NOT NULL,
		keyword_density REAL NOT NULL,
		matching_skills TEXT,
		missing_skills TEXT,
		strengths TEXT,
		improvements TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(resume_id, job_id)
	);

	CREATE TABLE IF NOT EXISTS tailoring_results (
		id TEXT PRIMARY KEY,
		source_resume_id TEXT NOT NULL,
		job_id TEXT NOT NULL,
		tailored_content TEXT NOT NULL,
		changes TEXT,
		match_score REAL NOT NULL,
		keywords_added TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS resume_versions (
		id TEXT PRIMARY KEY,
		resume_id TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		changes_summary TEXT,
		match_score_before REAL,
		match_score_after REAL,
		job_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(resume_id, version_number)
	);

	CREATE INDEX IF NOT EXISTS idx_versions_resume ON resume_versions(resume_id);

	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		company TEXT,
		title TEXT,
		application_date TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		match_score REAL,
		resume_id TEXT,
		job_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_applications_user_date ON applications(user_id, application_date);

	CREATE TABLE IF NOT EXISTS application_events (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (application_id) REFERENCES applications(id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_application ON application_events(application_id, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateResume inserts a resume.
func (s *SQLiteStorage) CreateResume(ctx context.Context, r *models.Resume) error {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, title, content, is_master, tailored_from, archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Title, r.Content, r.IsMaster, nullable(r.TailoredFrom), r.Archived, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

// GetResume returns a resume by ID.
func (s *SQLiteStorage) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, is_master, tailored_from, archived, created_at, updated_at
		 FROM resumes WHERE id = ?`, id)
	return scanResume(row)
}

func scanResume(row *sql.Row) (*models.Resume, error) {
	var r models.Resume
	var tailoredFrom sql.NullString
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.IsMaster, &tailoredFrom, &r.Archived, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("resume not found")
	}
	if err != nil {
		return nil, err
	}
	r.TailoredFrom = tailoredFrom.String
	return &r, nil
}

// UpdateResumeTitle updates a resume's title.
func (s *SQLiteStorage) UpdateResumeTitle(ctx context.Context, id, title string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET title = ?, updated_at = ? WHERE id = ?`, title, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "resume not found")
}

// SetMasterResume flags resumeID as the user's master resume and clears the
// flag everywhere else for that user in one transaction, preserving the
// one-master-per-user invariant.
func (s *SQLiteStorage) SetMasterResume(ctx context.Context, userID, resumeID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE resumes SET is_master = 0, updated_at = ? WHERE user_id = ? AND is_master = 1`,
		time.Now(), userID); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE resumes SET is_master = 1, updated_at = ? WHERE id = ? AND user_id = ?`,
		time.Now(), resumeID, userID)
	if err != nil {
		return err
	}
	if err := requireRow(result, "resume not found"); err != nil {
		return err
	}
	return tx.Commit()
}

// ArchiveResume soft-deletes a resume. Resumes referenced by versions or
// applications are never hard-deleted.
func (s *SQLiteStorage) ArchiveResume(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET archived = 1, is_master = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "resume not found")
}

// ListResumesByUser returns a user's non-archived resumes, newest first.
func (s *SQLiteStorage) ListResumesByUser(ctx context.Context, userID string) ([]*models.Resume, error) {
	return s.queryResumes(ctx,
		`SELECT id, user_id, title, content, is_master, tailored_from, archived, created_at, updated_at
		 FROM resumes WHERE user_id = ? AND archived = 0 ORDER BY created_at DESC`, userID)
}

// ListResumeChildren returns resumes tailored from parentID.
func (s *SQLiteStorage) ListResumeChildren(ctx context.Context, parentID string) ([]*models.Resume, error) {
	return s.queryResumes(ctx,
		`SELECT id, user_id, title, content, is_master, tailored_from, archived, created_at, updated_at
		 FROM resumes WHERE tailored_from = ? ORDER BY created_at`, parentID)
}

func (s *SQLiteStorage) queryResumes(ctx context.Context, query string, args ...any) ([]*models.Resume, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resumes []*models.Resume
	for rows.Next() {
		var r models.Resume
		var tailoredFrom sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.IsMaster, &tailoredFrom, &r.Archived, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.TailoredFrom = tailoredFrom.String
		resumes = append(resumes, &r)
	}
	return resumes, rows.Err()
}

// CreateJobDescription inserts a job description.
func (s *SQLiteStorage) CreateJobDescription(ctx context.Context, j *models.JobDescription) error {
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_descriptions (id, user_id, company, title, content, seniority, employment_type, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.UserID, j.Company, j.Title, j.Content, j.Seniority, j.EmploymentType, j.Location, j.CreatedAt, j.UpdatedAt,
	)
	return err
}

// GetJobDescription returns a job description by ID.
func (s *SQLiteStorage) GetJobDescription(ctx context.Context, id string) (*models.JobDescription, error) {
	var j models.JobDescription
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, company, title, content, seniority, employment_type, location, created_at, updated_at
		 FROM job_descriptions WHERE id = ?`, id,
	).Scan(&j.ID, &j.UserID, &j.Company, &j.Title, &j.Content, &j.Seniority, &j.EmploymentType, &j.Location, &j.CreatedAt, &j.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errs.NotFound("job description not found")
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// UpdateJobMetadata corrects a job's structured metadata. Raw content is
// immutable after creation.
func (s *SQLiteStorage) UpdateJobMetadata(ctx context.Context, id, seniority, employmentType, location string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE job_descriptions SET seniority = ?, employment_type = ?, location = ?, updated_at = ? WHERE id = ?`,
		seniority, employmentType, location, time.Now(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "job description not found")
}

// UpsertMatchAnalysis replaces the current analysis for the
// (resume_id, job_id) pair, or inserts it. A keyed upsert rather than
// delete-then-insert, so readers never observe a gap.
func (s *SQLiteStorage) UpsertMatchAnalysis(ctx context.Context, a *models.MatchAnalysis) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	matching, err := marshalStrings(a.MatchingSkills)
	if err != nil {
		return err
	}
	missing, err := marshalStrings(a.MissingSkills)
	if err != nil {
		return err
	}
	strengths, err := marshalStrings(a.Strengths)
	if err != nil {
		return err
	}
	improvements, err := marshalStrings(a.Improvements)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_analyses (id, resume_id, job_id, overall_score, skills_match, experience_match,
			education_match, keyword_density, matching_skills, missing_skills, strengths, improvements, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(resume_id, job_id) DO UPDATE SET
			overall_score = excluded.overall_score,
			skills_match = excluded.skills_match,
			experience_match = excluded.experience_match,
			education_match = excluded.education_match,
			keyword_density = excluded.keyword_density,
			matching_skills = excluded.matching_skills,
			missing_skills = excluded.missing_skills,
			strengths = excluded.strengths,
			improvements = excluded.improvements,
			updated_at = excluded.updated_at`,
		a.ID, a.ResumeID, a.JobID, a.OverallScore, a.SkillsMatch, a.ExperienceMatch,
		a.EducationMatch, a.KeywordDensity, matching, missing, strengths, improvements, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetMatchAnalysis returns the current analysis for the pair.
func (s *SQLiteStorage) GetMatchAnalysis(ctx context.Context, resumeID, jobID string) (*models.MatchAnalysis, error) {
	var a models.MatchAnalysis
	var matching, missing, strengths, improvements sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, resume_id, job_id, overall_score, skills_match, experience_match, education_match,
			keyword_density, matching_skills, missing_skills, strengths, improvements, created_at, updated_at
		 FROM match_analyses WHERE resume_id = ? AND job_id = ?`, resumeID, jobID,
	).Scan(&a.ID, &a.ResumeID, &a.JobID, &a.OverallScore, &a.SkillsMatch, &a.ExperienceMatch, &a.EducationMatch,
		&a.KeywordDensity, &matching, &missing, &strengths, &improvements, &a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errs.NotFound("Analysis not found")
	}
	if err != nil {
		return nil, err
	}

	if a.MatchingSkills, err = unmarshalStrings(matching); err != nil {
		return nil, err
	}
	if a.MissingSkills, err = unmarshalStrings(missing); err != nil {
		return nil, err
	}
	if a.Strengths, err = unmarshalStrings(strengths); err != nil {
		return nil, err
	}
	if a.Improvements, err = unmarshalStrings(improvements); err != nil {
		return nil, err
	}
	return &a, nil
}

// PersistTailoring writes the tailored resume, the tailoring result and the
// new version in one transaction. On any failure the transaction rolls back
// and no partial state is visible to readers.
func (s *SQLiteStorage) PersistTailoring(ctx context.Context, resume *models.Resume, result *models.TailoringResult, version *models.ResumeVersion) error {
	changes, err := json.Marshal(result.Changes)
	if err != nil {
		return err
	}
	keywords, err := marshalStrings(result.KeywordsAdded)
	if err != nil {
		return err
	}

	now := time.Now()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	result.CreatedAt = now
	version.CreatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, title, content, is_master, tailored_from, archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, 0, ?, ?)`,
		resume.ID, resume.UserID, resume.Title, resume.Content, nullable(resume.TailoredFrom), resume.CreatedAt, resume.UpdatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tailoring_results (id, source_resume_id, job_id, tailored_content, changes, match_score, keywords_added, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.SourceResumeID, result.JobID, result.TailoredContent, string(changes), result.MatchScore, keywords, result.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO resume_versions (id, resume_id, version_number, changes_summary, match_score_before, match_score_after, job_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		version.ID, version.ResumeID, version.VersionNumber, version.ChangesSummary,
		version.MatchScoreBefore, version.MatchScoreAfter, nullable(version.JobID), version.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTailoringResult returns a tailoring result by ID.
func (s *SQLiteStorage) GetTailoringResult(ctx context.Context, id string) (*models.TailoringResult, error) {
	var r models.TailoringResult
	var changes, keywords sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_resume_id, job_id, tailored_content, changes, match_score, keywords_added, created_at
		 FROM tailoring_results WHERE id = ?`, id,
	).Scan(&r.ID, &r.SourceResumeID, &r.JobID, &r.TailoredContent, &changes, &r.MatchScore, &keywords, &r.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errs.NotFound("tailoring result not found")
	}
	if err != nil {
		return nil, err
	}

	if changes.Valid && changes.String != "" {
		if err := json.Unmarshal([]byte(changes.String), &r.Changes); err != nil {
			return nil, err
		}
	}
	if r.KeywordsAdded, err = unmarshalStrings(keywords); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListVersions returns version entries for the given resumes ordered by
// version number ascending.
func (s *SQLiteStorage) ListVersions(ctx context.Context, resumeIDs []string) ([]*models.ResumeVersion, error) {
	if len(resumeIDs) == 0 {
		return nil, nil
	}

	query := `SELECT id, resume_id, version_number, changes_summary, match_score_before, match_score_after, job_id, created_at
		 FROM resume_versions WHERE resume_id IN (` + placeholders(len(resumeIDs)) + `) ORDER BY version_number`
	args := make([]any, len(resumeIDs))
	for i, id := range resumeIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*models.ResumeVersion
	for rows.Next() {
		var v models.ResumeVersion
		var jobID sql.NullString
		if err := rows.Scan(&v.ID, &v.ResumeID, &v.VersionNumber, &v.ChangesSummary,
			&v.MatchScoreBefore, &v.MatchScoreAfter, &jobID, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.JobID = jobID.String
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// CreateApplication inserts an application.
func (s *SQLiteStorage) CreateApplication(ctx context.Context, a *models.Application) error {
	a.CreatedAt = time.Now()
	if a.Status == "" {
		a.Status = models.StatusApplied
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (id, user_id, company, title, application_date, status, match_score, resume_id, job_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Company, a.Title, a.ApplicationDate, a.Status, a.MatchScore,
		nullable(a.ResumeID), nullable(a.JobID), a.CreatedAt,
	)
	return err
}

// GetApplication returns an application by ID.
func (s *SQLiteStorage) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	var resumeID, jobID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, company, title, application_date, status, match_score, resume_id, job_id, created_at
		 FROM applications WHERE id = ?`, id,
	).Scan(&a.ID, &a.UserID, &a.Company, &a.Title, &a.ApplicationDate, &a.Status, &a.MatchScore, &resumeID, &jobID, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errs.NotFound("application not found")
	}
	if err != nil {
		return nil, err
	}
	a.ResumeID = resumeID.String
	a.JobID = jobID.String
	return &a, nil
}

// ListApplications returns a user's applications with application_date in
// [start, end).
func (s *SQLiteStorage) ListApplications(ctx context.Context, userID string, start, end time.Time) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, company, title, application_date, status, match_score, resume_id, job_id, created_at
		 FROM applications WHERE user_id = ? AND application_date >= ? AND application_date < ?
		 ORDER BY application_date`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		var a models.Application
		var resumeID, jobID sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.Company, &a.Title, &a.ApplicationDate, &a.Status,
			&a.MatchScore, &resumeID, &jobID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.ResumeID = resumeID.String
		a.JobID = jobID.String
		apps = append(apps, &a)
	}
	return apps, rows.Err()
}

// AppendApplicationEvent records a status transition and moves the
// application to the new status in one transaction. Events are never
// updated or deleted.
func (s *SQLiteStorage) AppendApplicationEvent(ctx context.Context, ev *models.ApplicationEvent) error {
	ev.CreatedAt = time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO application_events (id, application_id, from_status, to_status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.ApplicationID, ev.FromStatus, ev.ToStatus, ev.CreatedAt,
	); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = ? WHERE id = ?`, ev.ToStatus, ev.ApplicationID)
	if err != nil {
		return err
	}
	if err := requireRow(result, "application not found"); err != nil {
		return err
	}
	return tx.Commit()
}

// ListApplicationEvents returns an application's events in chronological order.
func (s *SQLiteStorage) ListApplicationEvents(ctx context.Context, applicationID string) ([]*models.ApplicationEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, application_id, from_status, to_status, created_at
		 FROM application_events WHERE application_id = ? ORDER BY created_at, id`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.ApplicationEvent
	for rows.Next() {
		var ev models.ApplicationEvent
		if err := rows.Scan(&ev.ID, &ev.ApplicationID, &ev.FromStatus, &ev.ToStatus, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func requireRow(result sql.Result, msg string) error {
	n, _ := result.RowsAffected()
	if n == 0 {
		return errs.NotFound(msg)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}

func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalStrings(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}
