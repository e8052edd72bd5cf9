// Package tailor drives the analyze and tailor pipelines: extraction,
// scoring, generative rewriting and atomic persistence, with single-flight
// guarding per (resume, job) pair.
package tailor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/adapter"
	"github.com/jobtailor/jobtailor/internal/config"
	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/ledger"
	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/internal/scoring"
	"github.com/jobtailor/jobtailor/internal/storage"
)

// Orchestrator runs the pipeline end to end. All methods are safe for
// concurrent use; concurrent runs for the same (resume, job) pair conflict
// rather than interleave.
type Orchestrator struct {
	store     storage.Storage
	extractor adapter.Extractor
	ledger    *ledger.Ledger
	cfg       config.AdapterConfig
	logger    *zap.Logger
	flights   *flightTable
	versions  *lockTable
}

func New(store storage.Storage, extractor adapter.Extractor, ldg *ledger.Ledger, cfg config.AdapterConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		extractor: extractor,
		ledger:    ldg,
		cfg:       cfg,
		logger:    logger,
		flights:   newFlightTable(),
		versions:  newLockTable(),
	}
}

// State reports the pipeline stage currently in flight for the pair, or
// Idle.
func (o *Orchestrator) State(resumeID, jobID string) State {
	return o.flights.state(flightKey(resumeID, jobID))
}

// AnalyzeOutput bundles the stored analysis with the structured records it
// was scored from, including the extraction mode each was produced under.
type AnalyzeOutput struct {
	Analysis *models.MatchAnalysis
	Resume   *adapter.StructuredRecord
	Job      *adapter.StructuredRecord
}

// Analyze extracts structured records from the resume and job, scores the
// match and replaces any existing analysis for the pair. Re-analysis keeps
// exactly one current row per (resume, job).
func (o *Orchestrator) Analyze(ctx context.Context, resumeID, jobID string) (*AnalyzeOutput, error) {
	key := flightKey(resumeID, jobID)
	if err := o.flights.begin(key); err != nil {
		return nil, err
	}
	defer o.flights.end(key)

	resume, job, err := o.load(ctx, resumeID, jobID)
	if err != nil {
		return nil, err
	}

	resumeRec, jobRec, err := o.extractPair(ctx, resume.Content, job.Content)
	if err != nil {
		return nil, err
	}

	o.flights.transition(key, StateScoring)
	result, err := scoring.Score(resumeRec.Resume, resume.Content, jobRec.Job)
	if err != nil {
		return nil, err
	}

	o.flights.transition(key, StatePersisting)
	now := time.Now().UTC()
	analysis := &models.MatchAnalysis{
		ID:              uuid.NewString(),
		ResumeID:        resumeID,
		JobID:           jobID,
		OverallScore:    result.OverallScore,
		SkillsMatch:     result.SkillsMatch,
		ExperienceMatch: result.ExperienceMatch,
		EducationMatch:  result.EducationMatch,
		KeywordDensity:  result.KeywordDensity,
		MatchingSkills:  result.MatchingSkills,
		MissingSkills:   result.MissingSkills,
		Strengths:       result.Strengths,
		Improvements:    result.Improvements,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := o.store.UpsertMatchAnalysis(ctx, analysis); err != nil {
		return nil, errs.Persistence("failed to store match analysis", err)
	}
	// Re-analysis updates the existing row in place; read it back so the
	// caller sees the canonical identity and timestamps.
	analysis, err = o.store.GetMatchAnalysis(ctx, resumeID, jobID)
	if err != nil {
		return nil, err
	}

	o.logger.Info("analysis complete",
		zap.String("resume_id", resumeID),
		zap.String("job_id", jobID),
		zap.Float64("overall_score", result.OverallScore))
	return &AnalyzeOutput{Analysis: analysis, Resume: resumeRec, Job: jobRec}, nil
}

// TailorOutput bundles the atomically persisted rows with the draft's
// qualitative improvement notes.
type TailorOutput struct {
	Result       *models.TailoringResult
	Resume       *models.Resume
	Version      *models.ResumeVersion
	Improvements []string
}

// Tailor rewrites the resume for the job. It requires a prior analysis for
// the pair, generates a tailored draft, re-scores it and persists the new
// resume, the tailoring result and the version row as one atomic unit.
// Persistence failures surface immediately and are never retried.
func (o *Orchestrator) Tailor(ctx context.Context, resumeID, jobID string, opts *models.TailoringOptions) (*TailorOutput, error) {
	if opts == nil {
		opts = &models.TailoringOptions{}
	}
	if !opts.Normalize() {
		return nil, errs.Validation("unrecognized aggressiveness or tone value")
	}

	key := flightKey(resumeID, jobID)
	if err := o.flights.begin(key); err != nil {
		return nil, err
	}
	defer o.flights.end(key)

	resume, job, err := o.load(ctx, resumeID, jobID)
	if err != nil {
		return nil, err
	}

	analysis, err := o.store.GetMatchAnalysis(ctx, resumeID, jobID)
	if err != nil {
		return nil, err
	}

	_, jobRec, err := o.extractPair(ctx, resume.Content, job.Content)
	if err != nil {
		return nil, err
	}

	o.flights.transition(key, StateGenerating)
	draft, err := o.generateDraft(ctx, resume.Content, job.Content, analysis, opts)
	if err != nil {
		return nil, err
	}

	o.flights.transition(key, StateScoring)
	afterScore, err := o.scoreDraft(ctx, draft, jobRec.Job)
	if err != nil {
		return nil, err
	}

	// Runs for different jobs share the lineage's version counter. Hold
	// the lineage-root lock from the max+1 read through the commit so two
	// parallel runs cannot both observe the same maximum.
	root, err := o.ledger.Root(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	o.versions.lock(root)
	defer o.versions.unlock(root)

	nextVersion, err := o.ledger.NextVersionNumber(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	o.flights.transition(key, StatePersisting)
	now := time.Now().UTC()
	tailored := &models.Resume{
		ID:           uuid.NewString(),
		UserID:       resume.UserID,
		Title:        fmt.Sprintf("%s (tailored for %s)", resume.Title, job.Title),
		Content:      draft.Content,
		TailoredFrom: resumeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	result := &models.TailoringResult{
		ID:              uuid.NewString(),
		SourceResumeID:  resumeID,
		JobID:           jobID,
		TailoredContent: draft.Content,
		Changes:         draft.Changes,
		MatchScore:      afterScore,
		KeywordsAdded:   draft.KeywordsAdded,
		CreatedAt:       now,
	}
	before := analysis.OverallScore
	after := afterScore
	version := &models.ResumeVersion{
		ID:               uuid.NewString(),
		ResumeID:         tailored.ID,
		VersionNumber:    nextVersion,
		ChangesSummary:   summarizeChanges(draft.Changes),
		MatchScoreBefore: &before,
		MatchScoreAfter:  &after,
		JobID:            jobID,
		CreatedAt:        now,
	}

	if err := o.store.PersistTailoring(ctx, tailored, result, version); err != nil {
		return nil, errs.Persistence("failed to persist tailoring output", err)
	}

	o.logger.Info("tailoring complete",
		zap.String("resume_id", resumeID),
		zap.String("job_id", jobID),
		zap.String("tailored_resume_id", tailored.ID),
		zap.Int("version", nextVersion),
		zap.Float64("score_before", before),
		zap.Float64("score_after", after))
	return &TailorOutput{
		Result:       result,
		Resume:       tailored,
		Version:      version,
		Improvements: draft.Improvements,
	}, nil
}

// load fetches both pipeline inputs, mapping missing rows to not-found.
func (o *Orchestrator) load(ctx context.Context, resumeID, jobID string) (*models.Resume, *models.JobDescription, error) {
	resume, err := o.store.GetResume(ctx, resumeID)
	if err != nil {
		return nil, nil, err
	}
	job, err := o.store.GetJobDescription(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	return resume, job, nil
}

// extractPair runs both structured extractions with retry.
func (o *Orchestrator) extractPair(ctx context.Context, resumeText, jobText string) (*adapter.StructuredRecord, *adapter.StructuredRecord, error) {
	resumeRec, err := o.extractWithRetry(ctx, resumeText, models.SchemaResume)
	if err != nil {
		return nil, nil, err
	}
	jobRec, err := o.extractWithRetry(ctx, jobText, models.SchemaJob)
	if err != nil {
		return nil, nil, err
	}
	return resumeRec, jobRec, nil
}

// generateDraft requests the rewrite and validates the returned draft.
func (o *Orchestrator) generateDraft(ctx context.Context, resumeText, jobText string, analysis *models.MatchAnalysis, opts *models.TailoringOptions) (*models.TailoredDraft, error) {
	prompt := adapter.TailoringPrompt(resumeText, jobText, analysis, opts)
	raw, err := o.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return adapter.DecodeDraft(raw)
}

// scoreDraft re-scores the tailored content against the job so the version
// row can record the score delta.
func (o *Orchestrator) scoreDraft(ctx context.Context, draft *models.TailoredDraft, structJob *models.StructuredJob) (float64, error) {
	rec, err := o.extractWithRetry(ctx, draft.Content, models.SchemaResume)
	if err != nil {
		return 0, err
	}
	result, err := scoring.Score(rec.Resume, draft.Content, structJob)
	if err != nil {
		return 0, err
	}
	return result.OverallScore, nil
}

// extractWithRetry retries transient extraction failures with linear
// backoff up to the configured attempt budget, then reports an extraction
// failure carrying the last underlying error.
func (o *Orchestrator) extractWithRetry(ctx context.Context, text string, kind models.SchemaKind) (*adapter.StructuredRecord, error) {
	var lastErr error
	for attempt := 0; attempt < o.attempts(); attempt++ {
		if attempt > 0 {
			if err := o.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
		rec, err := o.extractor.ExtractStructured(ctx, text, kind)
		if err == nil {
			return rec, nil
		}
		lastErr = err
		o.logger.Warn("extraction attempt failed",
			zap.String("kind", string(kind)),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, errs.Extraction("structured extraction failed after retries", lastErr)
}

func (o *Orchestrator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < o.attempts(); attempt++ {
		if attempt > 0 {
			if err := o.backoff(ctx, attempt); err != nil {
				return "", err
			}
		}
		raw, err := o.extractor.GenerateText(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		o.logger.Warn("generation attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", errs.Extraction("generation failed after retries", lastErr)
}

func (o *Orchestrator) attempts() int {
	if o.cfg.MaxRetries < 1 {
		return 1
	}
	return o.cfg.MaxRetries
}

func (o *Orchestrator) backoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(o.cfg.RetryBackoff * time.Duration(attempt)):
		return nil
	}
}

// summarizeChanges condenses the draft's change list into one line for the
// version row.
func summarizeChanges(changes []models.SectionChange) string {
	if len(changes) == 0 {
		return "tailored for job posting"
	}
	sections := make([]string, 0, len(changes))
	seen := make(map[string]bool, len(changes))
	for _, c := range changes {
		if c.Section == "" || seen[c.Section] {
			continue
		}
		seen[c.Section] = true
		sections = append(sections, c.Section)
	}
	if len(sections) == 0 {
		return "tailored for job posting"
	}
	return "updated " + strings.Join(sections, ", ")
}
