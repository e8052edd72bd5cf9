package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/analytics"
	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/models"
)

// tailorRequest is the action-dispatched request body for POST /tailor.
type tailorRequest struct {
	Action           string                   `json:"action"`
	ResumeID         string                   `json:"resumeId"`
	JobDescriptionID string                   `json:"jobDescriptionId"`
	Options          *models.TailoringOptions `json:"options,omitempty"`
	Format           string                   `json:"format,omitempty"`
}

func (s *Server) handleTailorAction(w http.ResponseWriter, r *http.Request) {
	var req tailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("tailor action request",
		zap.String("action", req.Action),
		zap.String("resume_id", req.ResumeID),
		zap.String("job_id", req.JobDescriptionID))

	switch req.Action {
	case "analyze":
		s.handleAnalyze(w, r, &req)
	case "tailor":
		s.handleTailor(w, r, &req)
	case "download":
		s.handleDownload(w, r, &req)
	default:
		s.respondError(w, http.StatusBadRequest, "unknown action: "+req.Action)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, req *tailorRequest) {
	if req.ResumeID == "" || req.JobDescriptionID == "" {
		s.respondError(w, http.StatusBadRequest, "resumeId and jobDescriptionId are required")
		return
	}
	out, err := s.orchestrator.Analyze(r.Context(), req.ResumeID, req.JobDescriptionID)
	if err != nil {
		s.respondFailure(w, "analyze", err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]interface{}{
		"analysis":       out.Analysis,
		"matchAnalysis":  out.Analysis,
		"resumeAnalysis": out.Resume,
		"jobAnalysis":    out.Job,
	})
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request, req *tailorRequest) {
	if req.ResumeID == "" || req.JobDescriptionID == "" {
		s.respondError(w, http.StatusBadRequest, "resumeId and jobDescriptionId are required")
		return
	}
	out, err := s.orchestrator.Tailor(r.Context(), req.ResumeID, req.JobDescriptionID, req.Options)
	if err != nil {
		s.respondFailure(w, "tailor", err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]interface{}{
		"tailoredResumeId": out.Resume.ID,
		"result":           out.Result,
		"version":          out.Version,
		"changes":          out.Result.Changes,
		"improvements":     out.Improvements,
	})
}

// handleDownload returns a download reference; file rendering is an
// external collaborator.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, req *tailorRequest) {
	if req.ResumeID == "" {
		s.respondError(w, http.StatusBadRequest, "resumeId is required")
		return
	}
	format := req.Format
	if format == "" {
		format = "pdf"
	}
	switch format {
	case "pdf", "docx", "txt":
	default:
		s.respondError(w, http.StatusBadRequest, "unsupported format: "+format)
		return
	}
	if _, err := s.storage.GetResume(r.Context(), req.ResumeID); err != nil {
		s.respondFailure(w, "download", err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]string{
		"resumeId": req.ResumeID,
		"format":   format,
		"url":      fmt.Sprintf("/downloads/resumes/%s.%s", req.ResumeID, format),
	})
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var input models.ResumeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.UserID == "" || input.Content == "" {
		s.respondError(w, http.StatusBadRequest, "user_id and content are required")
		return
	}
	resume := &models.Resume{
		ID:      uuid.NewString(),
		UserID:  input.UserID,
		Title:   input.Title,
		Content: input.Content,
	}
	ctx := r.Context()
	if err := s.storage.CreateResume(ctx, resume); err != nil {
		s.respondFailure(w, "create resume", err)
		return
	}
	if input.IsMaster {
		if err := s.storage.SetMasterResume(ctx, input.UserID, resume.ID); err != nil {
			s.respondFailure(w, "set master resume", err)
			return
		}
		resume.IsMaster = true
	}
	s.respondData(w, http.StatusCreated, resume)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.storage.GetResume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondFailure(w, "get resume", err)
		return
	}
	s.respondData(w, http.StatusOK, resume)
}

func (s *Server) handleResumeHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	if _, err := s.storage.GetResume(ctx, id); err != nil {
		s.respondFailure(w, "resume history", err)
		return
	}
	history, err := s.ledger.History(ctx, id)
	if err != nil {
		s.respondFailure(w, "resume history", err)
		return
	}
	trajectory, err := s.ledger.ScoreTrajectory(ctx, id)
	if err != nil {
		s.respondFailure(w, "resume history", err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]interface{}{
		"versions":        history,
		"scoreTrajectory": trajectory,
	})
}

func (s *Server) handleSetMaster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	resume, err := s.storage.GetResume(ctx, id)
	if err != nil {
		s.respondFailure(w, "set master", err)
		return
	}
	if err := s.storage.SetMasterResume(ctx, resume.UserID, id); err != nil {
		s.respondFailure(w, "set master", err)
		return
	}
	s.respondData(w, http.StatusOK, map[string]string{"id": id, "status": "master"})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var input models.JobDescriptionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	job := &models.JobDescription{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		Company:        input.Company,
		Title:          input.Title,
		Content:        input.Content,
		Seniority:      input.Seniority,
		EmploymentType: input.EmploymentType,
		Location:       input.Location,
	}
	if err := s.storage.CreateJobDescription(r.Context(), job); err != nil {
		s.respondFailure(w, "create job", err)
		return
	}
	s.respondData(w, http.StatusCreated, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.storage.GetJobDescription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondFailure(w, "get job", err)
		return
	}
	s.respondData(w, http.StatusOK, job)
}

type applicationInput struct {
	UserID     string   `json:"user_id"`
	Company    string   `json:"company"`
	Title      string   `json:"title"`
	Status     string   `json:"status,omitempty"`
	MatchScore *float64 `json:"match_score,omitempty"`
	ResumeID   string   `json:"resume_id,omitempty"`
	JobID      string   `json:"job_id,omitempty"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var input applicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.UserID == "" || input.Company == "" {
		s.respondError(w, http.StatusBadRequest, "user_id and company are required")
		return
	}
	status := models.ApplicationStatus(input.Status)
	if input.Status == "" {
		status = models.StatusApplied
	}
	if !status.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown status: "+input.Status)
		return
	}
	app := &models.Application{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		Company:         input.Company,
		Title:           input.Title,
		ApplicationDate: time.Now().UTC(),
		Status:          status,
		MatchScore:      input.MatchScore,
		ResumeID:        input.ResumeID,
		JobID:           input.JobID,
	}
	if err := s.storage.CreateApplication(r.Context(), app); err != nil {
		s.respondFailure(w, "create application", err)
		return
	}
	s.respondData(w, http.StatusCreated, app)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target := models.ApplicationStatus(req.Status)
	if !target.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	ctx := r.Context()
	app, err := s.storage.GetApplication(ctx, id)
	if err != nil {
		s.respondFailure(w, "application status", err)
		return
	}
	if app.Status.Terminal() {
		s.respondError(w, http.StatusBadRequest, "application already "+string(app.Status))
		return
	}
	ev := &models.ApplicationEvent{
		ID:            uuid.NewString(),
		ApplicationID: id,
		FromStatus:    app.Status,
		ToStatus:      target,
	}
	if err := s.storage.AppendApplicationEvent(ctx, ev); err != nil {
		s.respondFailure(w, "application status", err)
		return
	}
	s.respondData(w, http.StatusOK, ev)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		s.respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	days := s.config.Analytics.DefaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	end := time.Now().UTC()
	window := analytics.Window{Start: end.AddDate(0, 0, -days), End: end}
	previous := analytics.PreviousWindow(window)

	ctx := r.Context()
	currentApps, err := s.storage.ListApplications(ctx, userID, window.Start, window.End)
	if err != nil {
		s.respondFailure(w, "trends", err)
		return
	}
	previousApps, err := s.storage.ListApplications(ctx, userID, previous.Start, previous.End)
	if err != nil {
		s.respondFailure(w, "trends", err)
		return
	}

	report := analytics.BuildReport(window, currentApps, previousApps)
	recent := currentApps
	if limit := s.config.Analytics.RecentLimit; limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}
	report.Insights = s.insights.Generate(ctx, report.Metrics, recent)
	s.respondData(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondFailure maps a pipeline error onto the taxonomy's HTTP status and
// the structured failure envelope.
func (s *Server) respondFailure(w http.ResponseWriter, op string, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", zap.Error(err))
	} else {
		s.logger.Debug(op+" rejected", zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondData(w http.ResponseWriter, status int, data interface{}) {
	s.respondJSON(w, status, map[string]interface{}{"success": true, "data": data})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{"success": false, "error": message})
}
