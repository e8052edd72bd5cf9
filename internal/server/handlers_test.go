package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/adapter"
	"github.com/jobtailor/jobtailor/internal/analytics"
	"github.com/jobtailor/jobtailor/internal/config"
	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/ledger"
	"github.com/jobtailor/jobtailor/internal/storage"
	"github.com/jobtailor/jobtailor/internal/tailor"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T, quota int) (*Server, http.Handler, *adapter.Mock) {
	t.Helper()
	t.Setenv("JOBTAILOR_TEST_KEYS", testAPIKey)

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.APIKeysEnv = "JOBTAILOR_TEST_KEYS"
	cfg.Adapter.MaxRetries = 2
	cfg.Adapter.RetryBackoff = time.Millisecond
	cfg.RateLimit.Quota = quota
	cfg.RateLimit.Window = time.Minute

	mock := adapter.NewMock()
	logger := zap.NewNop()
	ldg := ledger.New(store)
	orch := tailor.New(store, mock, ldg, cfg.Adapter, logger)
	insights := analytics.NewInsightGenerator(mock, logger)

	srv := NewServer(orch, insights, ldg, store, cfg, logger)
	return srv, srv.Router(), mock
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createPair(t *testing.T, router http.Handler) (resumeID, jobID string) {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/resumes", map[string]interface{}{
		"user_id": "u1", "title": "Backend", "content": "Go, PostgreSQL, Docker",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resume struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resume))

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/jobs", map[string]interface{}{
		"user_id": "u1", "company": "Acme", "title": "Platform Engineer",
		"content": "Go, Kubernetes, Docker",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var job struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &job))
	return resume.ID, job.ID
}

func TestAuthentication(t *testing.T) {
	_, router, _ := newTestServer(t, 100)

	req := httptest.NewRequest(http.MethodPost, "/tailor", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// health stays open
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	_, router, _ := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, router, http.MethodGet, "/api/v1/resumes/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w, env := doJSON(t, router, http.MethodGet, "/api/v1/resumes/missing", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "rate limit exceeded, retry later", env.Error)

	// the middleware surfaces the same rejection the error taxonomy maps
	assert.Equal(t, http.StatusTooManyRequests, errs.HTTPStatus(errs.RateLimit(env.Error)))
}

func TestAnalyzeAction(t *testing.T) {
	_, router, _ := newTestServer(t, 100)
	resumeID, jobID := createPair(t, router)

	w, env := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "analyze", "resumeId": resumeID, "jobDescriptionId": jobID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var data struct {
		MatchAnalysis struct {
			OverallScore   float64  `json:"overall_score"`
			MatchingSkills []string `json:"matching_skills"`
			MissingSkills  []string `json:"missing_skills"`
		} `json:"matchAnalysis"`
		ResumeAnalysis struct {
			Mode string `json:"mode"`
		} `json:"resumeAnalysis"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "deterministic", data.ResumeAnalysis.Mode)
	assert.GreaterOrEqual(t, data.MatchAnalysis.OverallScore, 0.0)
	assert.LessOrEqual(t, data.MatchAnalysis.OverallScore, 100.0)
	assert.Contains(t, data.MatchAnalysis.MatchingSkills, "Go")
	assert.Contains(t, data.MatchAnalysis.MissingSkills, "Kubernetes")
}

func TestAnalyzeAction_Validation(t *testing.T) {
	_, router, _ := newTestServer(t, 100)

	w, env := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "analyze", "resumeId": "r1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestUnknownAction(t *testing.T) {
	_, router, _ := newTestServer(t, 100)

	w, _ := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "render",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTailorAction_RequiresAnalysis(t *testing.T) {
	_, router, _ := newTestServer(t, 100)
	resumeID, jobID := createPair(t, router)

	w, env := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "tailor", "resumeId": resumeID, "jobDescriptionId": jobID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, env.Error, "Analysis not found")
}

func TestTailorAction(t *testing.T) {
	_, router, _ := newTestServer(t, 100)
	resumeID, jobID := createPair(t, router)

	w, _ := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "analyze", "resumeId": resumeID, "jobDescriptionId": jobID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "tailor", "resumeId": resumeID, "jobDescriptionId": jobID,
		"options": map[string]interface{}{"aggressiveness": "aggressive", "tone": "technical"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var data struct {
		TailoredResumeID string `json:"tailoredResumeId"`
		Version          struct {
			VersionNumber int `json:"version_number"`
		} `json:"version"`
		Changes []struct {
			Section string `json:"section"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.TailoredResumeID)
	assert.Equal(t, 1, data.Version.VersionNumber)
	assert.NotEmpty(t, data.Changes)

	// ledger visible through the history endpoint
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+data.TailoredResumeID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Versions        []json.RawMessage `json:"versions"`
		ScoreTrajectory []float64         `json:"scoreTrajectory"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history.Versions, 1)
	assert.Len(t, history.ScoreTrajectory, 1)
}

func TestDownloadAction(t *testing.T) {
	_, router, _ := newTestServer(t, 100)
	resumeID, _ := createPair(t, router)

	w, env := doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "download", "resumeId": resumeID, "format": "docx",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		URL    string `json:"url"`
		Format string `json:"format"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "docx", data.Format)
	assert.Contains(t, data.URL, resumeID)

	w, _ = doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "download", "resumeId": resumeID, "format": "odt",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/tailor", map[string]interface{}{
		"action": "download", "resumeId": "missing", "format": "pdf",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplicationLifecycleAndTrends(t *testing.T) {
	_, router, mock := newTestServer(t, 100)
	mock.GenerateResponse = `["Keep applying to platform roles."]`

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/applications", map[string]interface{}{
		"user_id": "u1", "company": "Acme", "title": "Platform Engineer",
		"match_score": 72.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var appData struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &appData))

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/applications/"+appData.ID+"/status", map[string]interface{}{
		"status": "screening",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/applications/"+appData.ID+"/status", map[string]interface{}{
		"status": "gone",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/analytics/trends?userId=u1&days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Metrics struct {
			Total        int     `json:"total"`
			Responses    int     `json:"responses"`
			ResponseRate float64 `json:"response_rate"`
		} `json:"metrics"`
		Trends struct {
			Applications struct {
				Change int `json:"change"`
			} `json:"applications"`
		} `json:"trends"`
		Insights []string `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Metrics.Total)
	assert.Equal(t, 1, report.Metrics.Responses)
	assert.InDelta(t, 100.0, report.Metrics.ResponseRate, 1e-9)
	assert.Equal(t, 100, report.Trends.Applications.Change)
	assert.Equal(t, []string{"Keep applying to platform roles."}, report.Insights)
}

func TestTrends_Validation(t *testing.T) {
	_, router, _ := newTestServer(t, 100)

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/analytics/trends", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/analytics/trends?userId=u1&days=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetMasterResume(t *testing.T) {
	_, router, _ := newTestServer(t, 100)
	first, _ := createPair(t, router)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/resumes", map[string]interface{}{
		"user_id": "u1", "title": "Second", "content": "Go", "is_master": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var second struct {
		ID       string `json:"id"`
		IsMaster bool   `json:"is_master"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.True(t, second.IsMaster)

	// moving the flag clears it on the previous holder
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+first+"/master", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+second.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		IsMaster bool `json:"is_master"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.False(t, got.IsMaster)
}
