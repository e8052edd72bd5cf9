package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResume_CRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	r := &models.Resume{ID: "r1", UserID: "u1", Title: "Backend", Content: "Go, SQL"}
	if err := store.CreateResume(ctx, r); err != nil {
		t.Fatal(err)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetResume(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Backend" || got.UserID != "u1" {
		t.Errorf("got %+v", got)
	}

	if err := store.UpdateResumeTitle(ctx, "r1", "Backend v2"); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetResume(ctx, "r1")
	if got.Title != "Backend v2" {
		t.Errorf("title: got %s", got.Title)
	}

	if err := store.ArchiveResume(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetResume(ctx, "r1")
	if !got.Archived {
		t.Error("resume should be archived")
	}
	list, _ := store.ListResumesByUser(ctx, "u1")
	if len(list) != 0 {
		t.Errorf("archived resumes should not be listed, got %d", len(list))
	}
}

func TestResume_NotFound(t *testing.T) {
	store := newTestStorage(t)
	_, err := store.GetResume(context.Background(), "missing")
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("want not-found, got %v", err)
	}
}

func TestSetMasterResume_SingleMaster(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"r1", "r2", "r3"} {
		if err := store.CreateResume(ctx, &models.Resume{ID: id, UserID: "u1", Content: "x"}); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.SetMasterResume(ctx, "u1", "r1"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetMasterResume(ctx, "u1", "r2"); err != nil {
		t.Fatal(err)
	}

	masters := 0
	list, err := store.ListResumesByUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range list {
		if r.IsMaster {
			masters++
			if r.ID != "r2" {
				t.Errorf("master should be r2, got %s", r.ID)
			}
		}
	}
	if masters != 1 {
		t.Errorf("expected exactly 1 master, got %d", masters)
	}
}

func TestUpsertMatchAnalysis_SingleCurrentRow(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a := &models.MatchAnalysis{
		ID: "a1", ResumeID: "r1", JobID: "j1",
		OverallScore: 60, SkillsMatch: 50, ExperienceMatch: 70, EducationMatch: 50, KeywordDensity: 65,
		MatchingSkills: []string{"Go"}, MissingSkills: []string{"Rust"},
	}
	if err := store.UpsertMatchAnalysis(ctx, a); err != nil {
		t.Fatal(err)
	}

	a2 := &models.MatchAnalysis{
		ID: "a2", ResumeID: "r1", JobID: "j1",
		OverallScore: 80, SkillsMatch: 100, ExperienceMatch: 70, EducationMatch: 50, KeywordDensity: 65,
		MatchingSkills: []string{"Go", "Rust"}, MissingSkills: []string{},
	}
	if err := store.UpsertMatchAnalysis(ctx, a2); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM match_analyses WHERE resume_id = 'r1' AND job_id = 'j1'`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 current analysis, got %d", count)
	}

	got, err := store.GetMatchAnalysis(ctx, "r1", "j1")
	if err != nil {
		t.Fatal(err)
	}
	if got.OverallScore != 80 {
		t.Errorf("upsert should replace scores, got %v", got.OverallScore)
	}
	if len(got.MissingSkills) != 0 {
		t.Errorf("missing skills: got %v", got.MissingSkills)
	}
	// The original row's identity survives the upsert.
	if got.ID != "a1" {
		t.Errorf("id: got %s, want a1", got.ID)
	}
}

func TestGetMatchAnalysis_NotFound(t *testing.T) {
	store := newTestStorage(t)
	_, err := store.GetMatchAnalysis(context.Background(), "r1", "j1")
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("want not-found, got %v", err)
	}
}

func TestPersistTailoring_Atomic(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	source := &models.Resume{ID: "src", UserID: "u1", Content: "original"}
	if err := store.CreateResume(ctx, source); err != nil {
		t.Fatal(err)
	}

	after := 75.0
	resume := &models.Resume{ID: "tailored", UserID: "u1", Title: "Tailored", Content: "new", TailoredFrom: "src"}
	result := &models.TailoringResult{ID: "tr1", SourceResumeID: "src", JobID: "j1", TailoredContent: "new", MatchScore: after}
	version := &models.ResumeVersion{ID: "v1", ResumeID: "tailored", VersionNumber: 1, ChangesSummary: "tailored for j1", MatchScoreAfter: &after}

	if err := store.PersistTailoring(ctx, resume, result, version); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetResume(ctx, "tailored"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetTailoringResult(ctx, "tr1"); err != nil {
		t.Fatal(err)
	}
}

func TestPersistTailoring_RollbackOnFailure(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	after := 60.0
	ok := &models.ResumeVersion{ID: "v1", ResumeID: "t1", VersionNumber: 1, MatchScoreAfter: &after}
	if err := store.PersistTailoring(ctx,
		&models.Resume{ID: "t1", UserID: "u1", Content: "c"},
		&models.TailoringResult{ID: "tr1", SourceResumeID: "src", JobID: "j1", TailoredContent: "c"},
		ok); err != nil {
		t.Fatal(err)
	}

	// Duplicate version primary key fails the last insert; the resume and
	// result written earlier in the transaction must roll back with it.
	dup := &models.ResumeVersion{ID: "v1", ResumeID: "t2", VersionNumber: 1, MatchScoreAfter: &after}
	err := store.PersistTailoring(ctx,
		&models.Resume{ID: "t2", UserID: "u1", Content: "c"},
		&models.TailoringResult{ID: "tr2", SourceResumeID: "src", JobID: "j1", TailoredContent: "c"},
		dup)
	if err == nil {
		t.Fatal("expected persistence failure")
	}

	if _, err := store.GetResume(ctx, "t2"); !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("resume should not be visible after rollback, got %v", err)
	}
	if _, err := store.GetTailoringResult(ctx, "tr2"); !errs.IsKind(err, errs.KindNotFound) {
		t.Errorf("tailoring result should not be visible after rollback, got %v", err)
	}
	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM resume_versions`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 version row, got %d", count)
	}
}

func TestListVersions_Ordered(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i, id := range []string{"v3", "v1", "v2"} {
		n := map[int]int{0: 3, 1: 1, 2: 2}[i]
		after := float64(50 + n)
		if err := store.PersistTailoring(ctx,
			&models.Resume{ID: "t" + id, UserID: "u1", Content: "c"},
			&models.TailoringResult{ID: "tr" + id, SourceResumeID: "src", JobID: "j1", TailoredContent: "c"},
			&models.ResumeVersion{ID: id, ResumeID: "t" + id, VersionNumber: n, MatchScoreAfter: &after},
		); err != nil {
			t.Fatal(err)
		}
	}

	versions, err := store.ListVersions(ctx, []string{"tv1", "tv2", "tv3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}
	for i, v := range versions {
		if v.VersionNumber != i+1 {
			t.Errorf("position %d: got version %d", i, v.VersionNumber)
		}
	}
}

func TestApplicationEvents_ReconstructStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	app := &models.Application{
		ID: "app1", UserID: "u1", Company: "Acme", Title: "SWE",
		ApplicationDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:          models.StatusApplied,
	}
	if err := store.CreateApplication(ctx, app); err != nil {
		t.Fatal(err)
	}

	transitions := []models.ApplicationStatus{models.StatusScreening, models.StatusInterview, models.StatusOffer}
	from := models.StatusApplied
	for i, to := range transitions {
		ev := &models.ApplicationEvent{
			ID: "ev" + string(rune('1'+i)), ApplicationID: "app1", FromStatus: from, ToStatus: to,
		}
		if err := store.AppendApplicationEvent(ctx, ev); err != nil {
			t.Fatal(err)
		}
		from = to
	}

	got, err := store.GetApplication(ctx, "app1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusOffer {
		t.Errorf("status: got %s", got.Status)
	}

	events, err := store.ListApplicationEvents(ctx, "app1")
	if err != nil {
		t.Fatal(err)
	}
	if replayed := models.ReplayStatus(models.StatusApplied, events); replayed != got.Status {
		t.Errorf("replayed %s, stored %s", replayed, got.Status)
	}
}

func TestListApplications_WindowIsHalfOpen(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		app := &models.Application{ID: "app" + string(rune('1'+i)), UserID: "u1", ApplicationDate: d}
		if err := store.CreateApplication(ctx, app); err != nil {
			t.Fatal(err)
		}
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	apps, err := store.ListApplications(ctx, "u1", start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 {
		t.Errorf("expected 2 applications in [start, end), got %d", len(apps))
	}
}
