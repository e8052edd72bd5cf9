package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/internal/storage"
)

func setup(t *testing.T) (*Ledger, storage.Storage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

// seedLineage creates root -> t1 -> t2 with versions 1 and 2.
func seedLineage(t *testing.T, store storage.Storage) {
	t.Helper()
	ctx := context.Background()
	if err := store.CreateResume(ctx, &models.Resume{ID: "root", UserID: "u1", Content: "c"}); err != nil {
		t.Fatal(err)
	}
	scores := []float64{55, 70}
	parents := []string{"root", "t1"}
	for i, id := range []string{"t1", "t2"} {
		if err := store.PersistTailoring(ctx,
			&models.Resume{ID: id, UserID: "u1", Content: "c", TailoredFrom: parents[i]},
			&models.TailoringResult{ID: "tr-" + id, SourceResumeID: parents[i], JobID: "j1", TailoredContent: "c"},
			&models.ResumeVersion{ID: "v-" + id, ResumeID: id, VersionNumber: i + 1, MatchScoreAfter: &scores[i]},
		); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNextVersionNumber_EmptyLineage(t *testing.T) {
	l, store := setup(t)
	ctx := context.Background()
	if err := store.CreateResume(ctx, &models.Resume{ID: "root", UserID: "u1", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	n, err := l.NextVersionNumber(ctx, "root")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %d, want 1", n)
	}
}

func TestNextVersionNumber_Increments(t *testing.T) {
	l, store := setup(t)
	seedLineage(t, store)

	// Any member of the lineage resolves to the same next number.
	for _, id := range []string{"root", "t1", "t2"} {
		n, err := l.NextVersionNumber(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if n != 3 {
			t.Errorf("from %s: got %d, want 3", id, n)
		}
	}
}

func TestHistory_AscendingNoGaps(t *testing.T) {
	l, store := setup(t)
	seedLineage(t, store)

	history, err := l.History(context.Background(), "t2")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	for i, v := range history {
		if v.VersionNumber != i+1 {
			t.Errorf("position %d: version %d", i, v.VersionNumber)
		}
	}
}

func TestCurrent(t *testing.T) {
	l, store := setup(t)
	seedLineage(t, store)

	current, err := l.Current(context.Background(), "root")
	if err != nil {
		t.Fatal(err)
	}
	if current == nil || current.VersionNumber != 2 {
		t.Errorf("got %+v", current)
	}
}

func TestCurrent_NoVersions(t *testing.T) {
	l, store := setup(t)
	ctx := context.Background()
	if err := store.CreateResume(ctx, &models.Resume{ID: "root", UserID: "u1", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	current, err := l.Current(ctx, "root")
	if err != nil {
		t.Fatal(err)
	}
	if current != nil {
		t.Errorf("expected nil, got %+v", current)
	}
}

func TestScoreTrajectory(t *testing.T) {
	l, store := setup(t)
	seedLineage(t, store)

	scores, err := l.ScoreTrajectory(context.Background(), "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || scores[0] != 55 || scores[1] != 70 {
		t.Errorf("got %v", scores)
	}
}
