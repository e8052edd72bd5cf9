// Package ledger maintains the append-only, per-lineage version history of
// tailoring attempts.
package ledger

import (
	"context"
	"fmt"

	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/internal/storage"
)

// maxChainDepth bounds lineage walks. tailored_from chains never form a
// cycle, so hitting the bound means corrupted data rather than a long chain.
const maxChainDepth = 1000

// Ledger reads and extends a resume lineage's version history. A lineage is
// a resume plus every resume chained to it through tailored_from. Entries
// are never reordered or deleted; corrections append.
type Ledger struct {
	store storage.Storage
}

// New creates a ledger over the given storage.
func New(store storage.Storage) *Ledger {
	return &Ledger{store: store}
}

// Lineage resolves the full set of resume IDs in resumeID's lineage: the
// chain's root and all descendants.
func (l *Ledger) Lineage(ctx context.Context, resumeID string) ([]string, error) {
	root, err := l.Root(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	queue := []string{root}
	seen := map[string]bool{root: true}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ids = append(ids, id)

		children, err := l.store.ListResumeChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if !seen[child.ID] {
				seen[child.ID] = true
				queue = append(queue, child.ID)
			}
		}
	}
	return ids, nil
}

// Root walks tailored_from links up to the original resume and returns its id.
func (l *Ledger) Root(ctx context.Context, resumeID string) (string, error) {
	id := resumeID
	for depth := 0; depth < maxChainDepth; depth++ {
		r, err := l.store.GetResume(ctx, id)
		if err != nil {
			return "", err
		}
		if r.TailoredFrom == "" {
			return r.ID, nil
		}
		id = r.TailoredFrom
	}
	return "", fmt.Errorf("tailored_from chain exceeds %d entries for resume %s", maxChainDepth, resumeID)
}

// History returns all version entries for the lineage, ordered by version
// number ascending.
func (l *Ledger) History(ctx context.Context, resumeID string) ([]*models.ResumeVersion, error) {
	ids, err := l.Lineage(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	return l.store.ListVersions(ctx, ids)
}

// Current returns the lineage's entry with the maximum version number, or
// nil when the lineage has no versions yet.
func (l *Ledger) Current(ctx context.Context, resumeID string) (*models.ResumeVersion, error) {
	history, err := l.History(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	return history[len(history)-1], nil
}

// NextVersionNumber returns max(existing version numbers) + 1 for the
// lineage, or 1 when none exist.
func (l *Ledger) NextVersionNumber(ctx context.Context, resumeID string) (int, error) {
	current, err := l.Current(ctx, resumeID)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 1, nil
	}
	return current.VersionNumber + 1, nil
}

// ScoreTrajectory returns the ordered match-score-after values across the
// lineage's history. Entries without a recorded score are skipped.
func (l *Ledger) ScoreTrajectory(ctx context.Context, resumeID string) ([]float64, error) {
	history, err := l.History(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, 0, len(history))
	for _, v := range history {
		if v.MatchScoreAfter != nil {
			scores = append(scores, *v.MatchScoreAfter)
		}
	}
	return scores, nil
}
