// Package analytics computes metrics, period-over-period trends and funnel
// rates over application history. Everything here is a pure function of its
// inputs: no locks, no side effects, safe to call concurrently and
// repeatedly, recomputed on every request rather than stored.
package analytics

import (
	"time"

	"github.com/jobtailor/jobtailor/internal/models"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PreviousWindow returns the immediately preceding window of identical
// length. Never calendar-aligned: a 7-day window compares against the
// prior 7 days regardless of month boundaries.
func PreviousWindow(w Window) Window {
	length := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-length), End: w.Start}
}

// Metrics are the aggregate counts and rates for one window. Rates are
// percentages in [0, 100].
type Metrics struct {
	Total             int                              `json:"total"`
	ByStatus          map[models.ApplicationStatus]int `json:"by_status"`
	Responses         int                              `json:"responses"`
	Interviews        int                              `json:"interviews"`
	Offers            int                              `json:"offers"`
	ResponseRate      float64                          `json:"response_rate"`
	InterviewRate     float64                          `json:"interview_rate"`
	OfferRate         float64                          `json:"offer_rate"`
	AverageMatchScore float64                          `json:"average_match_score"`
}

// ComputeMetrics aggregates a window's application records. All rates are
// 0 for an empty window rather than undefined.
func ComputeMetrics(records []*models.Application) *Metrics {
	m := &Metrics{
		Total:    len(records),
		ByStatus: make(map[models.ApplicationStatus]int),
	}

	var scoreSum float64
	var scored int
	for _, r := range records {
		m.ByStatus[r.Status]++
		if r.Status.Reached(models.StatusScreening) {
			m.Responses++
		}
		if r.Status.Reached(models.StatusInterview) {
			m.Interviews++
		}
		if r.Status.Reached(models.StatusOffer) {
			m.Offers++
		}
		if r.MatchScore != nil {
			scoreSum += *r.MatchScore
			scored++
		}
	}

	if m.Total > 0 {
		m.ResponseRate = 100 * float64(m.Responses) / float64(m.Total)
		m.InterviewRate = 100 * float64(m.Interviews) / float64(m.Total)
		m.OfferRate = 100 * float64(m.Offers) / float64(m.Total)
	}
	if scored > 0 {
		m.AverageMatchScore = scoreSum / float64(scored)
	}
	return m
}

// FunnelStep is one stage of the conversion funnel with the share of the
// window's records that reached it.
type FunnelStep struct {
	Stage models.ApplicationStatus `json:"stage"`
	Count int                      `json:"count"`
	Rate  float64                  `json:"rate"`
}

// Funnel derives the stage-by-stage conversion view from a window's
// metrics.
func Funnel(m *Metrics) []FunnelStep {
	steps := []FunnelStep{
		{Stage: models.StatusApplied, Count: m.Total},
		{Stage: models.StatusScreening, Count: m.Responses},
		{Stage: models.StatusInterview, Count: m.Interviews},
		{Stage: models.StatusOffer, Count: m.Offers},
	}
	for i := range steps {
		if m.Total > 0 {
			steps[i].Rate = 100 * float64(steps[i].Count) / float64(m.Total)
		}
	}
	return steps
}
