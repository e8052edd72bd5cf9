package analytics

import (
	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/pkg/utils"
)

// Change computes the period-over-period percentage change between two
// counts, rounded to an integer. A zero baseline is asymmetric: any growth
// from zero reports +100, staying at zero reports 0. A drop to zero from a
// nonzero baseline falls through to the general formula (-100).
func Change(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return utils.RoundPct((current - previous) / previous * 100)
}

// TrendMetric is one metric compared across two adjacent windows.
type TrendMetric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   int     `json:"change"`
}

func trendMetric(current, previous float64) TrendMetric {
	return TrendMetric{Current: current, Previous: previous, Change: Change(current, previous)}
}

// Trends compares the headline counts of a window against its predecessor.
type Trends struct {
	Applications TrendMetric `json:"applications"`
	Responses    TrendMetric `json:"responses"`
	Interviews   TrendMetric `json:"interviews"`
	Offers       TrendMetric `json:"offers"`
}

// ComputeTrends builds the period-over-period comparison from two windows'
// metrics.
func ComputeTrends(current, previous *Metrics) *Trends {
	return &Trends{
		Applications: trendMetric(float64(current.Total), float64(previous.Total)),
		Responses:    trendMetric(float64(current.Responses), float64(previous.Responses)),
		Interviews:   trendMetric(float64(current.Interviews), float64(previous.Interviews)),
		Offers:       trendMetric(float64(current.Offers), float64(previous.Offers)),
	}
}

// Report is the full analytics payload for one window: its metrics, the
// funnel breakdown, and trends against the immediately preceding window.
type Report struct {
	Window   Window       `json:"window"`
	Metrics  *Metrics     `json:"metrics"`
	Funnel   []FunnelStep `json:"funnel"`
	Trends   *Trends      `json:"trends"`
	Insights []string     `json:"insights,omitempty"`
}

// BuildReport assembles a Report from the two windows' records.
func BuildReport(w Window, current, previous []*models.Application) *Report {
	cm := ComputeMetrics(current)
	pm := ComputeMetrics(previous)
	return &Report{
		Window:  w,
		Metrics: cm,
		Funnel:  Funnel(cm),
		Trends:  ComputeTrends(cm, pm),
	}
}
