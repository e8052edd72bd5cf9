package analytics

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/adapter"
	"github.com/jobtailor/jobtailor/internal/models"
)

// fallbackInsights is served verbatim whenever generation fails or returns
// nothing usable. The analytics surface degrades to generic advice instead
// of erroring.
var fallbackInsights = []string{
	"Tailor your resume for each application to improve match scores.",
	"Follow up on applications that have had no response for two weeks.",
	"Focus on roles where your match score is above 70 for better response rates.",
	"Apply consistently every week; steady volume beats sporadic bursts.",
	"Review the missing skills from recent analyses and close the most common gaps.",
}

// InsightGenerator turns aggregated metrics into qualitative
// recommendations via the generative adapter.
type InsightGenerator struct {
	extractor adapter.Extractor
	logger    *zap.Logger
}

func NewInsightGenerator(extractor adapter.Extractor, logger *zap.Logger) *InsightGenerator {
	return &InsightGenerator{extractor: extractor, logger: logger}
}

// Generate returns 3-5 recommendation strings for the window. Any failure
// along the way (adapter error, unparseable output, empty list) falls back
// to the fixed list; this method never returns an error.
func (g *InsightGenerator) Generate(ctx context.Context, metrics *Metrics, recent []*models.Application) []string {
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return fallbackInsights
	}
	recentJSON, err := json.Marshal(recent)
	if err != nil {
		return fallbackInsights
	}

	raw, err := g.extractor.GenerateText(ctx, adapter.InsightsPrompt(string(metricsJSON), string(recentJSON)))
	if err != nil {
		g.logger.Warn("insight generation failed, serving fallback", zap.Error(err))
		return fallbackInsights
	}

	insights := parseInsights(raw)
	if len(insights) == 0 {
		g.logger.Warn("insight generation returned nothing usable, serving fallback")
		return fallbackInsights
	}
	return insights
}

// parseInsights decodes a JSON string array, tolerating code fences and
// blank entries.
func parseInsights(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var insights []string
	if err := json.Unmarshal([]byte(trimmed), &insights); err != nil {
		return nil
	}
	out := insights[:0]
	for _, s := range insights {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
