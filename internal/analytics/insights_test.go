package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/adapter"
)

func TestInsightGenerator_Generate(t *testing.T) {
	mock := adapter.NewMock()
	mock.GenerateResponse = `["Apply to more backend roles.", "Shorten your summary section."]`
	g := NewInsightGenerator(mock, zap.NewNop())

	insights := g.Generate(context.Background(), ComputeMetrics(nil), nil)

	assert.Equal(t, []string{"Apply to more backend roles.", "Shorten your summary section."}, insights)
	assert.Equal(t, 1, mock.GenerateCalls)
}

func TestInsightGenerator_FallbackOnError(t *testing.T) {
	mock := adapter.NewMock()
	mock.GenerateErr = errors.New("upstream unavailable")
	g := NewInsightGenerator(mock, zap.NewNop())

	insights := g.Generate(context.Background(), ComputeMetrics(nil), nil)

	assert.Equal(t, fallbackInsights, insights)
}

func TestInsightGenerator_FallbackOnGarbage(t *testing.T) {
	mock := adapter.NewMock()
	mock.GenerateResponse = "I could not produce recommendations."
	g := NewInsightGenerator(mock, zap.NewNop())

	assert.Equal(t, fallbackInsights, g.Generate(context.Background(), ComputeMetrics(nil), nil))
}

func TestParseInsights(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseInsights("```json\n[\"a\", \" b \"]\n```"))
	assert.Nil(t, parseInsights("not json"))
	assert.Empty(t, parseInsights(`["", "  "]`))
}
