package adapter

import (
	"context"
	"strings"
	"sync"

	"github.com/jobtailor/jobtailor/internal/models"
)

// Mock is a deterministic Extractor for tests. Extraction derives a skill
// set from comma/newline separated tokens in the input, so the same text
// always yields the same record. Generation returns a canned draft payload.
type Mock struct {
	mu sync.Mutex

	// ExtractErr and GenerateErr, when set, fail the corresponding call.
	ExtractErr  error
	GenerateErr error
	// FailFirst fails this many extraction calls before succeeding,
	// for retry-path tests.
	FailFirst int
	// GenerateResponse overrides the canned generation payload.
	GenerateResponse string

	ExtractCalls  int
	GenerateCalls int
}

// NewMock returns a deterministic test adapter.
func NewMock() *Mock {
	return &Mock{}
}

// ExtractStructured derives a structured record from the raw text. Tokens
// separated by commas, semicolons or newlines become the skill list.
func (m *Mock) ExtractStructured(_ context.Context, text string, kind models.SchemaKind) (*StructuredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExtractCalls++
	if m.FailFirst > 0 {
		m.FailFirst--
		return nil, &mockFailure{}
	}
	if m.ExtractErr != nil {
		return nil, m.ExtractErr
	}

	skills := tokenizeMock(text)
	if kind == models.SchemaJob {
		return &StructuredRecord{
			Kind: kind,
			Mode: ModeDeterministic,
			Job:  &models.StructuredJob{RequiredSkills: skills, Keywords: skills},
		}, nil
	}
	return &StructuredRecord{
		Kind:   kind,
		Mode:   ModeDeterministic,
		Resume: &models.StructuredResume{Skills: skills},
	}, nil
}

// GenerateText returns a fixed, schema-valid draft payload so pipeline
// tests can assert on shape without depending on model output.
func (m *Mock) GenerateText(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls++
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	if m.GenerateResponse != "" {
		return m.GenerateResponse, nil
	}
	return `{
  "content": "Tailored resume content.",
  "changes": [{"section": "summary", "original": "a", "modified": "b", "reason": "match job focus"}],
  "keywords_added": ["docker"],
  "improvements": ["surfaced container experience"]
}`, nil
}

type mockFailure struct{}

func (*mockFailure) Error() string { return "mock transient failure" }

func tokenizeMock(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	skills := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			skills = append(skills, f)
		}
	}
	return skills
}
