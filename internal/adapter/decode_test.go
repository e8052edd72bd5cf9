package adapter

import (
	"testing"

	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStructured_Resume(t *testing.T) {
	raw := "```json\n{\"skills\": [\"Go\", \"SQL\"], \"years_of_experience\": 4}\n```"
	rec, err := decodeStructured(raw, models.SchemaResume)
	require.NoError(t, err)
	require.NotNil(t, rec.Resume)
	assert.Equal(t, []string{"Go", "SQL"}, rec.Resume.Skills)
	require.NotNil(t, rec.Resume.YearsOfExp)
	assert.Equal(t, 4.0, *rec.Resume.YearsOfExp)
}

func TestDecodeStructured_Job(t *testing.T) {
	raw := `{"required_skills": ["React", "Docker"], "keywords": ["frontend"]}`
	rec, err := decodeStructured(raw, models.SchemaJob)
	require.NoError(t, err)
	require.NotNil(t, rec.Job)
	assert.Equal(t, []string{"React", "Docker"}, rec.Job.RequiredSkills)
}

func TestDecodeStructured_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind models.SchemaKind
	}{
		{"not json", "the model rambled instead", models.SchemaResume},
		{"missing skills", `{"summary": "dev"}`, models.SchemaResume},
		{"skills not array", `{"skills": "Go, SQL"}`, models.SchemaResume},
		{"missing required_skills", `{"title": "SWE"}`, models.SchemaJob},
		{"json array not object", `["Go"]`, models.SchemaJob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStructured(tt.raw, tt.kind)
			require.Error(t, err)
			assert.True(t, errs.IsKind(err, errs.KindExtraction), "want extraction failure, got %v", err)
		})
	}
}

func TestDecodeDraft(t *testing.T) {
	raw := "```\n{\"content\": \"new resume\", \"changes\": [], \"keywords_added\": [\"k8s\"]}\n```"
	draft, err := DecodeDraft(raw)
	require.NoError(t, err)
	assert.Equal(t, "new resume", draft.Content)
	assert.Equal(t, []string{"k8s"}, draft.KeywordsAdded)
	assert.NotNil(t, draft.Changes)
}

func TestDecodeDraft_EmptyContent(t *testing.T) {
	_, err := DecodeDraft(`{"content": "  "}`)
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindExtraction))
}

func TestExtractJSON_Fences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("`{\"a\":1}`"))
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
}
