package adapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/models"
)

// extractJSON strips markdown code fences that models wrap around JSON
// payloads.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// decodeStructured validates raw adapter output against the requested
// schema shape. Any mismatch surfaces as an extraction failure rather than
// propagating a type-incorrect value.
func decodeStructured(raw string, kind models.SchemaKind) (*StructuredRecord, error) {
	cleaned := extractJSON(raw)

	var shape map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &shape); err != nil {
		return nil, errs.Extraction("adapter response is not a JSON object", err)
	}

	switch kind {
	case models.SchemaResume:
		if err := requireArray(shape, "skills"); err != nil {
			return nil, err
		}
		var resume models.StructuredResume
		if err := json.Unmarshal([]byte(cleaned), &resume); err != nil {
			return nil, errs.Extraction("adapter response does not match resume schema", err)
		}
		if resume.Skills == nil {
			resume.Skills = []string{}
		}
		return &StructuredRecord{Kind: kind, Resume: &resume}, nil
	case models.SchemaJob:
		if err := requireArray(shape, "required_skills"); err != nil {
			return nil, err
		}
		var job models.StructuredJob
		if err := json.Unmarshal([]byte(cleaned), &job); err != nil {
			return nil, errs.Extraction("adapter response does not match job schema", err)
		}
		if job.RequiredSkills == nil {
			job.RequiredSkills = []string{}
		}
		return &StructuredRecord{Kind: kind, Job: &job}, nil
	default:
		return nil, errs.Validation(fmt.Sprintf("unknown schema kind %q", kind))
	}
}

// DecodeDraft validates generative tailoring output. The orchestrator feeds
// it raw GenerateText responses.
func DecodeDraft(raw string) (*models.TailoredDraft, error) {
	cleaned := extractJSON(raw)

	var draft models.TailoredDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, errs.Extraction("adapter response does not match draft schema", err)
	}
	if strings.TrimSpace(draft.Content) == "" {
		return nil, errs.Extraction("adapter draft has empty content", nil)
	}
	if draft.Changes == nil {
		draft.Changes = []models.SectionChange{}
	}
	if draft.KeywordsAdded == nil {
		draft.KeywordsAdded = []string{}
	}
	return &draft, nil
}

func requireArray(shape map[string]json.RawMessage, field string) error {
	raw, ok := shape[field]
	if !ok {
		return errs.Extraction(fmt.Sprintf("adapter response missing %q", field), nil)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return errs.Extraction(fmt.Sprintf("adapter response field %q is not an array", field), err)
	}
	return nil
}
