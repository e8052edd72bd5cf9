// Package adapter isolates the external extraction/generation capability
// behind an interface that can be stubbed deterministically in tests.
package adapter

import (
	"context"
	"time"

	"github.com/jobtailor/jobtailor/internal/models"
)

// Mode records how an adapter call was parameterized. Deterministic calls
// use a fixed low temperature and back scoring-relevant extractions;
// generative calls are higher-variance and their exact output must never be
// asserted on in tests.
type Mode string

const (
	ModeDeterministic Mode = "deterministic"
	ModeGenerative    Mode = "generative"
)

// StructuredRecord is the validated result of one extraction, tagged with
// the mode that produced it. Exactly one of Resume/Job is set, matching Kind.
type StructuredRecord struct {
	Kind   models.SchemaKind        `json:"kind"`
	Mode   Mode                     `json:"mode"`
	Resume *models.StructuredResume `json:"resume,omitempty"`
	Job    *models.StructuredJob    `json:"job,omitempty"`
}

// Extractor is the external capability interface: structured extraction of
// free text and generative rewriting. Implementations may be
// nondeterministic, rate-limited and externally versioned; callers own
// retries and timeouts beyond the per-call bound.
type Extractor interface {
	ExtractStructured(ctx context.Context, text string, kind models.SchemaKind) (*StructuredRecord, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Config constructs a concrete adapter. Credentials and endpoint come from
// configuration, never from package globals.
type Config struct {
	Endpoint       string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxInputBytes  int
	ExtractionTemp float32
	GenerationTemp float32
}

// boundInput truncates text to the configured input budget so oversized
// documents cannot blow the request limit.
func boundInput(text string, maxBytes int) string {
	if maxBytes > 0 && len(text) > maxBytes {
		return text[:maxBytes]
	}
	return text
}
