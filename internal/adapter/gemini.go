package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/pkg/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const previewLen = 200

// Gemini implements Extractor against the Gemini API. It is constructed
// explicitly from Config; no package-level client or environment reads.
type Gemini struct {
	client *genai.Client
	cfg    Config
	logger *zap.Logger
}

// NewGemini creates a Gemini-backed adapter. The endpoint override is
// optional; when empty the default API backend is used.
func NewGemini(ctx context.Context, cfg Config, logger *zap.Logger) (*Gemini, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("adapter api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("adapter model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.Endpoint
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg, logger: logger}, nil
}

// ExtractStructured runs a deterministic (low temperature) extraction and
// validates the response against kind's schema.
func (g *Gemini) ExtractStructured(ctx context.Context, text string, kind models.SchemaKind) (*StructuredRecord, error) {
	prompt := extractionPrompt(boundInput(text, g.cfg.MaxInputBytes), kind)
	raw, err := g.generate(ctx, prompt, g.cfg.ExtractionTemp)
	if err != nil {
		return nil, err
	}
	record, err := decodeStructured(raw, kind)
	if err != nil {
		return nil, err
	}
	record.Mode = ModeDeterministic
	return record, nil
}

// GenerateText runs a generative (higher temperature) call and returns the
// raw text. Callers decode and validate the payload themselves.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, boundInput(prompt, g.cfg.MaxInputBytes), g.cfg.GenerationTemp)
}

func (g *Gemini) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	g.logger.Debug("adapter request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Float32("temperature", temperature),
		zap.String("prompt_preview", utils.Truncate(prompt, previewLen)),
	)

	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(temperature)}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("adapter returned empty response")
	}

	g.logger.Debug("adapter response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.Truncate(output, previewLen)),
	)
	return output, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	if g == nil {
		return ""
	}
	return g.cfg.Model
}
