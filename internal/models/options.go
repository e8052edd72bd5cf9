package models

// Aggressiveness controls how much rewriting a tailoring run requests.
type Aggressiveness string

const (
	AggressivenessConservative Aggressiveness = "conservative"
	AggressivenessModerate     Aggressiveness = "moderate"
	AggressivenessAggressive   Aggressiveness = "aggressive"
)

// Tone selects the writing style for generated content.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCreative     Tone = "creative"
	ToneTechnical    Tone = "technical"
)

// TailoringOptions configures a tailoring run. Zero values fall back to
// moderate aggressiveness and professional tone.
type TailoringOptions struct {
	Aggressiveness   Aggressiveness `json:"aggressiveness,omitempty"`
	FocusAreas       []string       `json:"focus_areas,omitempty"`
	PreserveSections []string       `json:"preserve_sections,omitempty"`
	TargetKeywords   []string       `json:"target_keywords,omitempty"`
	Tone             Tone           `json:"tone,omitempty"`
}

// Normalize fills defaults and reports whether the recognized enum fields
// hold valid values.
func (o *TailoringOptions) Normalize() bool {
	if o.Aggressiveness == "" {
		o.Aggressiveness = AggressivenessModerate
	}
	if o.Tone == "" {
		o.Tone = ToneProfessional
	}
	switch o.Aggressiveness {
	case AggressivenessConservative, AggressivenessModerate, AggressivenessAggressive:
	default:
		return false
	}
	switch o.Tone {
	case ToneProfessional, ToneCreative, ToneTechnical:
	default:
		return false
	}
	return true
}
