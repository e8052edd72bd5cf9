package adapter

import (
	"fmt"
	"strings"

	"github.com/jobtailor/jobtailor/internal/models"
)

const resumePrompt = `Extract structured data from this resume.
Return ONLY a JSON object with this shape:
{
  "name": "candidate name if present",
  "summary": "one-sentence professional summary",
  "skills": ["skill", ...],
  "years_of_experience": 5,
  "seniority": "junior|mid|senior|lead if inferable",
  "degree": "highest degree if mentioned",
  "sections": ["section headings in order"]
}

Resume:
%s`

const jobPrompt = `Extract structured data from this job posting.
Return ONLY a JSON object with this shape:
{
  "company": "company name if mentioned",
  "title": "job title",
  "required_skills": ["skill", ...],
  "nice_to_have_skills": ["skill", ...],
  "keywords": ["notable terms a screening system would look for"],
  "min_years_of_experience": 3,
  "seniority": "junior|mid|senior|lead if mentioned",
  "required_degree": "degree requirement if mentioned"
}

Job posting:
%s`

// extractionPrompt builds the deterministic extraction prompt for kind.
func extractionPrompt(text string, kind models.SchemaKind) string {
	if kind == models.SchemaJob {
		return fmt.Sprintf(jobPrompt, text)
	}
	return fmt.Sprintf(resumePrompt, text)
}

// TailoringPrompt builds the generative rewrite prompt from the source
// resume, the job posting and the caller's options.
func TailoringPrompt(resumeText, jobText string, analysis *models.MatchAnalysis, opts *models.TailoringOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite this resume to better match the job posting below. Rewriting level: %s. Tone: %s.\n",
		opts.Aggressiveness, opts.Tone)
	if len(opts.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Prioritize these sections: %s.\n", strings.Join(opts.FocusAreas, ", "))
	}
	if len(opts.PreserveSections) > 0 {
		fmt.Fprintf(&b, "Do NOT alter these sections: %s.\n", strings.Join(opts.PreserveSections, ", "))
	}
	if len(opts.TargetKeywords) > 0 {
		fmt.Fprintf(&b, "Surface these terms where truthful: %s.\n", strings.Join(opts.TargetKeywords, ", "))
	}
	if analysis != nil && len(analysis.MissingSkills) > 0 {
		fmt.Fprintf(&b, "The resume currently lacks: %s. Work them in only where the experience supports it.\n",
			strings.Join(analysis.MissingSkills, ", "))
	}
	b.WriteString(`Never invent experience the candidate does not have.
Return ONLY a JSON object with this shape:
{
  "content": "the full rewritten resume text",
  "changes": [{"section": "...", "original": "...", "modified": "...", "reason": "..."}],
  "keywords_added": ["term", ...],
  "improvements": ["short note", ...]
}

`)
	fmt.Fprintf(&b, "Resume:\n%s\n\nJob posting:\n%s\n", resumeText, jobText)
	return b.String()
}

// InsightsPrompt builds the generative prompt for qualitative
// recommendations from aggregated metrics.
func InsightsPrompt(metricsJSON, recentJSON string) string {
	return fmt.Sprintf(`You are a job-search coach. Given these aggregated application
metrics and recent applications, return a JSON array of 3-5 short,
actionable recommendation strings. Return ONLY the JSON array.

Metrics:
%s

Recent applications:
%s`, metricsJSON, recentJSON)
}
