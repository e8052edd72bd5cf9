// Package scoring computes the multi-dimensional match score between a
// structured resume and a structured job. All functions are pure and
// independent of the extraction adapter.
package scoring

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jobtailor/jobtailor/internal/errs"
	"github.com/jobtailor/jobtailor/internal/models"
	"github.com/jobtailor/jobtailor/pkg/utils"
)

// Sub-score weights for the overall score. Fixed named constants so the
// computation is deterministic and unit-testable; they must sum to 1.
const (
	WeightSkills     = 0.40
	WeightExperience = 0.25
	WeightEducation  = 0.15
	WeightKeywords   = 0.20
)

// neutralScore is returned when a comparison has no data on either side.
const neutralScore = 50.0

// degreeRank orders degree levels for the education comparison.
var degreeRank = map[string]int{
	"high school": 1,
	"highschool":  1,
	"diploma":     1,
	"associate":   2,
	"bachelor":    3,
	"bachelors":   3,
	"bsc":         3,
	"master":      4,
	"masters":     4,
	"msc":         4,
	"mba":         4,
	"phd":         5,
	"doctorate":   5,
}

// Result holds the computed MatchAnalysis fields.
type Result struct {
	OverallScore    float64
	SkillsMatch     float64
	ExperienceMatch float64
	EducationMatch  float64
	KeywordDensity  float64
	MatchingSkills  []string
	MissingSkills   []string
	Strengths       []string
	Improvements    []string
}

// Score compares a structured resume against a structured job. resumeText
// is the raw resume text used for keyword density. Returns a validation
// error when either record is missing; it never scores against an absent
// record as if it were empty.
func Score(resume *models.StructuredResume, resumeText string, job *models.StructuredJob) (*Result, error) {
	if resume == nil {
		return nil, errs.Validation("structured resume record is required")
	}
	if job == nil {
		return nil, errs.Validation("structured job record is required")
	}

	res := &Result{}
	res.SkillsMatch, res.MatchingSkills, res.MissingSkills = scoreSkills(resume.Skills, job.RequiredSkills)
	res.ExperienceMatch = scoreExperience(resume, job)
	res.EducationMatch = scoreEducation(resume.Degree, job.Degree)
	res.KeywordDensity = scoreKeywordDensity(resumeText, job)

	res.OverallScore = utils.Clamp(
		WeightSkills*res.SkillsMatch+
			WeightExperience*res.ExperienceMatch+
			WeightEducation*res.EducationMatch+
			WeightKeywords*res.KeywordDensity,
		0, 100)

	res.Strengths, res.Improvements = narrate(res, job)
	return res, nil
}

// scoreSkills returns the coverage of the job's required skills by the
// resume's skills, plus the deduplicated intersection and difference. An
// empty requirement set is vacuously satisfied.
func scoreSkills(resumeSkills, required []string) (float64, []string, []string) {
	// Folded form -> first-seen display form from the job posting.
	display := make(map[string]string, len(required))
	requiredSet := mapset.NewSet[string]()
	for _, s := range required {
		f := fold(s)
		if f == "" {
			continue
		}
		if _, seen := display[f]; !seen {
			display[f] = s
		}
		requiredSet.Add(f)
	}
	if requiredSet.Cardinality() == 0 {
		return 100, []string{}, []string{}
	}

	haveSet := mapset.NewSet[string]()
	for _, s := range resumeSkills {
		if f := fold(s); f != "" {
			haveSet.Add(f)
		}
	}

	matched := requiredSet.Intersect(haveSet)
	missing := requiredSet.Difference(haveSet)

	score := 100 * float64(matched.Cardinality()) / float64(requiredSet.Cardinality())
	return utils.Clamp(score, 0, 100), displayNames(matched, display), displayNames(missing, display)
}

func displayNames(set mapset.Set[string], display map[string]string) []string {
	names := make([]string, 0, set.Cardinality())
	for f := range set.Iter() {
		names = append(names, display[f])
	}
	sort.Strings(names)
	return names
}

// scoreExperience compares years of experience against the job's minimum.
// Degrades to a neutral score when either side is absent.
func scoreExperience(resume *models.StructuredResume, job *models.StructuredJob) float64 {
	if resume.YearsOfExp == nil || job.MinYearsOfExp == nil {
		return neutralScore
	}
	min := *job.MinYearsOfExp
	if min <= 0 {
		return 100
	}
	return utils.Clamp(100*(*resume.YearsOfExp)/min, 0, 100)
}

// scoreEducation compares degree levels. Unranked or absent degrees on
// either side degrade to a neutral score; meeting or exceeding the
// requirement scores full marks, each level short costs 30 points.
func scoreEducation(resumeDegree, jobDegree string) float64 {
	jobRank, ok := degreeRank[fold(jobDegree)]
	if !ok {
		return neutralScore
	}
	resumeRank, ok := degreeRank[fold(resumeDegree)]
	if !ok {
		return neutralScore
	}
	if resumeRank >= jobRank {
		return 100
	}
	return utils.Clamp(100-30*float64(jobRank-resumeRank), 0, 100)
}

// scoreKeywordDensity measures the fraction of job keywords that appear in
// the resume text, case-insensitive and word-boundary matched. Falls back
// to the required skill list when the job has no explicit keywords.
func scoreKeywordDensity(resumeText string, job *models.StructuredJob) float64 {
	keywords := job.Keywords
	if len(keywords) == 0 {
		keywords = job.RequiredSkills
	}
	seen := mapset.NewSet[string]()
	for _, k := range keywords {
		if f := fold(k); f != "" {
			seen.Add(f)
		}
	}
	if seen.Cardinality() == 0 {
		return 100
	}

	tokens := tokenize(resumeText)
	hits := 0
	for k := range seen.Iter() {
		if containsKeyword(tokens, k) {
			hits++
		}
	}
	return utils.Clamp(100*float64(hits)/float64(seen.Cardinality()), 0, 100)
}

// narrate derives short free-text strengths and improvement notes from the
// sub-scores.
func narrate(res *Result, job *models.StructuredJob) (strengths, improvements []string) {
	strengths = []string{}
	improvements = []string{}

	total := len(res.MatchingSkills) + len(res.MissingSkills)
	if total > 0 && res.SkillsMatch >= 70 {
		strengths = append(strengths, fmt.Sprintf("Covers %d of %d required skills", len(res.MatchingSkills), total))
	}
	if res.ExperienceMatch >= 90 {
		strengths = append(strengths, "Experience meets the posting's requirement")
	}
	if res.EducationMatch >= 90 {
		strengths = append(strengths, "Education meets the posting's requirement")
	}
	if res.KeywordDensity >= 70 {
		strengths = append(strengths, "Resume already speaks the posting's language")
	}

	if len(res.MissingSkills) > 0 {
		improvements = append(improvements, fmt.Sprintf("Address missing skills: %d not found in resume", len(res.MissingSkills)))
	}
	if res.KeywordDensity < 50 {
		improvements = append(improvements, "Surface more of the posting's keywords where truthful")
	}
	if res.ExperienceMatch < 50 && job.MinYearsOfExp != nil {
		improvements = append(improvements, "Highlight depth of experience relevant to this role")
	}
	return strengths, improvements
}
