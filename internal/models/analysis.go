package models

import "time"

// MatchAnalysis holds the multi-dimensional match score between one resume
// and one job description. At most one current analysis exists per
// (resume_id, job_id) pair; re-analysis replaces it.
type MatchAnalysis struct {
	ID              string    `json:"id" db:"id"`
	ResumeID        string    `json:"resume_id" db:"resume_id"`
	JobID           string    `json:"job_id" db:"job_id"`
	OverallScore    float64   `json:"overall_score" db:"overall_score"`
	SkillsMatch     float64   `json:"skills_match" db:"skills_match"`
	ExperienceMatch float64   `json:"experience_match" db:"experience_match"`
	EducationMatch  float64   `json:"education_match" db:"education_match"`
	KeywordDensity  float64   `json:"keyword_density" db:"keyword_density"`
	MatchingSkills  []string  `json:"matching_skills" db:"matching_skills"`
	MissingSkills   []string  `json:"missing_skills" db:"missing_skills"`
	Strengths       []string  `json:"strengths,omitempty" db:"strengths"`
	Improvements    []string  `json:"improvements,omitempty" db:"improvements"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// SectionChange is one entry in a tailoring result's ordered change list.
type SectionChange struct {
	Section  string `json:"section"`
	Original string `json:"original"`
	Modified string `json:"modified"`
	Reason   string `json:"reason"`
}

// TailoringResult is the immutable output of one tailoring invocation.
type TailoringResult struct {
	ID              string          `json:"id" db:"id"`
	SourceResumeID  string          `json:"source_resume_id" db:"source_resume_id"`
	JobID           string          `json:"job_id" db:"job_id"`
	TailoredContent string          `json:"tailored_content" db:"tailored_content"`
	Changes         []SectionChange `json:"changes" db:"changes"`
	MatchScore      float64         `json:"match_score" db:"match_score"`
	KeywordsAdded   []string        `json:"keywords_added" db:"keywords_added"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
