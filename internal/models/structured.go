package models

// SchemaKind selects which structured shape an extraction must produce.
type SchemaKind string

const (
	SchemaResume SchemaKind = "resume"
	SchemaJob    SchemaKind = "job"
)

// StructuredResume is the adapter's structured view of a resume.
type StructuredResume struct {
	Name       string   `json:"name,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Skills     []string `json:"skills"`
	YearsOfExp *float64 `json:"years_of_experience,omitempty"`
	Seniority  string   `json:"seniority,omitempty"`
	Degree     string   `json:"degree,omitempty"`
	Sections   []string `json:"sections,omitempty"`
}

// StructuredJob is the adapter's structured view of a job posting.
type StructuredJob struct {
	Company        string   `json:"company,omitempty"`
	Title          string   `json:"title,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	NiceToHave     []string `json:"nice_to_have_skills,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	MinYearsOfExp  *float64 `json:"min_years_of_experience,omitempty"`
	Seniority      string   `json:"seniority,omitempty"`
	Degree         string   `json:"required_degree,omitempty"`
}

// TailoredDraft is the adapter's generative output for one tailoring run.
type TailoredDraft struct {
	Content       string          `json:"content"`
	Changes       []SectionChange `json:"changes"`
	KeywordsAdded []string        `json:"keywords_added"`
	Improvements  []string        `json:"improvements,omitempty"`
}
