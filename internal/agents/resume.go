package agents

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed prompts/resume_parse.md
var resumeParsePrompt string

// unparsedResumeSummary marks a degraded ParsedResume.
const unparsedResumeSummary = "Unable to parse resume"

// ParsedResume is the structured form of a resume.
type ParsedResume struct {
	Name           Text             `json:"name"`
	Email          Text             `json:"email"`
	Phone          Text             `json:"phone"`
	Address        Text             `json:"address,omitempty"`
	LinkedIn       Text             `json:"linkedin,omitempty"`
	GitHub         Text             `json:"github,omitempty"`
	Portfolio      Text             `json:"portfolio,omitempty"`
	Skills         Skills           `json:"skills"`
	Experience     []WorkExperience `json:"experience"`
	Projects       []Project        `json:"projects,omitempty"`
	Education      []Education      `json:"education"`
	Certifications []Certification  `json:"certifications,omitempty"`
	Awards         []Award          `json:"awards,omitempty"`
	Languages      []LanguageSkill  `json:"languages,omitempty"`
	VolunteerWork  []VolunteerWork  `json:"volunteerWork,omitempty"`
	Publications   Strings          `json:"publications,omitempty"`
	Patents        Strings          `json:"patents,omitempty"`
	Summary        Text             `json:"summary,omitempty"`
	OtherSections  map[string]any   `json:"otherSections,omitempty"`
	RawText        Text             `json:"rawText,omitempty"`
}

// SkillsDetail groups skills by kind.
type SkillsDetail struct {
	Technical  Strings `json:"technical,omitempty"`
	Soft       Strings `json:"soft,omitempty"`
	Languages  Strings `json:"languages,omitempty"`
	Tools      Strings `json:"tools,omitempty"`
	Frameworks Strings `json:"frameworks,omitempty"`
	Other      Strings `json:"other,omitempty"`
}

// Skills is a flat list or a grouped record.
type Skills = ListOr[SkillsDetail]

type WorkExperience struct {
	Company      Text    `json:"company"`
	Role         Text    `json:"role"`
	Location     Text    `json:"location,omitempty"`
	StartDate    Text    `json:"startDate,omitempty"`
	EndDate      Text    `json:"endDate,omitempty"`
	Duration     Text    `json:"duration"`
	Description  Text    `json:"description,omitempty"`
	Achievements Strings `json:"achievements,omitempty"`
	Technologies Strings `json:"technologies,omitempty"`
}

type Project struct {
	Name         Text    `json:"name"`
	Role         Text    `json:"role,omitempty"`
	Date         Text    `json:"date,omitempty"`
	Description  Text    `json:"description,omitempty"`
	Technologies Strings `json:"technologies,omitempty"`
	Link         Text    `json:"link,omitempty"`
}

type Education struct {
	Institution  Text    `json:"institution"`
	Degree       Text    `json:"degree"`
	Field        Text    `json:"field,omitempty"`
	StartDate    Text    `json:"startDate,omitempty"`
	EndDate      Text    `json:"endDate,omitempty"`
	Year         Text    `json:"year"`
	GPA          Text    `json:"gpa,omitempty"`
	Achievements Strings `json:"achievements,omitempty"`
	Coursework   Strings `json:"coursework,omitempty"`
}

type Certification struct {
	Name         Text `json:"name"`
	Issuer       Text `json:"issuer,omitempty"`
	Date         Text `json:"date,omitempty"`
	ExpiryDate   Text `json:"expiryDate,omitempty"`
	CredentialID Text `json:"credentialId,omitempty"`
}

type Award struct {
	Name        Text `json:"name"`
	Issuer      Text `json:"issuer,omitempty"`
	Date        Text `json:"date,omitempty"`
	Description Text `json:"description,omitempty"`
}

type LanguageSkill struct {
	Language    Text `json:"language"`
	Proficiency Text `json:"proficiency,omitempty"`
}

type VolunteerWork struct {
	Organization Text `json:"organization"`
	Role         Text `json:"role,omitempty"`
	Duration     Text `json:"duration,omitempty"`
	Description  Text `json:"description,omitempty"`
}

// Degraded reports whether the record is the default produced for an
// unusable reply.
func (r ParsedResume) Degraded() bool {
	return r.Summary == unparsedResumeSummary && r.Name == "" && len(r.Experience) == 0
}

// ResumeInput is the resume text to parse.
type ResumeInput struct {
	Text string
}

type resumeDefinition struct{}

func (resumeDefinition) Name() string         { return "ResumeParseAgent" }
func (resumeDefinition) Instructions() string { return resumeParsePrompt }

func (resumeDefinition) FormatInput(in ResumeInput) string {
	return "## Resume Text:\n" + in.Text + "\n\nPlease parse this resume and extract structured information."
}

func (resumeDefinition) ParseOutput(_ string, in ResumeInput) ParsedResume {
	return ParsedResume{
		Experience: []WorkExperience{},
		Education:  []Education{},
		Summary:    unparsedResumeSummary,
		RawText:    Text(in.Text),
	}
}

// ResumeParser turns resume text into ParsedResume.
type ResumeParser struct {
	runner *Runner
}

func NewResumeParser(runner *Runner) *ResumeParser {
	return &ResumeParser{runner: runner}
}

// Parse sends no language directive: names, dates and verbatim bullets keep
// the resume's own language.
func (p *ResumeParser) Parse(ctx context.Context, text, correlationID string) (*ParsedResume, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	in := ResumeInput{Text: text}
	resume, err := ExecuteJSON[ResumeInput, ParsedResume](ctx, p.runner, resumeDefinition{}, in, Call{
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	if resume.Experience == nil {
		resume.Experience = []WorkExperience{}
	}
	if resume.Education == nil {
		resume.Education = []Education{}
	}
	resume.RawText = Text(text)

	return &resume, nil
}
