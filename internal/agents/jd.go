package agents

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed prompts/jd_parse.md
var jdParsePrompt string

// ParsedJD is the structured form of a job description. Lists keep the source
// wording of every bullet.
type ParsedJD struct {
	Title              Text           `json:"title"`
	Company            Text           `json:"company"`
	CompanyDescription Text           `json:"companyDescription,omitempty"`
	Team               Text           `json:"team,omitempty"`
	Location           Text           `json:"location"`
	WorkType           Text           `json:"workType,omitempty"`
	EmploymentType     Text           `json:"employmentType,omitempty"`
	ExperienceLevel    Text           `json:"experienceLevel,omitempty"`
	JobOverview        Text           `json:"jobOverview,omitempty"`
	Requirements       Requirements   `json:"requirements"`
	Responsibilities   Strings        `json:"responsibilities"`
	Qualifications     Qualifications `json:"qualifications"`
	Benefits           Strings        `json:"benefits"`
	Compensation       *Compensation  `json:"compensation,omitempty"`
	Salary             Text           `json:"salary,omitempty"`
	ApplicationProcess Text           `json:"applicationProcess,omitempty"`
	Deadline           Text           `json:"deadline,omitempty"`
	ContactInfo        Text           `json:"contactInfo,omitempty"`
	AdditionalInfo     map[string]any `json:"additionalInfo,omitempty"`
	RawText            Text           `json:"rawText,omitempty"`

	degraded bool
}

// RequirementsDetail splits requirements by priority.
type RequirementsDetail struct {
	MustHave   Strings `json:"mustHave,omitempty"`
	NiceToHave Strings `json:"niceToHave,omitempty"`
}

// Requirements is a flat list or a must-have / nice-to-have split.
type Requirements = ListOr[RequirementsDetail]

// QualificationsDetail groups qualifications by kind.
type QualificationsDetail struct {
	Education      Strings              `json:"education,omitempty"`
	Certifications Strings              `json:"certifications,omitempty"`
	Experience     Strings              `json:"experience,omitempty"`
	Skills         *QualificationSkills `json:"skills,omitempty"`
}

type QualificationSkills struct {
	Technical Strings `json:"technical,omitempty"`
	Soft      Strings `json:"soft,omitempty"`
	Tools     Strings `json:"tools,omitempty"`
	Languages Strings `json:"languages,omitempty"`
}

// Qualifications is a flat list or a grouped record.
type Qualifications = ListOr[QualificationsDetail]

type Compensation struct {
	Salary Text `json:"salary,omitempty"`
	Bonus  Text `json:"bonus,omitempty"`
	Equity Text `json:"equity,omitempty"`
	Other  Text `json:"other,omitempty"`
}

// Degraded reports whether the record is the default produced for an
// unusable reply.
func (jd ParsedJD) Degraded() bool {
	return jd.degraded
}

// MustHaves returns the required items whichever shape the model used.
func (jd ParsedJD) MustHaves() []string {
	if jd.Requirements.Detail != nil {
		return jd.Requirements.Detail.MustHave
	}
	return jd.Requirements.List
}

// JDInput is the job description text to parse.
type JDInput struct {
	Text string
}

type jdDefinition struct{}

func (jdDefinition) Name() string         { return "JDParseAgent" }
func (jdDefinition) Instructions() string { return jdParsePrompt }

func (jdDefinition) FormatInput(in JDInput) string {
	return "## Job Description Text:\n" + in.Text + "\n\nPlease parse this job description and extract structured information."
}

func (jdDefinition) ParseOutput(_ string, in JDInput) ParsedJD {
	return ParsedJD{
		Responsibilities: []string{},
		Benefits:         []string{},
		RawText:          Text(in.Text),
		degraded:         true,
	}
}

// JDParser turns job description text into ParsedJD.
type JDParser struct {
	runner *Runner
}

func NewJDParser(runner *Runner) *JDParser {
	return &JDParser{runner: runner}
}

// Parse replies in the language of the job description. RawText always holds
// the caller's text, including when the reply was unusable.
func (p *JDParser) Parse(ctx context.Context, text, correlationID string) (*ParsedJD, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	in := JDInput{Text: text}
	jd, err := ExecuteJSON[JDInput, ParsedJD](ctx, p.runner, jdDefinition{}, in, Call{
		LocaleSource:  text,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	jd.Responsibilities = orEmpty(jd.Responsibilities)
	jd.Benefits = orEmpty(jd.Benefits)
	jd.RawText = Text(text)

	return &jd, nil
}
