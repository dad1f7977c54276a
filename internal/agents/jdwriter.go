package agents

import (
	"context"
	_ "embed"
	"regexp"
	"strings"

	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/utils"
)

var (
	//go:embed prompts/jd_writer.md
	jdWriterPrompt string
	//go:embed prompts/title.md
	titlePrompt string
)

const (
	maxWriterRequirementsChars = 4000
	maxWriterJDChars           = 6000
	maxTitleInputChars         = 3000

	jdWriterTemperature = 0.4
	titleTemperature    = 0.2

	// DefaultTitle is suggested when neither the model nor the caller
	// provides a usable title.
	DefaultTitle = "New Hiring Request"
)

// DraftRequest describes the job description to write. Title doubles as the
// role for title suggestions.
type DraftRequest struct {
	Title          string `json:"title,omitempty"`
	Requirements   string `json:"requirements,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
	Language       string `json:"language,omitempty"`
	CorrelationID  string `json:"-"`
}

func (r DraftRequest) trimmed() DraftRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.Requirements = strings.TrimSpace(r.Requirements)
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.Language = strings.TrimSpace(r.Language)
	return r
}

func (r DraftRequest) empty() bool {
	return r.Title == "" && r.Requirements == "" && r.JobDescription == ""
}

// languageSource is the existing job description, else the requirements,
// else the title.
func (r DraftRequest) languageSource() string {
	for _, s := range []string{r.JobDescription, r.Requirements, r.Title} {
		if s != "" {
			return s
		}
	}
	return ""
}

type jdWriterDefinition struct{}

func (jdWriterDefinition) Name() string         { return "CreateJDAgent" }
func (jdWriterDefinition) Instructions() string { return jdWriterPrompt }

func (jdWriterDefinition) FormatInput(in DraftRequest) string {
	var parts []string
	if in.Title != "" {
		parts = append(parts, "Title: "+in.Title)
	}
	if in.Requirements != "" {
		parts = append(parts, "Requirements and context:\n"+utils.Head(in.Requirements, maxWriterRequirementsChars))
	}
	if in.JobDescription != "" {
		parts = append(parts, "Existing JD (revise and improve):\n"+utils.Head(in.JobDescription, maxWriterJDChars))
	}
	return strings.Join(parts, "\n\n")
}

var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n(.*?)\\n?```$")

func (jdWriterDefinition) ParseOutput(raw string, _ DraftRequest) string {
	out := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(out); m != nil {
		out = strings.TrimSpace(m[1])
	}
	return out
}

// JDWriter drafts Markdown job descriptions.
type JDWriter struct {
	runner *Runner
}

func NewJDWriter(runner *Runner) *JDWriter {
	return &JDWriter{runner: runner}
}

// Write returns Markdown. An explicit language wins over detection.
func (w *JDWriter) Write(ctx context.Context, req DraftRequest) (string, error) {
	req = req.trimmed()
	if req.empty() {
		return "", ErrInvalidInput
	}

	return Execute[DraftRequest, string](ctx, w.runner, jdWriterDefinition{}, req, Call{
		Locale:        req.Language,
		LocaleSource:  req.languageSource(),
		CorrelationID: req.CorrelationID,
		Temperature:   ai.Temperature(jdWriterTemperature),
	})
}

type titleDefinition struct{}

func (titleDefinition) Name() string         { return "TitleSuggestAgent" }
func (titleDefinition) Instructions() string { return titlePrompt }

func (titleDefinition) FormatInput(in DraftRequest) string {
	var parts []string
	if in.Title != "" {
		parts = append(parts, "Role: "+in.Title)
	}
	if in.Requirements != "" {
		parts = append(parts, "Requirements:\n"+utils.Head(in.Requirements, maxTitleInputChars))
	}
	if in.JobDescription != "" {
		parts = append(parts, "Job description:\n"+utils.Head(in.JobDescription, maxTitleInputChars))
	}
	return strings.Join(parts, "\n\n")
}

var listPrefix = regexp.MustCompile(`^[-*•\d.\s]+`)

func (titleDefinition) ParseOutput(raw string, in DraftRequest) string {
	return cleanTitle(raw, in.Title)
}

func cleanTitle(raw, role string) string {
	var title string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			title = line
			break
		}
	}

	title = strings.TrimSpace(listPrefix.ReplaceAllString(title, ""))
	title = strings.TrimSpace(strings.Trim(title, "\"'`"))

	switch {
	case title != "":
		return title
	case strings.TrimSpace(role) != "":
		return strings.TrimSpace(role)
	default:
		return DefaultTitle
	}
}

// TitleSuggester proposes a short job title for a hiring request.
type TitleSuggester struct {
	runner *Runner
}

func NewTitleSuggester(runner *Runner) *TitleSuggester {
	return &TitleSuggester{runner: runner}
}

func (s *TitleSuggester) Suggest(ctx context.Context, req DraftRequest) (string, error) {
	req = req.trimmed()
	if req.empty() {
		return "", ErrInvalidInput
	}

	return Execute[DraftRequest, string](ctx, s.runner, titleDefinition{}, req, Call{
		Locale:        req.Language,
		LocaleSource:  req.languageSource(),
		StateLanguage: true,
		CorrelationID: req.CorrelationID,
		Temperature:   ai.Temperature(titleTemperature),
	})
}
