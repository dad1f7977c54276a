package agents

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/language"
	"github.com/spigell/hire-agent/internal/logger"
	"github.com/spigell/hire-agent/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompts/consultant.md
var consultantPromptTemplate string

// ActionMarker is the literal line the model appends when the user confirms
// the hiring brief.
const ActionMarker = "[[ACTION:CREATE_REQUEST]]"

// ActionCreateRequest is reported when the reply carried ActionMarker.
const ActionCreateRequest = "create_request"

const (
	maxHistoryMessages = 16
	maxContextJDChars  = 6000

	consultantTemperature = 0.6
)

var consultantPrompt = strings.ReplaceAll(consultantPromptTemplate, "{{ACTION_MARKER}}", ActionMarker)

// ConsultantContext holds optional hints about the hiring request.
type ConsultantContext struct {
	Role           string   `json:"role,omitempty" mapstructure:"role"`
	Seniority      string   `json:"seniority,omitempty" mapstructure:"seniority"`
	Industry       string   `json:"industry,omitempty" mapstructure:"industry"`
	Location       string   `json:"location,omitempty" mapstructure:"location"`
	EmploymentType string   `json:"employmentType,omitempty" mapstructure:"employmentType"`
	TeamContext    string   `json:"teamContext,omitempty" mapstructure:"teamContext"`
	CompanyStage   string   `json:"companyStage,omitempty" mapstructure:"companyStage"`
	Compensation   string   `json:"compensation,omitempty" mapstructure:"compensation"`
	MustHaves      []string `json:"mustHaves,omitempty" mapstructure:"mustHaves"`
	NiceToHaves    []string `json:"niceToHaves,omitempty" mapstructure:"niceToHaves"`
	JobDescription string   `json:"jobDescription,omitempty" mapstructure:"jobDescription"`
	Language       string   `json:"language,omitempty" mapstructure:"language"`
}

// DecodeConsultantContext reads a loosely typed context object as sent by
// HTTP clients. Keys may be camelCase or snake_case and list fields may be a
// comma-separated string.
func DecodeConsultantContext(raw map[string]any) (ConsultantContext, error) {
	var out ConsultantContext
	if len(raw) == 0 {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		MatchName:        matchContextKey,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}

	if err := decoder.Decode(raw); err != nil {
		return out, fmt.Errorf("%w: context: %v", ErrInvalidInput, err)
	}

	out.MustHaves = compact(out.MustHaves)
	out.NiceToHaves = compact(out.NiceToHaves)

	return out, nil
}

func matchContextKey(key, field string) bool {
	strip := strings.NewReplacer("_", "", "-", "")
	return strings.EqualFold(strip.Replace(key), strip.Replace(field))
}

func compact(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// lines renders each present hint as one labeled line.
func (c ConsultantContext) lines() []string {
	var lines []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	add("Role", c.Role)
	add("Seniority", c.Seniority)
	add("Industry", c.Industry)
	add("Location", c.Location)
	add("Employment type", c.EmploymentType)
	add("Team context", c.TeamContext)
	add("Company stage", c.CompanyStage)
	add("Compensation", c.Compensation)
	if len(c.MustHaves) > 0 {
		add("Must-haves", strings.Join(c.MustHaves, ", "))
	}
	if len(c.NiceToHaves) > 0 {
		add("Nice-to-haves", strings.Join(c.NiceToHaves, ", "))
	}
	if jd := strings.TrimSpace(c.JobDescription); jd != "" {
		lines = append(lines, "Job Description:\n"+jd)
	}

	return lines
}

// ConsultantInput is one turn of the consultation.
type ConsultantInput struct {
	History       []ai.Message
	Message       string
	Context       ConsultantContext
	CorrelationID string
}

// ConsultantReply is the user-visible answer. Action is empty unless the
// model signalled that the brief is confirmed.
type ConsultantReply struct {
	Reply  string `json:"reply"`
	Action string `json:"action,omitempty"`
}

// Consultant runs the multi-turn hiring brief conversation. The caller owns
// the history.
type Consultant struct {
	runner *Runner
}

func NewConsultant(runner *Runner) *Consultant {
	return &Consultant{runner: runner}
}

func (c *Consultant) Chat(ctx context.Context, in ConsultantInput) (*ConsultantReply, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrInvalidInput
	}

	hints := in.Context
	hints.JobDescription = utils.Head(strings.TrimSpace(hints.JobDescription), maxContextJDChars)

	call := Call{
		Locale:        hints.Language,
		LocaleSource:  hints.JobDescription,
		CorrelationID: in.CorrelationID,
		Temperature:   ai.Temperature(consultantTemperature),
	}
	if call.LocaleSource == "" {
		call.LocaleSource = message
	}

	system, lang := SystemPrompt(consultantPrompt, call)

	source := "auto"
	if _, ok := language.FromLocale(hints.Language); ok {
		source = "user-selected"
	}
	c.runner.logger.Debug("reply language resolved",
		append(logger.RequestFields("RecruitmentConsultantAgent", in.CorrelationID),
			zap.String(logger.FieldLanguage, string(lang)),
			zap.String(logger.FieldLanguageSource, source),
		)...,
	)

	messages := make([]ai.Message, 0, maxHistoryMessages+2)
	messages = append(messages, ai.SystemMessage(system))
	messages = append(messages, boundedHistory(in.History)...)
	messages = append(messages, ai.UserMessage(userTurn(message, hints)))

	return Converse(ctx, c.runner, "RecruitmentConsultantAgent", messages, call, lang, extractAction)
}

// boundedHistory keeps the most recent user and assistant turns.
func boundedHistory(history []ai.Message) []ai.Message {
	kept := make([]ai.Message, 0, len(history))
	for _, m := range history {
		if m.Role == ai.RoleUser || m.Role == ai.RoleAssistant {
			kept = append(kept, m)
		}
	}

	if len(kept) > maxHistoryMessages {
		kept = kept[len(kept)-maxHistoryMessages:]
	}
	return kept
}

func userTurn(message string, hints ConsultantContext) string {
	lines := hints.lines()
	if len(lines) == 0 {
		return message
	}

	return "Context:\n" + strings.Join(lines, "\n") + "\n\nUser message:\n" + message
}

// extractAction strips every occurrence of ActionMarker and reports whether
// there was one.
func extractAction(raw string) *ConsultantReply {
	reply := &ConsultantReply{Reply: strings.TrimSpace(strings.ReplaceAll(raw, ActionMarker, ""))}
	if strings.Contains(raw, ActionMarker) {
		reply.Action = ActionCreateRequest
	}
	return reply
}
