package agents

import (
	"context"
	_ "embed"
	"strings"
)

//go:embed prompts/evaluation.md
var evaluationPrompt string

// Hiring recommendations on the five-point scale.
const (
	StrongHire   = "Strong Hire"
	Hire         = "Hire"
	Maybe        = "Maybe"
	NoHire       = "No Hire"
	StrongNoHire = "Strong No Hire"

	unevaluated = "Unable to evaluate"
)

var recommendationScale = []string{StrongHire, Hire, Maybe, NoHire, StrongNoHire}

// InterviewEvaluation is the rubric produced for one interview transcript.
type InterviewEvaluation struct {
	OverallScore         Score   `json:"overallScore"`
	TechnicalScore       Score   `json:"technicalScore"`
	CommunicationScore   Score   `json:"communicationScore"`
	CultureFitScore      Score   `json:"cultureFitScore"`
	Strengths            Strings `json:"strengths"`
	Weaknesses           Strings `json:"weaknesses"`
	KeyInsights          Strings `json:"keyInsights"`
	HiringRecommendation string  `json:"hiringRecommendation"`
	SuggestedFollowUp    Strings `json:"suggestedFollowUp"`
}

// EvaluationInput is the material an interview is judged on.
type EvaluationInput struct {
	Resume     string
	JD         string
	Transcript string
}

type evaluationDefinition struct{}

func (evaluationDefinition) Name() string         { return "EvaluationAgent" }
func (evaluationDefinition) Instructions() string { return evaluationPrompt }

func (evaluationDefinition) FormatInput(in EvaluationInput) string {
	return "## Candidate's Resume:\n" + in.Resume +
		"\n\n## Job Description:\n" + in.JD +
		"\n\n## Interview Transcript:\n" + in.Transcript +
		"\n\nPlease evaluate this candidate's interview performance."
}

func (evaluationDefinition) ParseOutput(string, EvaluationInput) InterviewEvaluation {
	return InterviewEvaluation{
		KeyInsights:          Strings{"Unable to parse evaluation"},
		HiringRecommendation: unevaluated,
	}
}

// InterviewEvaluator scores interview transcripts.
type InterviewEvaluator struct {
	runner *Runner
}

func NewInterviewEvaluator(runner *Runner) *InterviewEvaluator {
	return &InterviewEvaluator{runner: runner}
}

// Evaluate replies in the language of the job description. The transcript
// is required; resume and job description give context.
func (e *InterviewEvaluator) Evaluate(ctx context.Context, resume, jd, transcript, correlationID string) (*InterviewEvaluation, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, ErrInvalidInput
	}

	in := EvaluationInput{Resume: resume, JD: jd, Transcript: transcript}
	eval, err := ExecuteJSON[EvaluationInput, InterviewEvaluation](ctx, e.runner, evaluationDefinition{}, in, Call{
		LocaleSource:  jd,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	eval.HiringRecommendation = canonicalRecommendation(eval.HiringRecommendation)
	return &eval, nil
}

// canonicalRecommendation maps the model's wording onto the five-point
// scale. Unrecognised values are kept as sent.
func canonicalRecommendation(rec string) string {
	normalized := strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(rec)), " ")
	if normalized == "" {
		return unevaluated
	}

	for _, candidate := range recommendationScale {
		if strings.EqualFold(normalized, candidate) {
			return candidate
		}
	}

	return strings.TrimSpace(rec)
}
