package agents

import (
	"context"
	_ "embed"
	"strings"

	"github.com/spigell/hire-agent/internal/utils"
)

//go:embed prompts/match.md
var matchPrompt string

// Severity values a model attaches to a missing must-have.
const (
	SeverityDealbreaker = "Dealbreaker"
	SeverityCritical    = "Critical"
	SeveritySignificant = "Significant"
)

// Score caps applied when a must-have of the given severity is missing.
const (
	DealbreakerCap Score = 25
	CriticalCap    Score = 45
	SignificantCap Score = 65

	dealbreakerMustHaveCap Score = 20
)

const (
	VerdictNotQualified        = "Not Qualified"
	VerdictUnableToAssess      = "Unable to Assess"
	RecommendationDisqualified = "Disqualified"

	gradeFail             = "F"
	degradedSummaryLength = 500
)

// MatchResult is the full resume-to-job assessment.
type MatchResult struct {
	ResumeAnalysis              ResumeAnalysis              `json:"resumeAnalysis"`
	JDAnalysis                  JDAnalysis                  `json:"jdAnalysis"`
	MustHaveAnalysis            MustHaveAnalysis            `json:"mustHaveAnalysis"`
	NiceToHaveAnalysis          NiceToHaveAnalysis          `json:"niceToHaveAnalysis"`
	SkillMatch                  SkillMatch                  `json:"skillMatch"`
	SkillMatchScore             SkillMatchScore             `json:"skillMatchScore"`
	ExperienceMatch             ExperienceMatch             `json:"experienceMatch"`
	ExperienceValidation        ExperienceValidation        `json:"experienceValidation"`
	CandidatePotential          CandidatePotential          `json:"candidatePotential"`
	OverallMatchScore           OverallMatchScore           `json:"overallMatchScore"`
	OverallFit                  OverallFit                  `json:"overallFit"`
	Recommendations             Recommendations             `json:"recommendations"`
	SuggestedInterviewQuestions SuggestedInterviewQuestions `json:"suggestedInterviewQuestions"`
	AreasToProbeDeeper          []ProbingArea               `json:"areasToProbeDeeper"`

	degraded bool
}

// Degraded reports whether the result is the placeholder for a reply that
// could not be parsed. Its scores say nothing about the candidate.
func (r MatchResult) Degraded() bool {
	return r.degraded || r.OverallFit.Verdict == VerdictUnableToAssess
}

type ResumeAnalysis struct {
	CandidateName        Text    `json:"candidateName"`
	TotalYearsExperience Text    `json:"totalYearsExperience"`
	CurrentRole          Text    `json:"currentRole"`
	TechnicalSkills      Strings `json:"technicalSkills"`
	SoftSkills           Strings `json:"softSkills"`
	Industries           Strings `json:"industries"`
	EducationLevel       Text    `json:"educationLevel"`
	Certifications       Strings `json:"certifications"`
	KeyAchievements      Strings `json:"keyAchievements"`
}

type JDAnalysis struct {
	JobTitle                Text    `json:"jobTitle"`
	SeniorityLevel          Text    `json:"seniorityLevel"`
	RequiredYearsExperience Text    `json:"requiredYearsExperience"`
	MustHaveSkills          Strings `json:"mustHaveSkills"`
	NiceToHaveSkills        Strings `json:"niceToHaveSkills"`
	IndustryFocus           Text    `json:"industryFocus"`
	KeyResponsibilities     Strings `json:"keyResponsibilities"`
}

type MustHaveAnalysis struct {
	ExtractedMustHaves      ExtractedMustHaves `json:"extractedMustHaves"`
	CandidateEvaluation     MustHaveEvaluation `json:"candidateEvaluation"`
	MustHaveScore           Score              `json:"mustHaveScore"`
	Disqualified            Flag               `json:"disqualified"`
	DisqualificationReasons Strings            `json:"disqualificationReasons"`
	GapAnalysis             Text               `json:"gapAnalysis"`
}

type ExtractedMustHaves struct {
	Skills []struct {
		Skill            Text `json:"skill"`
		Reason           Text `json:"reason"`
		ExplicitlyStated Flag `json:"explicitlyStated"`
	} `json:"skills"`
	Experiences []struct {
		Experience   Text `json:"experience"`
		Reason       Text `json:"reason"`
		MinimumYears Text `json:"minimumYears"`
	} `json:"experiences"`
	Qualifications []struct {
		Qualification Text `json:"qualification"`
		Reason        Text `json:"reason"`
	} `json:"qualifications"`
}

type MustHaveEvaluation struct {
	MeetsAllMustHaves     Flag                   `json:"meetsAllMustHaves"`
	MatchedSkills         []MatchedSkill         `json:"matchedSkills"`
	MissingSkills         []MissingSkill         `json:"missingSkills"`
	MatchedExperiences    []MatchedExperience    `json:"matchedExperiences"`
	MissingExperiences    []MissingExperience    `json:"missingExperiences"`
	MatchedQualifications Strings                `json:"matchedQualifications"`
	MissingQualifications []MissingQualification `json:"missingQualifications"`
}

type MatchedSkill struct {
	Skill             Text `json:"skill"`
	CandidateEvidence Text `json:"candidateEvidence"`
	Proficiency       Text `json:"proficiency"`
}

type MissingSkill struct {
	Skill               Text `json:"skill"`
	Severity            Text `json:"severity"`
	CanBeLearnedQuickly Flag `json:"canBeLearnedQuickly"`
	AlternativeEvidence Text `json:"alternativeEvidence"`
}

type MatchedExperience struct {
	Experience        Text `json:"experience"`
	CandidateEvidence Text `json:"candidateEvidence"`
	Exceeds           Flag `json:"exceeds"`
}

type MissingExperience struct {
	Experience   Text `json:"experience"`
	Severity     Text `json:"severity"`
	Gap          Text `json:"gap"`
	PartiallyMet Text `json:"partiallyMet"`
}

type MissingQualification struct {
	Qualification Text `json:"qualification"`
	Severity      Text `json:"severity"`
	Alternative   Text `json:"alternative"`
}

type ValueAdd struct {
	Skill         Text `json:"skill,omitempty"`
	Experience    Text `json:"experience,omitempty"`
	Qualification Text `json:"qualification,omitempty"`
	ValueAdd      Text `json:"valueAdd"`
}

type NiceToHaveAnalysis struct {
	ExtractedNiceToHaves struct {
		Skills         []ValueAdd `json:"skills"`
		Experiences    []ValueAdd `json:"experiences"`
		Qualifications []ValueAdd `json:"qualifications"`
	} `json:"extractedNiceToHaves"`
	CandidateEvaluation struct {
		MatchedSkills         Strings `json:"matchedSkills"`
		MatchedExperiences    Strings `json:"matchedExperiences"`
		MatchedQualifications Strings `json:"matchedQualifications"`
		BonusSkills           Strings `json:"bonusSkills"`
	} `json:"candidateEvaluation"`
	NiceToHaveScore      Score `json:"niceToHaveScore"`
	CompetitiveAdvantage Text  `json:"competitiveAdvantage"`
}

type SkillMatch struct {
	MatchedMustHave []struct {
		Skill              Text `json:"skill"`
		ProficiencyLevel   Text `json:"proficiencyLevel"`
		EvidenceFromResume Text `json:"evidenceFromResume"`
	} `json:"matchedMustHave"`
	MissingMustHave []struct {
		Skill                 Text `json:"skill"`
		Importance            Text `json:"importance"`
		MitigationPossibility Text `json:"mitigationPossibility"`
	} `json:"missingMustHave"`
	MatchedNiceToHave        Strings `json:"matchedNiceToHave"`
	MissingNiceToHave        Strings `json:"missingNiceToHave"`
	AdditionalRelevantSkills Strings `json:"additionalRelevantSkills"`
}

type SkillMatchScore struct {
	Score     Score `json:"score"`
	Breakdown struct {
		MustHaveScore    Score `json:"mustHaveScore"`
		NiceToHaveScore  Score `json:"niceToHaveScore"`
		DepthOfExpertise Score `json:"depthOfExpertise"`
	} `json:"breakdown"`
	SkillApplicationAnalysis Text `json:"skillApplicationAnalysis"`
	CredibilityFlags         struct {
		HasRedFlags        Flag    `json:"hasRedFlags"`
		Concerns           Strings `json:"concerns"`
		PositiveIndicators Strings `json:"positiveIndicators"`
	} `json:"credibilityFlags"`
}

type ExperienceMatch struct {
	Required   Text `json:"required"`
	Candidate  Text `json:"candidate"`
	YearsGap   Text `json:"yearsGap"`
	Assessment Text `json:"assessment"`
}

type ExperienceValidation struct {
	Score           Score `json:"score"`
	RelevanceToRole Text  `json:"relevanceToRole"`
	Gaps            []struct {
		Area           Text `json:"area"`
		Severity       Text `json:"severity"`
		CanBeAddressed Text `json:"canBeAddressed"`
	} `json:"gaps"`
	Strengths []struct {
		Area   Text `json:"area"`
		Impact Text `json:"impact"`
	} `json:"strengths"`
	CareerProgression Text `json:"careerProgression"`
}

type CandidatePotential struct {
	GrowthTrajectory     Text    `json:"growthTrajectory"`
	LeadershipIndicators Strings `json:"leadershipIndicators"`
	LearningAgility      Text    `json:"learningAgility"`
	UniqueValueProps     Strings `json:"uniqueValueProps"`
	CultureFitIndicators Strings `json:"cultureFitIndicators"`
	RiskFactors          Strings `json:"riskFactors"`
}

type OverallMatchScore struct {
	Score      Score          `json:"score"`
	Grade      Text           `json:"grade"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Confidence Text           `json:"confidence"`
}

// ScoreBreakdown weights: skills 40, experience 35, potential 25.
type ScoreBreakdown struct {
	SkillMatchWeight Score `json:"skillMatchWeight"`
	SkillMatchScore  Score `json:"skillMatchScore"`
	ExperienceWeight Score `json:"experienceWeight"`
	ExperienceScore  Score `json:"experienceScore"`
	PotentialWeight  Score `json:"potentialWeight"`
	PotentialScore   Score `json:"potentialScore"`
}

type OverallFit struct {
	Verdict              Text    `json:"verdict"`
	Summary              Text    `json:"summary"`
	TopReasons           Strings `json:"topReasons"`
	InterviewFocus       Strings `json:"interviewFocus"`
	HiringRecommendation Text    `json:"hiringRecommendation"`
	SuggestedRole        Text    `json:"suggestedRole"`
}

type Recommendations struct {
	ForRecruiter       Strings `json:"forRecruiter"`
	ForCandidate       Strings `json:"forCandidate"`
	InterviewQuestions Strings `json:"interviewQuestions"`
}

type SuggestedInterviewQuestions struct {
	Technical            []QuestionCategory `json:"technical"`
	Behavioral           []QuestionCategory `json:"behavioral"`
	ExperienceValidation []QuestionCategory `json:"experienceValidation"`
	Situational          []QuestionCategory `json:"situational"`
	CultureFit           []QuestionCategory `json:"cultureFit"`
	RedFlagProbing       []QuestionCategory `json:"redFlagProbing"`
}

type QuestionCategory struct {
	Area      Text                `json:"area"`
	SubArea   Text                `json:"subArea,omitempty"`
	Questions []InterviewQuestion `json:"questions"`
}

type InterviewQuestion struct {
	Question     Text    `json:"question"`
	Purpose      Text    `json:"purpose"`
	LookFor      Strings `json:"lookFor"`
	FollowUps    Strings `json:"followUps"`
	Difficulty   Text    `json:"difficulty"`
	TimeEstimate Text    `json:"timeEstimate"`
}

type ProbingArea struct {
	Area     Text `json:"area"`
	Priority Text `json:"priority"`
	Reason   Text `json:"reason"`
	SubAreas []struct {
		Name                Text    `json:"name"`
		SpecificConcerns    Strings `json:"specificConcerns"`
		ValidationQuestions Strings `json:"validationQuestions"`
		GreenFlags          Strings `json:"greenFlags"`
		RedFlags            Strings `json:"redFlags"`
	} `json:"subAreas"`
	SuggestedApproach Text `json:"suggestedApproach"`
}

// MatchInput pairs a resume with the job description it is scored against.
type MatchInput struct {
	Resume string
	JD     string
}

type matchDefinition struct{}

func (matchDefinition) Name() string         { return "ResumeMatchAgent" }
func (matchDefinition) Instructions() string { return matchPrompt }

func (matchDefinition) FormatInput(in MatchInput) string {
	return "## Resume:\n" + in.Resume +
		"\n\n## Job Description:\n" + in.JD +
		"\n\nPlease analyze the match between this resume and job description."
}

func (matchDefinition) ParseOutput(raw string, _ MatchInput) MatchResult {
	const unknown, unanalyzed = "Unknown", "Unable to analyze"

	res := MatchResult{
		ResumeAnalysis: ResumeAnalysis{
			CandidateName:        unknown,
			TotalYearsExperience: unknown,
			CurrentRole:          unknown,
			EducationLevel:       unknown,
		},
		JDAnalysis: JDAnalysis{
			JobTitle:                unknown,
			SeniorityLevel:          unknown,
			RequiredYearsExperience: unknown,
			IndustryFocus:           unknown,
		},
		ExperienceMatch: ExperienceMatch{
			Required:   unknown,
			Candidate:  unknown,
			YearsGap:   unknown,
			Assessment: "Unable to parse response",
		},
		ExperienceValidation: ExperienceValidation{RelevanceToRole: unknown, CareerProgression: unanalyzed},
		CandidatePotential:   CandidatePotential{GrowthTrajectory: unanalyzed, LearningAgility: unanalyzed},
		OverallMatchScore: OverallMatchScore{
			Grade:      gradeFail,
			Breakdown:  ScoreBreakdown{SkillMatchWeight: 40, ExperienceWeight: 35, PotentialWeight: 25},
			Confidence: "Low",
		},
		OverallFit: OverallFit{
			Verdict:              VerdictUnableToAssess,
			Summary:              Text(utils.Head(raw, degradedSummaryLength)),
			TopReasons:           Strings{"Unable to process the match analysis"},
			HiringRecommendation: "Unable to determine",
		},
		Recommendations: Recommendations{
			ForRecruiter: Strings{"Unable to generate recommendations - parsing failed"},
		},
		AreasToProbeDeeper: []ProbingArea{},
		degraded:           true,
	}
	res.MustHaveAnalysis.GapAnalysis = unanalyzed
	res.NiceToHaveAnalysis.CompetitiveAdvantage = unanalyzed
	res.SkillMatchScore.SkillApplicationAnalysis = unanalyzed

	return res
}

// Matcher scores a resume against a job description.
type Matcher struct {
	runner *Runner
}

func NewMatcher(runner *Runner) *Matcher {
	return &Matcher{runner: runner}
}

// Match replies in the language of the job description. The must-have cap
// table is applied to the parsed result whatever the model returned.
func (m *Matcher) Match(ctx context.Context, resume, jd, correlationID string) (*MatchResult, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jd) == "" {
		return nil, ErrInvalidInput
	}

	res, err := ExecuteJSON[MatchInput, MatchResult](ctx, m.runner, matchDefinition{}, MatchInput{Resume: resume, JD: jd}, Call{
		LocaleSource:  jd,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}

	applyMustHaveGate(&res)
	if res.AreasToProbeDeeper == nil {
		res.AreasToProbeDeeper = []ProbingArea{}
	}

	return &res, nil
}

type mustHaveGap struct {
	item     string
	severity string
}

func (e MustHaveEvaluation) gaps() []mustHaveGap {
	gaps := make([]mustHaveGap, 0, len(e.MissingSkills)+len(e.MissingExperiences)+len(e.MissingQualifications))
	for _, s := range e.MissingSkills {
		gaps = append(gaps, mustHaveGap{item: string(s.Skill), severity: string(s.Severity)})
	}
	for _, x := range e.MissingExperiences {
		gaps = append(gaps, mustHaveGap{item: string(x.Experience), severity: string(x.Severity)})
	}
	for _, q := range e.MissingQualifications {
		gaps = append(gaps, mustHaveGap{item: string(q.Qualification), severity: string(q.Severity)})
	}
	return gaps
}

func severityCap(severity string) (Score, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(severity), SeverityDealbreaker):
		return DealbreakerCap, true
	case strings.EqualFold(strings.TrimSpace(severity), SeverityCritical):
		return CriticalCap, true
	case strings.EqualFold(strings.TrimSpace(severity), SeveritySignificant):
		return SignificantCap, true
	default:
		return 0, false
	}
}

// applyMustHaveGate enforces the cap table: a missing Dealbreaker caps the
// overall score at 25 and disqualifies, a missing Critical caps it at 45 and
// Significant gaps alone cap it at 65. It reports whether any cap applied.
func applyMustHaveGate(res *MatchResult) bool {
	eval := &res.MustHaveAnalysis.CandidateEvaluation

	limit := Score(100)
	capped := false
	var dealbreakers []string

	for _, g := range eval.gaps() {
		c, ok := severityCap(g.severity)
		if !ok {
			continue
		}
		capped = true
		if c < limit {
			limit = c
		}
		if c == DealbreakerCap && strings.TrimSpace(g.item) != "" {
			dealbreakers = append(dealbreakers, strings.TrimSpace(g.item))
		}
	}

	if !capped {
		return false
	}

	eval.MeetsAllMustHaves = false

	overall := &res.OverallMatchScore
	if overall.Score > limit {
		overall.Score = limit
	}
	if want := gradeFor(overall.Score); gradeRank(string(overall.Grade)) < gradeRank(want) {
		overall.Grade = Text(want)
	}

	if limit == DealbreakerCap {
		overall.Grade = gradeFail
		res.OverallFit.Verdict = VerdictNotQualified
		res.OverallFit.HiringRecommendation = RecommendationDisqualified

		must := &res.MustHaveAnalysis
		must.Disqualified = true
		if must.MustHaveScore > dealbreakerMustHaveCap {
			must.MustHaveScore = dealbreakerMustHaveCap
		}
		if len(must.DisqualificationReasons) == 0 {
			for _, item := range dealbreakers {
				must.DisqualificationReasons = append(must.DisqualificationReasons, "Missing must-have: "+item)
			}
		}
	}

	return true
}

var gradeBands = []struct {
	min   Score
	grade string
}{
	{95, "A+"},
	{90, "A"},
	{85, "B+"},
	{80, "B"},
	{75, "C+"},
	{70, "C"},
	{60, "D"},
}

func gradeFor(score Score) string {
	for _, band := range gradeBands {
		if score >= band.min {
			return band.grade
		}
	}
	return gradeFail
}

// gradeRank orders grades from best (0) to F. Unknown grades rank best so a
// cap always replaces them.
func gradeRank(grade string) int {
	grade = strings.ToUpper(strings.TrimSpace(grade))
	for i, band := range gradeBands {
		if band.grade == grade {
			return i
		}
	}
	if grade == gradeFail {
		return len(gradeBands)
	}
	return -1
}
