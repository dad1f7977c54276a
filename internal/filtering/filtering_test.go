package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spigell/hire-agent/internal/agents"
	"go.uber.org/zap"
)

type fakeMatcher struct {
	mu      sync.Mutex
	results map[string]*agents.MatchResult
	errs    map[string]error
	calls   int
}

func (m *fakeMatcher) Match(_ context.Context, resume, _, _ string) (*agents.MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errs[resume]; err != nil {
		return nil, err
	}
	return m.results[resume], nil
}

func result(score int, recommendation string) *agents.MatchResult {
	res := &agents.MatchResult{}
	res.OverallMatchScore.Score = agents.Score(score)
	res.OverallFit.HiringRecommendation = agents.Text(recommendation)
	return res
}

func testCandidates() *Candidates {
	return &Candidates{Items: []*Candidate{
		NewCandidate("alice.pdf", "alice resume"),
		NewCandidate("bob.pdf", "bob resume"),
		NewCandidate("carol.pdf", "carol resume"),
		NewCandidate("blank.txt", "  \n"),
	}}
}

func names(c *Candidates) []string {
	out := make([]string, 0, c.Len())
	for _, item := range c.Items {
		out = append(out, item.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunRanksAndFilters(t *testing.T) {
	matcher := &fakeMatcher{
		results: map[string]*agents.MatchResult{
			"alice resume": result(72, "Hire"),
			"bob resume":   result(91, "Strong Hire"),
			"carol resume": result(25, agents.RecommendationDisqualified),
		},
	}

	cfg := &Config{MinimumScore: 50, ExcludeFile: filepath.Join(t.TempDir(), "excluded.json")}
	deps := Deps{Logger: zap.NewNop(), Matcher: matcher, JD: "Go engineer"}

	got, err := Run(context.Background(), cfg, deps, Default(), testCandidates())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []string{"bob.pdf", "alice.pdf"}; !equal(names(got), want) {
		t.Fatalf("expected %v, got %v", want, names(got))
	}
	if matcher.calls != 3 {
		t.Fatalf("expected the blank resume to skip matching, got %d calls", matcher.calls)
	}

	excluded, err := GetExcludedFromFile(cfg.ExcludeFile)
	if err != nil {
		t.Fatalf("GetExcludedFromFile() error = %v", err)
	}
	if len(excluded.Items) != 1 || excluded.Items[0].Name != "carol.pdf" || excluded.Items[0].Actor != ExcludeActorAI {
		t.Fatalf("unexpected exclude file contents: %+v", excluded.Items)
	}

	// A second run skips the candidate rejected by the first one.
	matcher.calls = 0
	if _, err := Run(context.Background(), cfg, deps, Default(), testCandidates()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if matcher.calls != 2 {
		t.Fatalf("expected excluded candidate to be skipped, got %d calls", matcher.calls)
	}
}

func TestAIFitRejection(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		match  *agents.MatchResult
		reject bool
	}{
		{name: "above minimum", cfg: Config{MinimumScore: 60}, match: result(61, "Hire")},
		{name: "below minimum", cfg: Config{MinimumScore: 60}, match: result(59, "Hire"), reject: true},
		{name: "disqualified", cfg: Config{}, match: result(45, "disqualified"), reject: true},
		{name: "disqualified kept", cfg: Config{KeepDisqualified: true}, match: result(45, agents.RecommendationDisqualified)},
		{name: "not scored", cfg: Config{MinimumScore: 90}},
		{name: "unusable reply", cfg: Config{MinimumScore: 90}, match: &agents.MatchResult{OverallFit: agents.OverallFit{Verdict: agents.VerdictUnableToAssess}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &aiFitFilter{}
			if err := f.Validate(&tt.cfg); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			got := f.rejection(&Candidate{Match: tt.match}) != ""
			if got != tt.reject {
				t.Fatalf("expected reject=%v, got %v", tt.reject, got)
			}
		})
	}
}

func TestAIFitKeepsFailedMatches(t *testing.T) {
	matcher := &fakeMatcher{
		results: map[string]*agents.MatchResult{"alice resume": result(80, "Hire")},
		errs:    map[string]error{"bob resume": errors.New("provider down")},
	}

	c := &Candidates{Items: []*Candidate{
		NewCandidate("bob.pdf", "bob resume"),
		NewCandidate("alice.pdf", "alice resume"),
	}}

	got, err := Run(context.Background(), &Config{MinimumScore: 10}, Deps{Matcher: matcher, JD: "jd"}, Default(), c)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []string{"alice.pdf", "bob.pdf"}; !equal(names(got), want) {
		t.Fatalf("expected %v, got %v", want, names(got))
	}
	if got.Items[1].Error != "provider down" || got.Items[1].Score() != -1 {
		t.Fatalf("expected failed candidate to keep its error, got %+v", got.Items[1])
	}
}

func TestAIFitKeepsUnusableMatchesOutOfExcludeFile(t *testing.T) {
	unusable := result(0, "Unable to determine")
	unusable.OverallFit.Verdict = agents.VerdictUnableToAssess

	matcher := &fakeMatcher{
		results: map[string]*agents.MatchResult{
			"alice resume": unusable,
			"bob resume":   result(20, "No Hire"),
		},
	}

	cfg := &Config{MinimumScore: 50, ExcludeFile: filepath.Join(t.TempDir(), "excluded.json")}
	c := &Candidates{Items: []*Candidate{
		NewCandidate("alice.pdf", "alice resume"),
		NewCandidate("bob.pdf", "bob resume"),
	}}

	got, err := Run(context.Background(), cfg, Deps{Matcher: matcher, JD: "jd"}, Default(), c)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []string{"alice.pdf"}; !equal(names(got), want) {
		t.Fatalf("expected %v, got %v", want, names(got))
	}
	if got.Items[0].Match != nil || got.Items[0].Error == "" {
		t.Fatalf("expected unusable match kept unscored with an error, got %+v", got.Items[0])
	}

	excluded, err := GetExcludedFromFile(cfg.ExcludeFile)
	if err != nil {
		t.Fatalf("GetExcludedFromFile() error = %v", err)
	}
	if len(excluded.Items) != 1 || excluded.Items[0].Name != "bob.pdf" {
		t.Fatalf("only the scored rejection belongs in the exclude file, got %+v", excluded.Items)
	}
}

func TestAIFitCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matcher := &fakeMatcher{errs: map[string]error{"alice resume": context.Canceled}}
	c := &Candidates{Items: []*Candidate{NewCandidate("alice.pdf", "alice resume")}}

	if _, err := Run(ctx, &Config{}, Deps{Matcher: matcher, JD: "jd"}, Default(), c); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidateRejectsBadMinimum(t *testing.T) {
	_, err := Run(context.Background(), &Config{MinimumScore: 101}, Deps{}, Default(), &Candidates{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDisabledAIFitSkipsMatching(t *testing.T) {
	matcher := &fakeMatcher{}
	steps := Default()
	DisableByName(steps, "ai_fit", "requested")

	got, err := Run(context.Background(), &Config{}, Deps{Matcher: matcher, JD: "jd"}, steps, testCandidates())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if matcher.calls != 0 || got.Len() != 3 {
		t.Fatalf("expected no matching and 3 candidates, got calls=%d len=%d", matcher.calls, got.Len())
	}

	for _, status := range Describe(steps) {
		if status.Name == "ai_fit" && (status.Enabled || status.Reason != "requested") {
			t.Fatalf("unexpected ai_fit status: %+v", status)
		}
	}
}

func TestMissingExcludeFile(t *testing.T) {
	excluded, err := GetExcludedFromFile(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("GetExcludedFromFile() error = %v", err)
	}
	if len(excluded.Items) != 0 {
		t.Fatalf("expected empty list, got %d", len(excluded.Items))
	}
}
