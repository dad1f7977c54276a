package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

var errUnusableMatch = errors.New("match reply could not be parsed")

type aiFitFilter struct {
	disabled bool
	reason   string
	config   Config
}

// NewAIFit creates the step that scores every candidate against the job
// description and drops the ones below the configured bar.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return !f.disabled }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.config = Config{}
	if cfg != nil {
		f.config = *cfg
	}
	if f.config.MinimumScore < 0 || f.config.MinimumScore > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %d", f.config.MinimumScore)
	}
	if f.config.Concurrency <= 0 {
		f.config.Concurrency = defaultConcurrency
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if deps.Matcher == nil {
		deps.Logger.Info("matcher is not configured; skipping ai_fit filter")
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}
	if strings.TrimSpace(deps.JD) == "" {
		return c, Step{}, fmt.Errorf("job description is required for AI evaluation")
	}

	if err := f.score(ctx, deps, c); err != nil {
		return c, Step{}, err
	}

	rejected := make(map[string]string)
	var dropped []*Candidate
	removed := c.Exclude(func(candidate *Candidate) bool {
		reason := f.rejection(candidate)
		if reason == "" {
			deps.Logger.Info("candidate approved by AI",
				zap.String("candidate", candidate.Name),
				zap.Int("ai_score", candidate.Score()),
			)
			return false
		}

		deps.Logger.Info("candidate rejected by AI",
			zap.String("candidate", candidate.Name),
			zap.Int("ai_score", candidate.Score()),
			zap.String("reason", reason),
		)
		rejected[candidate.ID] = reason
		dropped = append(dropped, candidate)
		return true
	})

	if err := f.appendToExcludeFile(deps, dropped, rejected); err != nil {
		deps.Logger.Warn("failed to append candidates to exclude file", zap.Error(err))
	}

	deps.Logger.Info("AI screening completed",
		zap.Int("initial_candidates", initial),
		zap.Int("approved_candidates", c.Len()),
	)

	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

// score matches candidates concurrently. A failed or unparseable match keeps
// the candidate unscored with the error recorded; only a cancelled context
// stops the step.
func (f *aiFitFilter) score(ctx context.Context, deps Deps, c *Candidates) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.Concurrency)

	for _, candidate := range c.Items {
		g.Go(func() error {
			res, err := deps.Matcher.Match(gctx, candidate.Resume, deps.JD, deps.CorrelationID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				deps.Logger.Warn("AI evaluation failed",
					zap.String("candidate", candidate.Name),
					zap.Error(err),
				)
				candidate.Error = err.Error()
				return nil
			}
			if res.Degraded() {
				deps.Logger.Warn("AI evaluation unusable, keeping candidate unscored",
					zap.String("candidate", candidate.Name),
				)
				candidate.Error = errUnusableMatch.Error()
				return nil
			}
			candidate.Match = res
			return nil
		})
	}

	return g.Wait()
}

func (f *aiFitFilter) rejection(c *Candidate) string {
	if c.Match == nil || c.Match.Degraded() {
		return ""
	}
	if c.disqualified() && !f.config.KeepDisqualified {
		return "disqualified by must-have requirements"
	}
	if c.Score() < f.config.MinimumScore {
		return fmt.Sprintf("score %d is below minimum %d", c.Score(), f.config.MinimumScore)
	}
	return ""
}

func (f *aiFitFilter) appendToExcludeFile(deps Deps, candidates []*Candidate, reasons map[string]string) error {
	path := strings.TrimSpace(f.config.ExcludeFile)
	if path == "" || len(candidates) == 0 {
		return nil
	}

	excluded, err := GetExcludedFromFile(path)
	if err != nil {
		return fmt.Errorf("load excluded candidates: %w", err)
	}

	for _, candidate := range candidates {
		excluded.Add(candidate, ExcludeActorAI, reasons[candidate.ID])
	}

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded candidates: %w", err)
	}

	deps.Logger.Info("candidates appended to exclude file",
		zap.Int("count", len(candidates)),
		zap.String("exclude_file", path),
	)

	return nil
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{
		"minimum_score":     strconv.Itoa(f.config.MinimumScore),
		"keep_disqualified": strconv.FormatBool(f.config.KeepDisqualified),
		"concurrency":       strconv.Itoa(f.config.Concurrency),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
