package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type emptyFilter struct{}

// NewEmpty creates a filter that removes resumes with no readable text. They
// cannot be matched.
func NewEmpty() Filter {
	return &emptyFilter{}
}

func (f *emptyFilter) Name() string { return "empty" }

func (f *emptyFilter) Disable(string) {}

func (f *emptyFilter) IsEnabled() bool { return true }

func (f *emptyFilter) Validate(*Config) error { return nil }

func (f *emptyFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.Exclude(func(candidate *Candidate) bool {
		return strings.TrimSpace(candidate.Resume) == ""
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding empty resumes",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}
