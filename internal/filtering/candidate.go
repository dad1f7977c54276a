package filtering

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/docstore"
	"github.com/spigell/hire-agent/internal/pdftext"
)

// Candidate is one resume going through screening.
type Candidate struct {
	// ID is derived from the resume text, so renamed files keep their identity.
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Resume string              `json:"-"`
	Match  *agents.MatchResult `json:"match,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// Score is the overall match score, or -1 when the candidate was not scored.
func (c *Candidate) Score() int {
	if c.Match == nil {
		return -1
	}
	return int(c.Match.OverallMatchScore.Score)
}

func (c *Candidate) disqualified() bool {
	return c.Match != nil && strings.EqualFold(c.Match.OverallFit.HiringRecommendation.String(), agents.RecommendationDisqualified)
}

type Candidates struct {
	Items []*Candidate `json:"items"`
}

func NewCandidate(name, resume string) *Candidate {
	return &Candidate{
		ID:     docstore.Hash(resume),
		Name:   name,
		Resume: resume,
	}
}

// Load reads every resume file. A file that cannot be read fails the load.
func Load(paths []string) (*Candidates, error) {
	c := &Candidates{}
	for _, path := range paths {
		text, err := pdftext.ReadFile(path)
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, NewCandidate(filepath.Base(path), text))
	}
	return c, nil
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// Exclude removes candidates matching drop and returns their names.
func (c *Candidates) Exclude(drop func(*Candidate) bool) []string {
	kept := make([]*Candidate, 0, len(c.Items))
	excluded := make([]string, 0)
	for _, candidate := range c.Items {
		if drop(candidate) {
			excluded = append(excluded, candidate.Name)
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept
	return excluded
}

// Rank orders candidates by score, highest first. Unscored candidates go last
// and ties keep their input order.
func (c *Candidates) Rank() {
	slices.SortStableFunc(c.Items, func(a, b *Candidate) int {
		return b.Score() - a.Score()
	})
}
