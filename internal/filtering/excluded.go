package filtering

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

const (
	ExcludeActorUser = "user"
	ExcludeActorAI   = "ai"
)

type ExcludedCandidates struct {
	Items []*ExcludedCandidate `json:"items"`
}

type ExcludedCandidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// GetExcludedFromFile reads the exclude file. A missing or empty file means
// nothing is excluded yet.
func GetExcludedFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Add(c *Candidate, actor, reason string) {
	e.Items = append(e.Items, &ExcludedCandidate{
		ID:         c.ID,
		Name:       c.Name,
		Actor:      actor,
		Reason:     reason,
		ExcludedAt: time.Now().UTC(),
	})
}

func (e *ExcludedCandidates) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		ids[item.ID] = struct{}{}
	}
	return ids
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
