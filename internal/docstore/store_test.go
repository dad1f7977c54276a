package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "docs.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestOpenInvalidPath(t *testing.T) {
	if s, err := Open("/invalid/path/to/docs.db", nil); err == nil {
		_ = s.Close()
		t.Fatalf("expected error for unwritable path")
	}
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := Hash("  Senior Go Engineer\n\nRemote ")
	b := Hash("senior go   engineer remote")
	if a != b {
		t.Fatalf("expected normalized texts to hash equally: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}
	if a == Hash("senior rust engineer remote") {
		t.Fatalf("different texts must not collide")
	}
}

func TestGetPut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, KindJD, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Put(ctx, KindJD, "h1", json.RawMessage(`{"title":"A"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(ctx, KindJD, "h1", json.RawMessage(`{"title":"B"}`)); err != nil {
		t.Fatalf("Put() upsert error = %v", err)
	}

	got, ok, err := s.Get(ctx, KindJD, "h1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != `{"title":"B"}` {
		t.Fatalf("expected upserted payload, got %s", got)
	}

	if _, ok, _ := s.Get(ctx, KindResume, "h1"); ok {
		t.Fatalf("kinds must not share entries")
	}
}

type doc struct {
	Title string `json:"title"`
	Bad   bool   `json:"bad"`
}

func (d *doc) Degraded() bool { return d.Bad }

type countingParser struct {
	calls int
	out   *doc
	err   error
}

func (p *countingParser) Parse(_ context.Context, text, _ string) (*doc, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := *p.out
	if out.Title == "" {
		out.Title = text
	}
	return &out, nil
}

func TestCachedParser(t *testing.T) {
	tests := []struct {
		name      string
		out       *doc
		err       error
		wantCalls int
	}{
		{name: "parsed once", out: &doc{Title: "Go Engineer"}, wantCalls: 1},
		{name: "degraded not cached", out: &doc{Bad: true}, wantCalls: 2},
		{name: "errors not cached", err: errors.New("provider down"), wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &countingParser{out: tt.out, err: tt.err}
			p := NewCachedParser[*doc](newTestStore(t), KindJD, next)

			for i := 0; i < 2; i++ {
				got, err := p.Parse(context.Background(), "Go Engineer  wanted", "")
				if tt.err != nil {
					if !errors.Is(err, tt.err) {
						t.Fatalf("expected parser error, got %v", err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.out.Title != "" && got.Title != tt.out.Title {
					t.Fatalf("unexpected title %q", got.Title)
				}
			}

			if next.calls != tt.wantCalls {
				t.Fatalf("expected %d parser calls, got %d", tt.wantCalls, next.calls)
			}
		})
	}
}

func TestCachedWithoutStore(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Cached(context.Background(), nil, KindResume, "text", func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("nil store must always parse, got %d calls", calls)
	}
}
