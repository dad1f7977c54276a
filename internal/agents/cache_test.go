package agents

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spigell/hire-agent/internal/docstore"
	"go.uber.org/zap"
)

func TestCachedJDParserSkipsUnusableReplies(t *testing.T) {
	store, err := docstore.Open(filepath.Join(t.TempDir(), "docs.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	chat := &stubChatter{reply: "sorry, I cannot produce JSON today"}
	parser := docstore.NewCachedParser[*ParsedJD](store, docstore.KindJD, NewJDParser(newTestRunner(chat)))

	const text = "Backend Engineer at Acme, Go and PostgreSQL"
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		jd, err := parser.Parse(ctx, text, "")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if !jd.Degraded() {
			t.Fatalf("expected a degraded record, got %+v", jd)
		}
	}
	if chat.calls != 2 {
		t.Fatalf("degraded record must not be cached, provider calls = %d", chat.calls)
	}

	chat.reply = `{"title": "Backend Engineer", "company": "Acme"}`
	for i := 0; i < 2; i++ {
		jd, err := parser.Parse(ctx, text, "")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if jd.Degraded() || jd.Title != "Backend Engineer" {
			t.Fatalf("unexpected record %+v", jd)
		}
	}
	if chat.calls != 3 {
		t.Fatalf("expected the parsed record to be served from cache, provider calls = %d", chat.calls)
	}
}
