// Package docstore caches parsed documents in SQLite, keyed by a hash of
// their normalized text.
package docstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spigell/hire-agent/internal/logger"
	"go.uber.org/zap"
)

// Kind separates cache entries of different document types.
type Kind string

const (
	KindJD     Kind = "jd"
	KindResume Kind = "resume"
)

const hashLength = 16

var schema = []string{
	`CREATE TABLE IF NOT EXISTS parsed_documents (
		kind TEXT NOT NULL,
		hash TEXT NOT NULL,
		payload TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (kind, hash)
	);`,
}

// Store is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open docstore %s: %w", path, err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate docstore: %w", err)
		}
	}

	return &Store{db: db, logger: logger.WithFields(log)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Hash returns the first 16 hex characters of the SHA-256 of text after
// trimming, lower-casing and collapsing whitespace.
func Hash(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:hashLength]
}

// Get returns the stored payload. ok is false when nothing is stored.
func (s *Store) Get(ctx context.Context, kind Kind, hash string) (payload json.RawMessage, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx,
		"SELECT payload FROM parsed_documents WHERE kind = ? AND hash = ?",
		string(kind), hash,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return json.RawMessage(raw), true, nil
}

// Put stores payload, replacing any earlier entry for the same key.
func (s *Store) Put(ctx context.Context, kind Kind, hash string, payload json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parsed_documents (kind, hash, payload) VALUES (?, ?, ?)
		ON CONFLICT (kind, hash) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		string(kind), hash, string(payload),
	)
	return err
}

// degradable is implemented by records that can be placeholders for a
// failed parse. Those are never cached.
type degradable interface {
	Degraded() bool
}

// Cached returns the stored record for text or calls parse and stores its
// result. A nil store always calls parse. Cache read and write failures are
// logged and do not fail the call.
func Cached[T any](ctx context.Context, s *Store, kind Kind, text string, parse func(context.Context) (T, error)) (T, error) {
	if s == nil {
		return parse(ctx)
	}

	hash := Hash(text)
	log := s.logger.With(zap.String("kind", string(kind)), zap.String("hash", hash))

	payload, ok, err := s.Get(ctx, kind, hash)
	switch {
	case err != nil:
		log.Warn("docstore lookup failed", zap.Error(err))
	case ok:
		var out T
		if err := json.Unmarshal(payload, &out); err == nil {
			log.Debug("docstore hit")
			return out, nil
		}
		log.Warn("docstore entry unreadable, parsing again", zap.Error(err))
	}

	out, err := parse(ctx)
	if err != nil {
		return out, err
	}

	if d, ok := any(out).(degradable); ok && d.Degraded() {
		return out, nil
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		log.Warn("docstore encode failed", zap.Error(err))
		return out, nil
	}
	if err := s.Put(ctx, kind, hash, encoded); err != nil {
		log.Warn("docstore write failed", zap.Error(err))
	}

	return out, nil
}

// Parser is the shape of the JD and resume parsers.
type Parser[T any] interface {
	Parse(ctx context.Context, text, correlationID string) (T, error)
}

// CachedParser puts a Store in front of a Parser.
type CachedParser[T any] struct {
	store *Store
	kind  Kind
	next  Parser[T]
}

func NewCachedParser[T any](store *Store, kind Kind, next Parser[T]) *CachedParser[T] {
	return &CachedParser[T]{store: store, kind: kind, next: next}
}

func (p *CachedParser[T]) Parse(ctx context.Context, text, correlationID string) (T, error) {
	if strings.TrimSpace(text) == "" {
		return p.next.Parse(ctx, text, correlationID)
	}

	return Cached(ctx, p.store, p.kind, text, func(ctx context.Context) (T, error) {
		return p.next.Parse(ctx, text, correlationID)
	})
}
