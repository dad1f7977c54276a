// Package server exposes the recruiting agents over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/invitation"
	"github.com/spigell/hire-agent/internal/logger"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

type JDParser interface {
	Parse(ctx context.Context, text, correlationID string) (*agents.ParsedJD, error)
}

type ResumeParser interface {
	Parse(ctx context.Context, text, correlationID string) (*agents.ParsedResume, error)
}

type Matcher interface {
	Match(ctx context.Context, resume, jd, correlationID string) (*agents.MatchResult, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, resume, jd, transcript, correlationID string) (*agents.InterviewEvaluation, error)
}

type Consultant interface {
	Chat(ctx context.Context, in agents.ConsultantInput) (*agents.ConsultantReply, error)
}

type JDWriter interface {
	Write(ctx context.Context, req agents.DraftRequest) (string, error)
}

type TitleSuggester interface {
	Suggest(ctx context.Context, req agents.DraftRequest) (string, error)
}

// Deps holds the collaborators of the HTTP handlers.
type Deps struct {
	JDParser     JDParser
	ResumeParser ResumeParser
	Matcher      Matcher
	Evaluator    Evaluator
	Inviter      invitation.Sender
	Consultant   Consultant
	JDWriter     JDWriter
	Titles       TitleSuggester

	// Provider and Model are reported by the health endpoint.
	Provider string
	Model    string
}

type handler struct {
	deps     Deps
	logger   *zap.Logger
	markdown goldmark.Markdown
}

// New returns the API router.
func New(deps Deps, log *zap.Logger) http.Handler {
	h := &handler{
		deps:     deps,
		logger:   logger.WithFields(log),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jd/parse", h.parseJD)
		r.Post("/jd/draft", h.draftJD)
		r.Post("/jd/title", h.suggestTitle)
		r.Post("/resume/parse", h.parseResume)
		r.Post("/match", h.match)
		r.Post("/invite", h.invite)
		r.Post("/evaluate", h.evaluate)
		r.Post("/consult", h.consult)
	})

	return r
}
