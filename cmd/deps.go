package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spigell/hire-agent/internal/agents"
	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/ai/providers"
	"github.com/spigell/hire-agent/internal/docstore"
	"github.com/spigell/hire-agent/internal/invitation"
	"github.com/spigell/hire-agent/internal/logger"
	"github.com/spigell/hire-agent/internal/pdftext"
	"github.com/spigell/hire-agent/internal/secrets"
	"github.com/spigell/hire-agent/internal/server"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// deps is everything a command needs, built once from the configuration.
type deps struct {
	config       *Config
	logger       *zap.Logger
	orchestrator *ai.Orchestrator
	runner       *agents.Runner
	store        *docstore.Store
}

func setup(ctx context.Context) (*deps, error) {
	zlog, err := newLogger()
	if err != nil {
		return nil, err
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	zlog.Debug("starting", zap.String("app", app), zap.String("version", version))

	providerCfg, err := providerConfig(config.LLM)
	if err != nil {
		return nil, err
	}

	orchestrator := ai.NewOrchestrator(
		providers.Factory(ctx, providerCfg, zlog),
		providerCfg.Normalized().Model,
		zlog,
		ai.WithMaxLogLength(config.LLM.MaxLogLength),
	)

	d := &deps{
		config:       config,
		logger:       zlog,
		orchestrator: orchestrator,
		runner:       agents.NewRunner(orchestrator, zlog, config.LLM.MaxLogLength),
	}

	if path := strings.TrimSpace(config.Cache.Path); path != "" {
		store, err := docstore.Open(path, zlog)
		if err != nil {
			return nil, err
		}
		d.store = store
		zlog.Debug("parsed document cache enabled", zap.String("path", path))
	}

	return d, nil
}

func newLogger() (*zap.Logger, error) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"),
		logger.WithLevel(viper.GetString("log.level")),
		logger.WithOutput(viper.GetString("log.file")),
	)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return l, nil
}

func (d *deps) close() {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Warn("closing docstore", zap.Error(err))
		}
	}
	_ = d.logger.Sync()
}

func providerConfig(cfg *LLMConfig) (providers.Config, error) {
	out := providers.Config{Provider: cfg.Provider, Model: cfg.Model}

	vendors := []struct {
		name string
		src  *VendorConfig
		dst  *providers.Vendor
	}{
		{providers.OpenAI, cfg.OpenAI, &out.OpenAI},
		{providers.OpenRouter, cfg.OpenRouter, &out.OpenRouter},
		{providers.Google, cfg.Google, &out.Google},
		{providers.Kimi, cfg.Kimi, &out.Kimi},
	}

	for _, v := range vendors {
		if v.src == nil {
			continue
		}

		key, err := secrets.LoadOptional(secrets.Source{
			Name:  v.name + " api key",
			Value: v.src.APIKey,
			File:  v.src.APIKeyFile,
		})
		if err != nil {
			return out, err
		}

		*v.dst = providers.Vendor{APIKey: key, BaseURL: strings.TrimSpace(v.src.BaseURL)}
	}

	return out, nil
}

func (d *deps) jdParser() server.JDParser {
	return docstore.NewCachedParser[*agents.ParsedJD](d.store, docstore.KindJD, agents.NewJDParser(d.runner))
}

func (d *deps) resumeParser() server.ResumeParser {
	return docstore.NewCachedParser[*agents.ParsedResume](d.store, docstore.KindResume, agents.NewResumeParser(d.runner))
}

// inviter picks the delivery mode from the configuration.
func (d *deps) inviter() (invitation.Sender, error) {
	cfg := d.config.Invitation

	switch mode := strings.ToLower(strings.TrimSpace(cfg.Mode)); mode {
	case "", invitation.ModeDraft:
		return agents.NewInvitationDrafter(d.runner), nil
	case invitation.ModeAPI:
		return invitation.NewClient(cfg.APIURL,
			invitation.WithRecruiterEmail(cfg.RecruiterEmail),
			invitation.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			invitation.WithLogger(d.logger),
		)
	default:
		return nil, fmt.Errorf("unsupported invitation mode %q (use %s or %s)", cfg.Mode, invitation.ModeDraft, invitation.ModeAPI)
	}
}

func (d *deps) serverDeps() (server.Deps, error) {
	inviter, err := d.inviter()
	if err != nil {
		return server.Deps{}, err
	}

	return server.Deps{
		JDParser:     d.jdParser(),
		ResumeParser: d.resumeParser(),
		Matcher:      agents.NewMatcher(d.runner),
		Evaluator:    agents.NewInterviewEvaluator(d.runner),
		Inviter:      inviter,
		Consultant:   agents.NewConsultant(d.runner),
		JDWriter:     agents.NewJDWriter(d.runner),
		Titles:       agents.NewTitleSuggester(d.runner),
		Provider:     d.orchestrator.Provider(),
		Model:        d.orchestrator.Model(),
	}, nil
}

// readDocument returns the text of a .pdf, .txt or .md file. An empty path
// yields an empty string.
func readDocument(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	return pdftext.ReadFile(path)
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, string(pretty))
	return err
}

func mustSetup(ctx context.Context) *deps {
	d, err := setup(ctx)
	if err != nil {
		log.Fatal(err)
	}
	return d
}
