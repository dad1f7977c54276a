// Package agents implements the recruiting agents on top of a shared
// invocation template: build a language-aware system prompt, send one chat
// call, parse the reply and degrade to a default record when the reply is
// not usable.
package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/hire-agent/internal/ai"
	"github.com/spigell/hire-agent/internal/language"
	"github.com/spigell/hire-agent/internal/logger"
	"github.com/spigell/hire-agent/internal/utils"
	"go.uber.org/zap"
)

// ErrInvalidInput is returned before any provider call when the input cannot
// produce a meaningful prompt.
var ErrInvalidInput = errors.New("invalid input")

// Stage is a step of one agent invocation.
type Stage string

const (
	StageIdle             Stage = "idle"
	StagePromptBuilt      Stage = "prompt_built"
	StageMessageSent      Stage = "message_sent"
	StageResponseReceived Stage = "response_received"
	StageParsed           Stage = "parsed"
	StageCompleted        Stage = "completed"
	StageFailed           Stage = "failed"
)

const defaultMaxLogLength = 200

// Definition is what a concrete agent supplies to the template.
type Definition[In, Out any] interface {
	Name() string
	// Instructions is the agent's own system prompt, without the language
	// directive.
	Instructions() string
	FormatInput(in In) string
	// ParseOutput never fails: unusable replies map to a default record.
	ParseOutput(raw string, in In) Out
}

// Call carries per-invocation settings.
type Call struct {
	// LocaleSource is the text whose language the reply must follow. Empty
	// means no language directive is added.
	LocaleSource string
	// Locale is an explicit user choice such as "zh-CN". It wins over
	// detection when it maps to a supported language.
	Locale string
	// StateLanguage names the resolved language in the prompt even when it
	// was detected rather than selected.
	StateLanguage bool
	CorrelationID string
	Temperature   *float64
}

func (c Call) options() ai.Options {
	temperature := c.Temperature
	if temperature == nil {
		temperature = ai.Temperature(ai.DefaultTemperature)
	}

	return ai.Options{Temperature: temperature, CorrelationID: c.CorrelationID}
}

// Runner executes agent definitions against a chat backend. It holds no
// per-call state and is safe for concurrent use.
type Runner struct {
	chat      ai.Chatter
	logger    *zap.Logger
	maxLogLen int
}

// NewRunner returns a runner. maxLogLength bounds prompt previews in debug
// logs; zero uses the default.
func NewRunner(chat ai.Chatter, log *zap.Logger, maxLogLength int) *Runner {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Runner{
		chat:      chat,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// SystemPrompt prepends the reply-language directive to instructions.
func SystemPrompt(instructions string, call Call) (string, language.Language) {
	parts := make([]string, 0, 3)

	lang := language.Default
	if selected, ok := language.FromLocale(call.Locale); ok {
		lang = selected
		parts = append(parts,
			language.InstructionForLanguage(lang),
			fmt.Sprintf("User selected language: %s.", lang),
		)
	} else if strings.TrimSpace(call.LocaleSource) != "" || call.StateLanguage {
		lang = language.Detect(call.LocaleSource)
		parts = append(parts, language.InstructionForLanguage(lang))
		if call.StateLanguage {
			parts = append(parts, fmt.Sprintf("User selected language: %s.", lang))
		}
	}

	parts = append(parts, instructions)
	return strings.Join(parts, "\n\n"), lang
}

// Execute runs def and parses the reply with def.ParseOutput.
func Execute[In, Out any](ctx context.Context, r *Runner, def Definition[In, Out], in In, call Call) (Out, error) {
	messages, inv := prepare(r, def, in, call)

	return run(ctx, r, inv, messages, call, func(raw string) (Out, error) {
		return def.ParseOutput(raw, in), nil
	})
}

// ExecuteJSON runs def and decodes the reply into Out. A reply that holds no
// decodable JSON is logged and handed to def.ParseOutput, which supplies the
// default record. Provider failures are returned unchanged.
func ExecuteJSON[In, Out any](ctx context.Context, r *Runner, def Definition[In, Out], in In, call Call) (Out, error) {
	messages, inv := prepare(r, def, in, call)

	return run(ctx, r, inv, messages, call, func(raw string) (Out, error) {
		out, err := ai.ParseJSON[Out](raw)

		var parseErr *ai.JSONParseError
		if errors.As(err, &parseErr) {
			inv.log.Warn("agent reply is not valid json, using defaults",
				zap.String("response_preview", parseErr.Preview),
			)
			return def.ParseOutput(raw, in), nil
		}

		return out, err
	})
}

func prepare[In, Out any](r *Runner, def Definition[In, Out], in In, call Call) ([]ai.Message, *invocation) {
	system, lang := SystemPrompt(def.Instructions(), call)
	inv := r.begin(def.Name(), call, lang)

	user := def.FormatInput(in)
	inv.advance(StagePromptBuilt,
		zap.Int("prompt_length", utf8.RuneCountInString(system)+utf8.RuneCountInString(user)),
		zap.String("prompt_preview", utils.TruncateForLog(user, r.maxLogLen)),
	)

	return []ai.Message{ai.SystemMessage(system), ai.UserMessage(user)}, inv
}

// invocation tracks the stage of one call for logging.
type invocation struct {
	log   *zap.Logger
	stage Stage
	start time.Time
}

func (inv *invocation) advance(stage Stage, fields ...zap.Field) {
	inv.stage = stage
	inv.log.Debug("agent stage", append([]zap.Field{zap.String("stage", string(stage))}, fields...)...)
}

func (inv *invocation) finish(err error) {
	fields := []zap.Field{
		zap.String("stage", string(inv.stage)),
		zap.Bool("success", err == nil),
		zap.Duration("duration", time.Since(inv.start)),
	}

	if err != nil {
		inv.stage = StageFailed
		inv.log.Error("agent failed", append(fields, zap.Error(err))...)
		return
	}

	inv.stage = StageCompleted
	inv.log.Info("agent completed", fields...)
}

func (r *Runner) begin(agent string, call Call, lang language.Language) *invocation {
	fields := append(logger.RequestFields(agent, call.CorrelationID), zap.String(logger.FieldLanguage, string(lang)))

	inv := &invocation{
		log:   r.logger.With(fields...),
		stage: StageIdle,
		start: time.Now(),
	}
	inv.log.Debug("agent started")

	return inv
}

// Converse runs a prebuilt conversation through the template. Agents that
// manage their own history use it instead of Execute.
func Converse[Out any](ctx context.Context, r *Runner, agent string, messages []ai.Message, call Call, lang language.Language, parse func(raw string) Out) (Out, error) {
	inv := r.begin(agent, call, lang)
	inv.advance(StagePromptBuilt, zap.Int("messages", len(messages)))

	return run(ctx, r, inv, messages, call, func(raw string) (Out, error) {
		return parse(raw), nil
	})
}

func run[Out any](ctx context.Context, r *Runner, inv *invocation, messages []ai.Message, call Call, parse func(raw string) (Out, error)) (Out, error) {
	var zero Out

	inv.advance(StageMessageSent)
	raw, err := r.chat.Chat(ctx, messages, call.options())
	if err != nil {
		inv.finish(err)
		return zero, err
	}

	inv.advance(StageResponseReceived,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	out, err := parse(raw)
	if err != nil {
		inv.finish(err)
		return zero, err
	}
	inv.advance(StageParsed)
	inv.finish(nil)

	return out, nil
}
