// Package assist orchestrates the LLM intents: chat passthrough, text
// translation, and note generation with an optional second translation
// pass.
package assist

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/quicknote/quicknote-api/internal/extract"
	"github.com/quicknote/quicknote-api/internal/llm"
	"github.com/quicknote/quicknote-api/internal/prompt"
	"github.com/quicknote/quicknote-api/pkg/notes"
)

// Completer is the slice of the gateway the service needs.
type Completer interface {
	Complete(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error)
}

// Service runs the prompt -> gateway -> extract pipelines.
type Service struct {
	completer        Completer
	model            string
	chatModel        string
	targetLanguage   string
	generateLanguage string
	log              *logrus.Entry
}

type Config struct {
	Completer        Completer
	Model            string
	ChatModel        string
	TargetLanguage   string
	GenerateLanguage string
	Logger           *logrus.Entry
}

func NewService(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		completer:        cfg.Completer,
		model:            cfg.Model,
		chatModel:        cfg.ChatModel,
		targetLanguage:   cfg.TargetLanguage,
		generateLanguage: cfg.GenerateLanguage,
		log:              log,
	}
}

// Chat proxies the prompt to the chat model and returns the raw reply.
func (s *Service) Chat(ctx context.Context, userPrompt string) (string, error) {
	opts := llm.DefaultOptions()
	opts.MaxTokens = 512
	return s.completer.Complete(ctx, s.chatModel, prompt.Chat(userPrompt), opts)
}

// Translate translates text into target (service default when empty).
func (s *Service) Translate(ctx context.Context, text string, target string) (string, error) {
	if target == "" {
		target = s.targetLanguage
	}
	raw, err := s.completer.Complete(ctx, s.model, prompt.Translate(text, target), llm.DefaultOptions())
	if err != nil {
		return "", err
	}
	return extract.Translation(raw), nil
}

// GenerateNote produces a note draft from a free-form prompt. When the
// requested language differs from the default, a second sequential
// translation pass rewrites the draft; if that pass returns unparseable
// text, the whole reply replaces the content while the title from the
// first pass is kept.
func (s *Service) GenerateNote(ctx context.Context, userPrompt string, language string) (notes.Draft, error) {
	if language == "" {
		language = s.generateLanguage
	}

	opts := llm.DefaultOptions()
	opts.Temperature = prompt.GenerateTemperature

	raw, err := s.completer.Complete(ctx, s.model, prompt.GenerateNote(userPrompt, language), opts)
	if err != nil {
		return notes.Draft{}, err
	}
	draft := extract.Draft(raw)

	if language == s.generateLanguage {
		return draft, nil
	}

	translated, err := s.completer.Complete(ctx, s.model, prompt.Retranslate(draft, language), opts)
	if err != nil {
		if llm.IsContentFiltered(err) {
			return notes.Draft{}, err
		}
		// Best effort: the first-pass draft is still usable.
		s.log.WithError(err).Warn("draft translation pass failed; returning untranslated draft")
		return draft, nil
	}

	if parsed, ok := extract.DraftJSON(translated); ok {
		parsed.Title = extract.TruncateTitle(parsed.Title)
		return parsed, nil
	}
	draft.Content = translated
	return draft, nil
}
