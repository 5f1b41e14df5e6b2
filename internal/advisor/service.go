package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/internal/market"
	"github.com/Qualiasolutions/chainwise-advisor/internal/personas"
	"github.com/Qualiasolutions/chainwise-advisor/internal/premiumtools"
	"github.com/Qualiasolutions/chainwise-advisor/internal/scenarios"
	"github.com/Qualiasolutions/chainwise-advisor/internal/subscription"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/llm"
	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

const (
	defaultMaxTokens   = 800
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second
	maxHistoryMessages = 20
)

// DocsProvider supplies optional documentation context for a message.
type DocsProvider interface {
	FetchContext(ctx context.Context, message string) string
}

// MarketProvider supplies the current market snapshot.
type MarketProvider interface {
	GetCurrentMarketData(ctx context.Context) *market.Snapshot
}

// Config wires the advisor service.
type Config struct {
	// Backend is the live completion provider. When nil the service runs
	// in mock-only mode; every response comes from the fallback generator.
	Backend llm.Provider
	Docs    DocsProvider
	Market  MarketProvider
	Logger  logging.Logger
	Metrics *Metrics
	// Timeout bounds each completion call. Defaults to 30s.
	Timeout time.Duration
}

// Service is the credit-gated AI response pipeline: it assembles prompts
// from persona templates, scenario context, documentation snippets, and
// live market data, then calls the completion backend with deterministic
// mock fallback.
type Service struct {
	backend llm.Provider
	docs    DocsProvider
	market  MarketProvider
	logger  logging.Logger
	metrics *Metrics
	timeout time.Duration
}

func NewService(cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		backend: cfg.Backend,
		docs:    cfg.Docs,
		market:  cfg.Market,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		timeout: timeout,
	}
}

// ChatOptions parameterize one chat generation.
type ChatOptions struct {
	Persona     string
	Message     string
	History     []llm.Message
	UserTier    subscription.Tier
	MaxTokens   int
	Temperature float64
}

// Result is a generated response. Fallback reports whether the text came
// from the mock generator instead of the live model.
type Result struct {
	Text         string
	Fallback     bool
	Model        string
	InputTokens  int
	OutputTokens int
}

// GenerateChatResponse produces a persona-voiced reply. The only hard
// failure is an unknown persona; every downstream problem degrades to the
// deterministic mock generator so the caller always gets usable text.
func (s *Service) GenerateChatResponse(ctx context.Context, opts ChatOptions) (*Result, error) {
	persona, ok := personas.Get(opts.Persona)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPersona, opts.Persona)
	}

	docsSnippet := ""
	if s.docs != nil {
		docsSnippet = s.docs.FetchContext(ctx, opts.Message)
	}
	snapshot := s.market.GetCurrentMarketData(ctx)
	scenario := scenarios.Identify(opts.Message, snapshot)

	if scenario != nil {
		s.logger.WithFields(logging.Fields{
			"persona":  persona.ID,
			"scenario": scenario.ID,
			"applies":  scenario.AppliesTo(persona.ID),
		}).Debug("Scenario matched")
	}

	system := buildChatSystemPrompt(persona, scenario, docsSnippet, snapshot, opts.UserTier)

	history := opts.History
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: opts.Message})

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	resp, err := s.complete(ctx, llm.Request{
		Model:       persona.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.logger.WithError(err).WithField("persona", persona.ID).Warn("Completion failed; serving mock response")
		s.metrics.recordCompletion("chat", persona.ID, "fallback")
		return &Result{
			Text:     mockChatResponse(persona, opts.Message, snapshot),
			Fallback: true,
			Model:    persona.Model,
		}, nil
	}

	s.metrics.recordCompletion("chat", persona.ID, "live")
	s.metrics.recordTokens(resp.InputTokens, resp.OutputTokens)
	s.logger.WithFields(logging.Fields{
		"persona":       persona.ID,
		"input_tokens":  resp.InputTokens,
		"output_tokens": resp.OutputTokens,
	}).Debug("Chat completion succeeded")

	return &Result{
		Text:         resp.Content,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// GeneratePremiumToolResponse runs a premium tool. Unknown tools and
// insufficient tiers fail fast before any external call; everything else
// degrades to the mock generator.
func (s *Service) GeneratePremiumToolResponse(ctx context.Context, toolID string, userInput map[string]interface{}, userTier subscription.Tier, maxTokens int) (*Result, error) {
	tool, ok := premiumtools.Get(toolID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTool, toolID)
	}
	if !userTier.Allows(tool.RequiredTier) {
		return nil, fmt.Errorf("%w: %s requires %s, user has %s",
			ErrInsufficientTier, tool.ID, tool.RequiredTier, userTier)
	}

	snapshot := s.market.GetCurrentMarketData(ctx)
	system := buildToolSystemPrompt(tool, snapshot)

	input, err := json.Marshal(userInput)
	if err != nil {
		input = []byte("{}")
	}

	if maxTokens <= 0 {
		maxTokens = 2 * defaultMaxTokens
	}

	resp, err := s.complete(ctx, llm.Request{
		Model: premiumtools.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: string(input)},
		},
		MaxTokens:   maxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		s.logger.WithError(err).WithField("tool", tool.ID).Warn("Tool completion failed; serving mock response")
		s.metrics.recordCompletion("tool", tool.ID, "fallback")
		return &Result{
			Text:     mockToolResponse(tool, snapshot),
			Fallback: true,
			Model:    premiumtools.Model,
		}, nil
	}

	s.metrics.recordCompletion("tool", tool.ID, "live")
	s.metrics.recordTokens(resp.InputTokens, resp.OutputTokens)

	return &Result{
		Text:         resp.Content,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// complete makes exactly one attempt against the live backend under the
// service timeout. A nil backend reports missing credentials so the caller
// lands on the same fallback branch as any other completion failure.
func (s *Service) complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if s.backend == nil {
		return nil, llm.ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.backend.Complete(ctx, req)
}
