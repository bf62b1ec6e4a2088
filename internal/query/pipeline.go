package query

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiello/tracy/internal/llm"
)

// HelpMessage is the fixed reply when the narrative fallback fails. It is
// never cached and never surfaced as an error.
const HelpMessage = "I couldn't work that one out. Try asking about your " +
	"spending, income, balance, budgets, savings, or a monthly summary."

// Pipeline answers free-text questions. Lookup order: response cache, local
// intent answerer, narrative model over a computed financial context. It
// always returns a non-empty string and never an error.
type Pipeline struct {
	answerer *Answerer
	ledger   Ledger
	model    llm.Client // nil disables the narrative fallback
	cache    *ResponseCache
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a query Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithCache replaces the default 5-minute cache.
func WithCache(c *ResponseCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// NewPipeline creates a query pipeline over the ledger. model may be nil.
func NewPipeline(ledger Ledger, model llm.Client, symbol string, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		answerer: NewAnswerer(ledger, symbol),
		ledger:   ledger,
		model:    model,
		cache:    NewResponseCache(DefaultCacheTTL),
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Answer resolves one question against the current calendar month.
func (p *Pipeline) Answer(ctx context.Context, query string) string {
	key := NormalizeKey(query)
	if key == "" {
		return HelpMessage
	}

	if text, ok := p.cache.Get(key); ok {
		cacheHitsTotal.Inc()
		return text
	}

	from, to := monthWindow(p.now())

	text, handled, err := p.answerer.Answer(ctx, key, from, to)
	if err != nil {
		p.log.Warn().Err(err).Str("query", key).Msg("local answer failed")
		return HelpMessage
	}
	if handled {
		localAnswersTotal.Inc()
		p.cache.Put(key, text)
		return text
	}

	return p.narrative(ctx, key, query, from, to)
}

// narrative is the model fallback for unrecognized intents: one call over a
// compact financial context, single attempt, generic help string on failure.
func (p *Pipeline) narrative(ctx context.Context, key, original string, from, to time.Time) string {
	if p.model == nil {
		return HelpMessage
	}

	fc, err := BuildContext(ctx, p.ledger, from, to)
	if err != nil {
		p.log.Warn().Err(err).Msg("building financial context failed")
		return HelpMessage
	}

	narrativeCallsTotal.Inc()
	prompt := buildNarrativePrompt(fc, original)
	text, err := p.model.GenerateText(ctx, prompt)
	if err != nil {
		p.log.Debug().Err(err).Str("query", key).Msg("narrative generation failed")
		return HelpMessage
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return HelpMessage
	}
	p.cache.Put(key, text)
	return text
}

func buildNarrativePrompt(fc *FinancialContext, question string) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Answer the user's question ")
	b.WriteString("using ONLY the financial snapshot below. Be concise (2-4 sentences), ")
	b.WriteString("concrete, and do not invent numbers that are not in the snapshot.\n\n")
	b.WriteString("Snapshot:\n")
	b.WriteString(fc.PromptSummary())
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// monthWindow returns [start of the current month, start of the next month).
func monthWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
