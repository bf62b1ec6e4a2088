// Package pipeline orchestrates transaction parsing: the rule-based fast
// path, the confidence-gated escalation to a model, and validation/repair of
// whatever the model returns.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/llm"
	"github.com/xiello/tracy/internal/parse"
)

// Pipeline is the top-level transaction parser.
type Pipeline struct {
	rules     *parse.Parser
	model     llm.Client // nil disables escalation entirely
	validator *Validator
	catalog   *category.Catalog
	threshold float64
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithThreshold overrides the escalation threshold.
func WithThreshold(t float64) Option {
	return func(p *Pipeline) { p.threshold = t }
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a parsing pipeline. model may be nil, in which case every parse
// is answered by the rule path alone.
func New(catalog *category.Catalog, model llm.Client, log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		model:     model,
		catalog:   catalog,
		threshold: ConfidenceThreshold,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rules = parse.NewParser(catalog, parse.WithClock(p.now))
	p.validator = NewValidator(catalog, p.now)
	return p
}

// Parse turns free text into a ParsedTransaction. It never returns an error:
// malformed input surfaces as a zero amount or a fallback category, and any
// escalation failure silently keeps the rule-based result. Callers must check
// Persistable before storing.
func (p *Pipeline) Parse(ctx context.Context, text string) domain.ParsedTransaction {
	parsesTotal.Inc()

	ruleResult := p.rules.Parse(text)
	if p.model == nil || Decide(ruleResult.Confidence, p.threshold) == Done {
		return ruleResult
	}

	escalationsTotal.Inc()
	p.log.Debug().
		Str("text", text).
		Float64("confidence", ruleResult.Confidence).
		Msg("rule confidence below threshold, escalating to model")

	repaired, err := p.escalate(ctx, text)
	if err != nil {
		escalationFailuresTotal.Inc()
		p.log.Debug().Err(err).Msg("escalation failed, keeping rule-based result")
		return ruleResult
	}
	return repaired
}

// escalate makes exactly one structured-extraction attempt and repairs the
// output. Provider-internal retries are the provider's business.
func (p *Pipeline) escalate(ctx context.Context, text string) (domain.ParsedTransaction, error) {
	today := p.now().Format("2006-01-02")
	prompt := buildExtractionPrompt(
		text,
		today,
		p.catalog.Names(domain.TypeExpense),
		p.catalog.Names(domain.TypeIncome),
	)

	raw, err := p.model.GenerateStructured(ctx, prompt)
	if err != nil {
		return domain.ParsedTransaction{}, err
	}

	candidate, err := transformModelOutput(raw)
	if err != nil {
		return domain.ParsedTransaction{}, err
	}

	return p.validator.Repair(candidate), nil
}
