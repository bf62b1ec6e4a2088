package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiello/tracy/internal/domain"
)

// fakeModel counts narrative calls.
type fakeModel struct {
	calls int
	text  string
	err   error
}

func (f *fakeModel) GenerateText(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeModel) GenerateStructured(_ context.Context, _ string) (map[string]interface{}, error) {
	return nil, errors.New("not used")
}

func TestAnswerCachesLocalResult(t *testing.T) {
	ledger := &fakeLedger{expenses: dec("120")}
	p := NewPipeline(ledger, nil, "$", zerolog.Nop())

	first := p.Answer(context.Background(), "How much did I SPEND  ")
	callsAfterFirst := ledger.calls
	second := p.Answer(context.Background(), "how much did i spend")

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, ledger.calls, "second answer must come from cache with no recomputation")
}

func TestAnswerBudgetNoExternalCalls(t *testing.T) {
	ledger := &fakeLedger{expenses: dec("120")}
	model := &fakeModel{text: "should not be called"}
	p := NewPipeline(ledger, model, "$", zerolog.Nop())

	got := p.Answer(context.Background(), "how's my budget")
	assert.Equal(t, NoBudgetsMessage, got)
	assert.Zero(t, model.calls, "budget intent is answered locally")
}

func TestAnswerNarrativeFallback(t *testing.T) {
	ledger := &fakeLedger{
		income:   dec("3000"),
		expenses: dec("1800"),
		accounts: []domain.Account{{Name: "Checking", Balance: dec("500")}},
	}
	model := &fakeModel{text: "  Based on your numbers, a boat seems ambitious.  "}
	p := NewPipeline(ledger, model, "$", zerolog.Nop())

	got := p.Answer(context.Background(), "should I buy a boat")
	assert.Equal(t, "Based on your numbers, a boat seems ambitious.", got)
	assert.Equal(t, 1, model.calls)

	// Second identical query is served from cache: still one model call.
	again := p.Answer(context.Background(), "should I buy a boat")
	assert.Equal(t, got, again)
	assert.Equal(t, 1, model.calls)
}

func TestAnswerNarrativeFailureReturnsHelp(t *testing.T) {
	model := &fakeModel{err: errors.New("provider down")}
	p := NewPipeline(&fakeLedger{}, model, "$", zerolog.Nop())

	got := p.Answer(context.Background(), "should I buy a boat")
	assert.Equal(t, HelpMessage, got)

	// Failures are not cached: the next attempt calls the model again.
	p.Answer(context.Background(), "should I buy a boat")
	assert.Equal(t, 2, model.calls)
}

func TestAnswerNilModelReturnsHelp(t *testing.T) {
	p := NewPipeline(&fakeLedger{}, nil, "$", zerolog.Nop())
	got := p.Answer(context.Background(), "should I buy a boat")
	assert.Equal(t, HelpMessage, got)
}

func TestAnswerEmptyQuery(t *testing.T) {
	p := NewPipeline(&fakeLedger{}, nil, "$", zerolog.Nop())
	assert.Equal(t, HelpMessage, p.Answer(context.Background(), "   "))
}

func TestResponseCacheTTL(t *testing.T) {
	c := NewResponseCache(5 * time.Minute)
	current := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Put("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	// Just inside the TTL.
	current = current.Add(5 * time.Minute)
	_, ok = c.Get("k")
	assert.True(t, ok)

	// Past the TTL: lazily evicted.
	current = current.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "how much did i spend", NormalizeKey("  How Much did I SPEND "))
}

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC)
	from, to := monthWindow(now)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), to)
}
