// Package bot is the Telegram front-end: record transactions by typing
// them, ask questions the same way.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/query"
)

// Parser turns free text into a structured transaction.
type Parser interface {
	Parse(ctx context.Context, text string) domain.ParsedTransaction
}

// Querier answers a financial question.
type Querier interface {
	Answer(ctx context.Context, question string) string
}

// Store persists parsed transactions.
type Store interface {
	InsertParsed(ctx context.Context, p domain.ParsedTransaction) (domain.Transaction, error)
}

// Sender abstracts the Telegram API for tests.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot routes incoming Telegram messages to the parse and query pipelines.
type Bot struct {
	api     *tgbotapi.BotAPI
	sender  Sender
	parser  Parser
	querier Querier
	store   Store
	ledger  query.Ledger
	allowed map[int64]bool // empty means everyone
	log     zerolog.Logger
}

// New connects to Telegram and builds the bot.
func New(token string, parser Parser, querier Querier, store Store, ledger query.Ledger, allowed []int64, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot.New: %w", err)
	}
	b := newBot(api, parser, querier, store, ledger, allowed, log)
	b.api = api
	return b, nil
}

func newBot(sender Sender, parser Parser, querier Querier, store Store, ledger query.Ledger, allowed []int64, log zerolog.Logger) *Bot {
	allowedSet := make(map[int64]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}
	return &Bot{
		sender:  sender,
		parser:  parser,
		querier: querier,
		store:   store,
		ledger:  ledger,
		allowed: allowedSet,
		log:     log,
	}
}

// Run polls for updates until ctx is cancelled. Poll failures restart
// with exponential backoff rather than killing the daemon.
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot.Run: not connected")
	}
	b.log.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	op := func() error {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates := b.api.GetUpdatesChan(u)
		for {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return backoff.Permanent(ctx.Err())
			case update, ok := <-updates:
				if !ok {
					return errors.New("update channel closed")
				}
				b.handleUpdate(ctx, update)
			}
		}
	}

	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err := backoff.RetryNotify(op, bo, func(err error, next time.Duration) {
		b.log.Warn().Err(err).Dur("retry_in", next).Msg("poll loop restarting")
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message
	if len(b.allowed) > 0 && !b.allowed[msg.Chat.ID] {
		b.log.Warn().Int64("chat_id", msg.Chat.ID).Msg("ignoring message from unknown chat")
		return
	}

	var reply string
	switch {
	case msg.IsCommand():
		reply = b.handleCommand(ctx, msg.Command())
	case looksLikeQuestion(msg.Text):
		reply = b.querier.Answer(ctx, msg.Text)
	default:
		reply = b.record(ctx, msg.Text)
	}
	b.reply(msg.Chat.ID, reply)
}

func (b *Bot) handleCommand(ctx context.Context, cmd string) string {
	switch cmd {
	case "start":
		return "Hi! Send me a transaction like \"lunch 12.50 at cafe\" and I'll record it. Ask me questions like \"how much did I spend this month?\" any time."
	case "help":
		return "Record: just type what happened, e.g. \"-45, groceries, Lidl\" or \"+3000, salary\".\nAsk: \"how much did I spend?\", \"what's my balance?\", \"am I over budget?\".\n/summary shows this month at a glance."
	case "summary":
		return b.summary(ctx)
	default:
		return "Unknown command. Try /help."
	}
}

func (b *Bot) record(ctx context.Context, text string) string {
	parsed := b.parser.Parse(ctx, text)
	stored, err := b.store.InsertParsed(ctx, parsed)
	if err != nil {
		if errors.Is(err, domain.ErrNoAmount) {
			return "I couldn't find an amount in that. Include a number, e.g. \"coffee 4.50\"."
		}
		b.log.Error().Err(err).Msg("store transaction")
		return "Something went wrong saving that, sorry."
	}
	verb := "Recorded"
	if stored.Type == domain.TypeIncome {
		verb = "Recorded income"
	}
	return fmt.Sprintf("%s: %s %s (%s) on %s.",
		verb, stored.Amount.Abs().StringFixed(2), stored.Category, stored.Description, stored.Date.Format("2006-01-02"))
}

func (b *Bot) summary(ctx context.Context) string {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	fc, err := query.BuildContext(ctx, b.ledger, from, from.AddDate(0, 1, 0))
	if err != nil {
		b.log.Error().Err(err).Msg("build summary")
		return "Couldn't compute the summary right now."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "This month so far:\n")
	fmt.Fprintf(&sb, "Income: %s\n", fc.TotalIncome.StringFixed(2))
	fmt.Fprintf(&sb, "Expenses: %s\n", fc.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&sb, "Net: %s\n", fc.Net.StringFixed(2))
	for _, c := range fc.TopCategories {
		fmt.Fprintf(&sb, "  %s: %s\n", c.Category, c.Total.StringFixed(2))
	}
	return sb.String()
}

func (b *Bot) reply(chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send reply")
	}
}

var questionLeads = []string{"how", "what", "where", "when", "did", "do", "am", "are", "can", "show", "give"}

// looksLikeQuestion decides whether text is a question for the query
// pipeline rather than a transaction to record.
func looksLikeQuestion(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if strings.HasSuffix(t, "?") {
		return true
	}
	first, _, _ := strings.Cut(t, " ")
	for _, lead := range questionLeads {
		if first == lead {
			return true
		}
	}
	return false
}
