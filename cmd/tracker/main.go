// tracker is the command-line front-end: record transactions, ask
// questions, and manage budgets and accounts from the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/archive"
	"github.com/xiello/tracy/internal/config"
	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/infra/sqlite"
	"github.com/xiello/tracy/internal/llm"
	"github.com/xiello/tracy/internal/logger"
	"github.com/xiello/tracy/internal/notion"
	"github.com/xiello/tracy/internal/pipeline"
	"github.com/xiello/tracy/internal/query"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(defaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	switch os.Args[1] {
	case "add":
		runAdd(cfg, log)
	case "parse":
		runParse(cfg, log)
	case "ask":
		runAsk(cfg, log)
	case "report":
		runReport(cfg, log)
	case "budget":
		runBudget(cfg, log)
	case "account":
		runAccount(cfg, log)
	case "archive":
		runArchive(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Tracy — plain-text finance tracking")
	fmt.Println("\nUsage:")
	fmt.Println("  tracker <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add       Record a transaction from free text")
	fmt.Println("  parse     Parse text and print the result without saving")
	fmt.Println("  ask       Ask a question about your finances")
	fmt.Println("  report    Show this month's totals and top categories")
	fmt.Println("  budget    Set or list monthly budgets")
	fmt.Println("  account   Set or list accounts")
	fmt.Println("  archive   Export to BigQuery, back up / restore via GCS, mirror to Notion")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'tracker <command> -h' for more information on a command.")
}

func runAdd(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		log.Fatal().Msg("Usage: tracker add <text>, e.g. tracker add lunch 12.50 at cafe")
	}

	store := mustOpenStore(cfg, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	parser := newParser(ctx, cfg, store, log)
	parsed := parser.Parse(ctx, text)
	stored, err := store.InsertParsed(ctx, parsed)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not save transaction")
	}

	fmt.Printf("Recorded %s %s %s (%s) on %s\n",
		stored.Type, stored.Amount.Abs().StringFixed(2), stored.Category,
		stored.Description, stored.Date.Format("2006-01-02"))
}

func runParse(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		log.Fatal().Msg("Usage: tracker parse <text>")
	}

	store := mustOpenStore(cfg, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	parsed := newParser(ctx, cfg, store, log).Parse(ctx, text)
	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode result")
	}
	fmt.Println(string(out))
}

func runAsk(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	question := strings.Join(fs.Args(), " ")
	if question == "" {
		log.Fatal().Msg("Usage: tracker ask <question>")
	}

	store := mustOpenStore(cfg, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	model := newModel(cfg, log)
	querier := query.NewPipeline(store, model, cfg.Currency, log,
		query.WithCache(query.NewResponseCache(cfg.CacheTTL())))
	fmt.Println(querier.Answer(ctx, question))
}

func runReport(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	month := fs.String("month", "", "month to report, YYYY-MM (defaults to current)")
	fs.Parse(os.Args[2:])

	from := time.Now()
	if *month != "" {
		parsed, err := time.Parse("2006-01", *month)
		if err != nil {
			log.Fatal().Msg("Error: --month must be YYYY-MM")
		}
		from = parsed
	}
	from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	store := mustOpenStore(cfg, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fc, err := query.BuildContext(ctx, store, from, to)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not compute report")
	}

	fmt.Printf("Report for %s\n\n", from.Format("January 2006"))
	fmt.Printf("  Income:    %s%s\n", cfg.Currency, fc.TotalIncome.StringFixed(2))
	fmt.Printf("  Expenses:  %s%s\n", cfg.Currency, fc.TotalExpenses.StringFixed(2))
	fmt.Printf("  Net:       %s%s\n", cfg.Currency, fc.Net.StringFixed(2))
	if fc.SavingsRate.IsPositive() {
		fmt.Printf("  Savings:   %s%%\n", fc.SavingsRate.String())
	}
	if len(fc.TopCategories) > 0 {
		fmt.Println("\n  Top categories:")
		for _, c := range fc.TopCategories {
			fmt.Printf("    %-15s %s%s\n", c.Category, cfg.Currency, c.Total.StringFixed(2))
		}
	}
}

func runBudget(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	category := fs.String("category", "", "expense category to budget")
	amount := fs.String("amount", "", "monthly limit, e.g. 400")
	remove := fs.Bool("remove", false, "remove the budget for --category")
	fs.Parse(os.Args[2:])

	store := mustOpenStore(cfg, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch {
	case *remove:
		if *category == "" {
			log.Fatal().Msg("Usage: tracker budget -remove -category NAME")
		}
		if err := store.DeleteBudget(ctx, *category); err != nil {
			log.Fatal().Err(err).Msg("Could not remove budget")
		}
		fmt.Printf("Removed budget for %s\n", *category)
	case *category != "" && *amount != "":
		limit, err := decimal.NewFromString(*amount)
		if err != nil || !limit.IsPositive() {
			log.Fatal().Msg("Error: --amount must be a positive number")
		}
		b, err := store.SetBudget(ctx, domain.Budget{Category: *category, Amount: limit})
		if err != nil {
			log.Fatal().Err(err).Msg("Could not set budget")
		}
		fmt.Printf("Budget for %s set to %s%s/month\n", b.Category, cfg.Currency, b.Amount.StringFixed(2))
	default:
		budgets, err := store.Budgets(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not list budgets")
		}
		if len(budgets) == 0 {
			fmt.Println("No budgets configured. Set one with: tracker budget -category Groceries -amount 400")
			return
		}
		for _, b := range budgets {
			fmt.Printf("  %-15s %s%s/month\n", b.Category, cfg.Currency, b.Amount.StringFixed(2))
		}
	}
}

func runAccount(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("account", flag.ExitOnError)
	name := fs.String("name", "", "account name")
	accType := fs.String("type", "CURRENT", "account type: CURRENT, SAVINGS, CARD, CASH")
	balance := fs.String("balance", "", "current balance")
	fs.Parse(os.Args[2:])

	store := mustOpenStore(cfg, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *name != "" && *balance != "" {
		bal, err := decimal.NewFromString(*balance)
		if err != nil {
			log.Fatal().Msg("Error: --balance must be a number")
		}
		a, err := store.UpsertAccount(ctx, domain.Account{
			Name:     *name,
			Type:     strings.ToUpper(*accType),
			Currency: cfg.Currency,
			Balance:  bal,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Could not save account")
		}
		fmt.Printf("Account %s (%s): %s%s\n", a.Name, a.Type, cfg.Currency, a.Balance.StringFixed(2))
		return
	}

	accounts, err := store.Accounts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not list accounts")
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts yet. Add one with: tracker account -name Checking -balance 1500")
		return
	}
	var total decimal.Decimal
	for _, a := range accounts {
		fmt.Printf("  %-15s %-8s %s%s\n", a.Name, a.Type, cfg.Currency, a.Balance.StringFixed(2))
		total = total.Add(a.Balance)
	}
	fmt.Printf("  %-15s %-8s %s%s\n", "TOTAL", "", cfg.Currency, total.StringFixed(2))
}

func runArchive(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	export := fs.Bool("export", false, "export the ledger to BigQuery")
	backup := fs.Bool("backup", false, "upload a database backup to GCS")
	list := fs.Bool("list", false, "list prior backups")
	restore := fs.String("restore", "", "restore the database from a backup object, e.g. backups/2026-08-29T10-00-00-tracy.db")
	notionSync := fs.Bool("notion", false, "mirror the ledger into the configured Notion database")
	dryRun := fs.Bool("dry-run", false, "with -notion: preview changes without writing")
	since := fs.String("since", "", "only export/mirror transactions on or after YYYY-MM-DD")
	fs.Parse(os.Args[2:])

	if !*export && !*backup && !*list && !*notionSync && *restore == "" {
		log.Fatal().Msg("Usage: tracker archive [-export] [-backup] [-list] [-restore OBJECT] [-notion [-dry-run]]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	arch := archive.New(cfg.Archive.Project, cfg.Archive.Dataset, cfg.Archive.Bucket)

	if *restore != "" {
		if err := arch.RestoreDatabase(ctx, *restore, cfg.DBPath); err != nil {
			log.Fatal().Err(err).Msg("Restore failed")
		}
		fmt.Printf("Restored gs://%s/%s to %s\n", cfg.Archive.Bucket, *restore, cfg.DBPath)
	}

	if *export || *notionSync {
		store := mustOpenStore(cfg, log)
		defer store.Close()

		from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		if *since != "" {
			parsed, err := time.Parse("2006-01-02", *since)
			if err != nil {
				log.Fatal().Msg("Error: --since must be YYYY-MM-DD")
			}
			from = parsed
		}
		txs, err := store.ListTransactions(ctx, from, time.Now().AddDate(0, 0, 1))
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read ledger")
		}

		if *export {
			n, err := arch.ExportTransactions(ctx, txs)
			if err != nil {
				log.Fatal().Err(err).Msg("Export failed")
			}
			fmt.Printf("Exported %d transactions to %s.%s\n", n, cfg.Archive.Project, cfg.Archive.Dataset)
		}

		if *notionSync {
			if cfg.Archive.NotionToken == "" || cfg.Archive.NotionDatabaseID == "" {
				log.Fatal().Msg("Error: -notion needs NOTION_TOKEN set and notion_database_id configured")
			}
			res, err := notion.SyncTransactions(ctx, notion.NewClient(cfg.Archive.NotionToken),
				cfg.Archive.NotionDatabaseID, txs, *dryRun)
			if err != nil {
				log.Fatal().Err(err).Msg("Notion sync failed")
			}
			fmt.Printf("Notion sync: %d created, %d skipped, %d archived\n", res.Created, res.Skipped, res.Deleted)
		}
	}

	if *backup {
		object, err := arch.BackupDatabase(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Backup failed")
		}
		fmt.Printf("Uploaded backup gs://%s/%s\n", cfg.Archive.Bucket, object)
	}

	if *list {
		backups, err := arch.ListBackups(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not list backups")
		}
		if len(backups) == 0 {
			fmt.Println("No backups yet.")
			return
		}
		for _, b := range backups {
			fmt.Printf("  %s  %d bytes  %s\n", b.Name, b.Size, b.Created.Format(time.RFC3339))
		}
	}
}

func newParser(ctx context.Context, cfg config.Config, store *sqlite.Store, log zerolog.Logger) *pipeline.Pipeline {
	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load categories")
	}
	return pipeline.New(catalog, newModel(cfg, log), log, pipeline.WithThreshold(cfg.Model.Threshold))
}

func newModel(cfg config.Config, log zerolog.Logger) llm.Client {
	model, err := llm.New(llm.Options{
		Provider: cfg.Model.Provider,
		Model:    cfg.Model.Name,
		BaseURL:  cfg.Model.OllamaURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("model unavailable, running rule-based only")
		return nil
	}
	return model
}

func mustOpenStore(cfg config.Config, log zerolog.Logger) *sqlite.Store {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("Could not create data directory")
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open database")
	}
	return store
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tracy.toml"
	}
	return filepath.Join(home, ".tracy", "tracy.toml")
}
