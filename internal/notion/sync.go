package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/logger"
)

// SyncResult counts what a sync did (or, in dry-run mode, would do).
type SyncResult struct {
	Created int
	Skipped int
	Deleted int
}

// SyncTransactions mirrors the given ledger entries into the Notion
// database: creates pages for entries not yet synced, leaves existing
// pages alone, and archives pages whose entry no longer exists locally.
// Per-page failures are logged and skipped so one bad page cannot abort
// the whole sync.
func SyncTransactions(ctx context.Context, svc Service, databaseID string, txs []domain.Transaction, dryRun bool) (SyncResult, error) {
	log := logger.FromContext(ctx)
	var res SyncResult

	log.Info().
		Int("transaction_count", len(txs)).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	valid := make(map[string]bool, len(txs))
	for _, tx := range txs {
		valid[tx.ID] = true
	}

	pages, err := queryAllPages(ctx, svc, databaseID)
	if err != nil {
		return res, fmt.Errorf("SyncTransactions: %w", err)
	}

	existing := make(map[string]bool, len(pages))
	for _, page := range pages {
		txID := pageTransactionID(page)
		if txID != "" {
			existing[txID] = true
		}
	}

	// Archive pages whose entry was deleted locally, and pages from an
	// older sync that carry no Transaction ID.
	for _, page := range pages {
		txID := pageTransactionID(page)
		if txID != "" && valid[txID] {
			continue
		}
		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			res.Deleted++
			continue
		}
		if err := svc.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		res.Deleted++
	}

	for _, tx := range txs {
		if existing[tx.ID] {
			res.Skipped++
			continue
		}
		if dryRun {
			log.Info().
				Str("transaction_id", tx.ID).
				Msg("[DRY RUN] Would create Notion page")
			res.Created++
			continue
		}
		page, err := svc.CreatePage(ctx, databaseID, transactionProperties(tx))
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", tx.ID).
				Msg("Failed to create Notion page")
			continue
		}
		log.Debug().
			Str("transaction_id", tx.ID).
			Str("page_id", string(page.ID)).
			Msg("Created Notion page")
		res.Created++
	}

	log.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("deleted", res.Deleted).
		Msg("Transaction sync completed")

	return res, nil
}

// queryAllPages pages through the database 100 results at a time.
func queryAllPages(ctx context.Context, svc Service, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := svc.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
