// Package archive exports the local ledger to BigQuery and keeps
// timestamped database backups in GCS. Everything here is optional at
// runtime; missing cloud credentials surface as ordinary errors and
// never affect local tracking.
package archive

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/xiello/tracy/internal/domain"
)

const (
	transactionsTable = "transactions"
	dateFormat        = "2006-01-02"
)

// TransactionRow is the BigQuery shape of one ledger entry.
type TransactionRow struct {
	TransactionID string              `bigquery:"transaction_id"`
	Type          string              `bigquery:"type"`
	Category      string              `bigquery:"category"`
	Merchant      bigquery.NullString `bigquery:"merchant"`
	Description   string              `bigquery:"description"`

	// Amount is signed as stored locally: negative for expenses.
	Amount *big.Rat `bigquery:"amount"`

	TransactionDate civil.Date `bigquery:"transaction_date"`
	CreatedTS       time.Time  `bigquery:"created_ts"`
	ExportedTS      time.Time  `bigquery:"exported_ts"`
}

func toRow(t domain.Transaction, exportedAt time.Time) *TransactionRow {
	row := &TransactionRow{
		TransactionID:   t.ID,
		Type:            string(t.Type),
		Category:        t.Category,
		Description:     t.Description,
		Amount:          t.Amount.Rat(),
		TransactionDate: civil.DateOf(t.Date),
		CreatedTS:       t.CreatedAt,
		ExportedTS:      exportedAt,
	}
	if t.Merchant != "" {
		row.Merchant = bigquery.NullString{StringVal: t.Merchant, Valid: true}
	}
	return row
}

// Archiver exports to one BigQuery dataset and one GCS bucket.
type Archiver struct {
	project string
	dataset string
	bucket  string
	now     func() time.Time
}

// New builds an Archiver. Project and dataset are required for exports,
// bucket for backups.
func New(project, dataset, bucket string) *Archiver {
	return &Archiver{project: project, dataset: dataset, bucket: bucket, now: time.Now}
}

// ExportTransactions streams the given entries into the dataset's
// transactions table and returns the number of rows written.
func (a *Archiver) ExportTransactions(ctx context.Context, txs []domain.Transaction) (int, error) {
	if a.project == "" || a.dataset == "" {
		return 0, fmt.Errorf("ExportTransactions: archive project and dataset not configured")
	}
	if len(txs) == 0 {
		return 0, nil
	}

	client, err := bigquery.NewClient(ctx, a.project)
	if err != nil {
		return 0, fmt.Errorf("ExportTransactions: bigquery client: %w", err)
	}
	defer client.Close()

	exportedAt := a.now().UTC()
	rows := make([]*TransactionRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, toRow(t, exportedAt))
	}

	inserter := client.DatasetInProject(a.project, a.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("ExportTransactions: inserting rows: %w", err)
	}
	return len(rows), nil
}

// BackupDatabase uploads a copy of the sqlite file to the bucket under a
// timestamped object name and returns that name.
func (a *Archiver) BackupDatabase(ctx context.Context, dbPath string) (string, error) {
	if a.bucket == "" {
		return "", fmt.Errorf("BackupDatabase: archive bucket not configured")
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("BackupDatabase: open %q: %w", dbPath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("BackupDatabase: storage client: %w", err)
	}
	defer client.Close()

	objectName := path.Join("backups", a.now().UTC().Format("2006-01-02T15-04-05")+"-"+path.Base(dbPath))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("BackupDatabase: copy to writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("BackupDatabase: finalize upload: %w", err)
	}
	return objectName, nil
}

// RestoreDatabase downloads a backup object and writes it to destPath.
// The write goes through a temp file in the destination directory so a
// failed download never truncates an existing database.
func (a *Archiver) RestoreDatabase(ctx context.Context, objectName, destPath string) error {
	if a.bucket == "" {
		return fmt.Errorf("RestoreDatabase: archive bucket not configured")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("RestoreDatabase: storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(a.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("RestoreDatabase: open object %q: %w", objectName, err)
	}
	defer r.Close()

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".restore-*")
	if err != nil {
		return fmt.Errorf("RestoreDatabase: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("RestoreDatabase: download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("RestoreDatabase: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return fmt.Errorf("RestoreDatabase: replace %q: %w", destPath, err)
	}
	return nil
}

// Backup is one stored database copy.
type Backup struct {
	Name    string
	Size    int64
	Created time.Time
}

// ListBackups lists prior database backups, newest last.
func (a *Archiver) ListBackups(ctx context.Context) ([]Backup, error) {
	if a.bucket == "" {
		return nil, fmt.Errorf("ListBackups: archive bucket not configured")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBackups: storage client: %w", err)
	}
	defer client.Close()

	var backups []Backup
	it := client.Bucket(a.bucket).Objects(ctx, &storage.Query{Prefix: "backups/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBackups: iter next: %w", err)
		}
		backups = append(backups, Backup{
			Name:    attrs.Name,
			Size:    attrs.Size,
			Created: attrs.Created,
		})
	}
	return backups, nil
}
