package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
)

// LoadCatalog builds the parser's category catalog from the category table,
// preserving stored position order. An empty table is first seeded with the
// built-in defaults so a fresh database parses out of the box.
func (s *Store) LoadCatalog(ctx context.Context) (*category.Catalog, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return nil, fmt.Errorf("LoadCatalog: count: %w", err)
	}
	if count == 0 {
		if err := s.seedCategories(ctx, category.Default().All()); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, grp, keywords FROM categories ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("LoadCatalog: query: %w", err)
	}
	defer rows.Close()

	var defs []category.Definition
	for rows.Next() {
		var d category.Definition
		var typeStr, keywordsJSON string
		if err := rows.Scan(&d.ID, &d.Name, &typeStr, &d.Group, &keywordsJSON); err != nil {
			return nil, fmt.Errorf("LoadCatalog: scan: %w", err)
		}
		d.Type = domain.TransactionType(typeStr)
		if err := json.Unmarshal([]byte(keywordsJSON), &d.Keywords); err != nil {
			return nil, fmt.Errorf("LoadCatalog: keywords for %s: %w", d.Name, err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return category.NewCatalog(defs), nil
}

func (s *Store) seedCategories(ctx context.Context, defs []category.Definition) error {
	for i, d := range defs {
		keywords, err := json.Marshal(d.Keywords)
		if err != nil {
			return fmt.Errorf("seedCategories: marshal keywords: %w", err)
		}
		if d.Keywords == nil {
			keywords = []byte("[]")
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories (id, name, type, grp, keywords, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, d.ID, d.Name, string(d.Type), d.Group, string(keywords), i)
		if err != nil {
			return fmt.Errorf("seedCategories: insert %s: %w", d.Name, err)
		}
	}
	return nil
}
