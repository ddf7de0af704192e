package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/service"
)

// CategoryLookup is a read-only view over the category module's table. The
// category module owns that table's lifecycle; this core only checks that a
// referenced category exists, is active, and matches the transaction type.
type CategoryLookup struct {
	db *sql.DB
}

func NewCategoryLookup(db *sql.DB) *CategoryLookup {
	return &CategoryLookup{db: db}
}

func (l *CategoryLookup) Lookup(ctx context.Context, tenantID, categoryID string) (*service.Category, error) {
	query := `SELECT id, type, is_active FROM categories WHERE tenant_id = $1 AND id = $2`

	cat := &service.Category{}
	err := l.db.QueryRowContext(ctx, query, tenantID, categoryID).Scan(&cat.ID, &cat.Type, &cat.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("category %s not found", categoryID)
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}
