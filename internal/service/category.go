package service

import (
	"context"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
)

// Category is the slice of category state the lifecycle manager needs.
type Category struct {
	ID     string
	Type   models.TransactionType
	Active bool
}

// CategoryValidator is implemented by the category module outside this core.
// Lookup returns NotFound when the category is absent in the tenant's scope.
type CategoryValidator interface {
	Lookup(ctx context.Context, tenantID, categoryID string) (*Category, error)
}
