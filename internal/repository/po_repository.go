package repository

import (
	"context"
	"errors"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
)

// POSource reads and writes the backend records the dashboard is built from.
// Implemented by the REST client and the Postgres source.
type POSource interface {
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListPurchaseOrders(ctx context.Context) ([]domain.BackendPurchaseOrder, error)
	ListPOItems(ctx context.Context, poID int64) ([]domain.BackendPOItem, error)

	CreatePurchaseOrder(ctx context.Context, input domain.NewPurchaseOrder) (*domain.BackendPurchaseOrder, error)
	UpdatePurchaseOrderStatus(ctx context.Context, poID int64, status domain.BackendStatus) error
	DeletePurchaseOrder(ctx context.Context, poID int64) error
}

// ErrNotFound is returned when a purchase order does not exist in the source.
var ErrNotFound = errors.New("purchase order not found")

// BatchItemSource is implemented by sources that can load the line items of
// many purchase orders in one round trip.
type BatchItemSource interface {
	ListPOItemsByPOIDs(ctx context.Context, poIDs []int64) (map[int64][]domain.BackendPOItem, error)
}
