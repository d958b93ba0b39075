package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type poSource struct {
	db *DB
}

// NewPOSource reads backend records straight from the backend's database.
func NewPOSource(db *DB) *poSource {
	return &poSource{db: db}
}

var (
	_ repository.POSource        = (*poSource)(nil)
	_ repository.BatchItemSource = (*poSource)(nil)
)

func (r *poSource) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `
		SELECT id, name, COALESCE(contact_email, '') AS contact_email, COALESCE(rating, 0) AS rating
		FROM supplier
		ORDER BY id
	`

	var suppliers []domain.Supplier
	if err := sqlx.SelectContext(ctx, r.db, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *poSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, username FROM users ORDER BY id`

	var users []domain.User
	if err := sqlx.SelectContext(ctx, r.db, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *poSource) ListPurchaseOrders(ctx context.Context) ([]domain.BackendPurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, date_created, date_expected, created_by_id, status, notes
		FROM purchaseorder
		ORDER BY id
	`

	var pos []domain.BackendPurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db, &pos, query); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return pos, nil
}

type poItemRow struct {
	ID          int64           `db:"id"`
	POID        int64           `db:"po_id"`
	ComponentID sql.NullInt64   `db:"component_id"`
	Description sql.NullString  `db:"description"`
	OrderedQty  int64           `db:"ordered_qty"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
}

func (row poItemRow) toDomain() domain.BackendPOItem {
	item := domain.BackendPOItem{
		ID:         row.ID,
		POID:       row.POID,
		OrderedQty: row.OrderedQty,
		UnitCost:   row.UnitCost,
	}
	if row.ComponentID.Valid {
		id := row.ComponentID.Int64
		item.Component.ID = &id
	}
	if row.Description.Valid {
		desc := row.Description.String
		item.Component.Description = &desc
	}
	return item
}

const poItemColumns = `
	i.id, i.po_id, i.component_id, c.description, i.ordered_qty, i.unit_cost
`

func (r *poSource) ListPOItems(ctx context.Context, poID int64) ([]domain.BackendPOItem, error) {
	query := `SELECT ` + poItemColumns + `
		FROM poitem i
		LEFT JOIN component c ON c.id = i.component_id
		WHERE i.po_id = $1
		ORDER BY i.id
	`

	var rows []poItemRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, poID); err != nil {
		return nil, fmt.Errorf("failed to list items for po %d: %w", poID, err)
	}

	items := make([]domain.BackendPOItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// ListPOItemsByPOIDs loads the items of every given purchase order at once.
// Orders without items are present in the result with an empty slice.
func (r *poSource) ListPOItemsByPOIDs(ctx context.Context, poIDs []int64) (map[int64][]domain.BackendPOItem, error) {
	result := make(map[int64][]domain.BackendPOItem, len(poIDs))
	if len(poIDs) == 0 {
		return result, nil
	}
	for _, id := range poIDs {
		result[id] = []domain.BackendPOItem{}
	}

	query := `SELECT ` + poItemColumns + `
		FROM poitem i
		LEFT JOIN component c ON c.id = i.component_id
		WHERE i.po_id = ANY($1)
		ORDER BY i.po_id, i.id
	`

	var rows []poItemRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, pq.Array(poIDs)); err != nil {
		return nil, fmt.Errorf("failed to list items for %d purchase orders: %w", len(poIDs), err)
	}

	for _, row := range rows {
		result[row.POID] = append(result[row.POID], row.toDomain())
	}
	return result, nil
}

func (r *poSource) CreatePurchaseOrder(ctx context.Context, input domain.NewPurchaseOrder) (*domain.BackendPurchaseOrder, error) {
	po := &domain.BackendPurchaseOrder{
		SupplierID:   input.SupplierID,
		DateCreated:  input.DateCreated,
		DateExpected: input.DateExpected,
		CreatedByID:  input.CreatedByID,
		Status:       domain.BackendDraft,
		Notes:        input.Notes,
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO purchaseorder (supplier_id, date_created, date_expected, created_by_id, status, notes)
			VALUES ($1, COALESCE($2, NOW()), $3, $4, $5, $6)
			RETURNING id, date_created
		`
		return tx.QueryRowContext(ctx, query,
			po.SupplierID,
			po.DateCreated,
			po.DateExpected,
			po.CreatedByID,
			string(po.Status),
			po.Notes,
		).Scan(&po.ID, &po.DateCreated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	return po, nil
}

func (r *poSource) UpdatePurchaseOrderStatus(ctx context.Context, poID int64, status domain.BackendStatus) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE purchaseorder SET status = $1 WHERE id = $2`, string(status), poID)
		if err != nil {
			return fmt.Errorf("failed to update status of po %d: %w", poID, err)
		}
		return requireAffected(res, poID)
	})
}

func (r *poSource) DeletePurchaseOrder(ctx context.Context, poID int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM poitem WHERE po_id = $1`, poID); err != nil {
			return fmt.Errorf("failed to delete items of po %d: %w", poID, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM purchaseorder WHERE id = $1`, poID)
		if err != nil {
			return fmt.Errorf("failed to delete po %d: %w", poID, err)
		}
		return requireAffected(res, poID)
	})
}

func requireAffected(res sql.Result, poID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("po %d: %w", poID, repository.ErrNotFound)
	}
	return nil
}
