package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Yahiahu/SCM-sub000/internal/repository/postgres"
)

// Load creates the schema and upserts f in one transaction.
func Load(ctx context.Context, db *sql.DB, f Fixture) error {
	if _, err := db.ExecContext(ctx, postgres.Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := load(ctx, tx, f); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertComponentByDescription reuses an existing component with the same
// description so reseeding does not duplicate rows.
const insertComponentByDescription = `
	WITH existing AS (
		SELECT id FROM component WHERE description = $1 ORDER BY id LIMIT 1
	), inserted AS (
		INSERT INTO component (description)
		SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM existing)
		RETURNING id
	)
	SELECT id FROM inserted
	UNION ALL
	SELECT id FROM existing
`

func resetSequence(ctx context.Context, tx *sql.Tx, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`,
		table)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to reset %s sequence: %w", table, err)
	}
	return nil
}

func load(ctx context.Context, tx *sql.Tx, f Fixture) error {
	for _, s := range f.Suppliers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO supplier (id, name, contact_email, rating) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, contact_email = EXCLUDED.contact_email, rating = EXCLUDED.rating`,
			s.ID, s.Name, s.ContactEmail, s.Rating); err != nil {
			return fmt.Errorf("failed to seed supplier %d: %w", s.ID, err)
		}
	}

	for _, u := range f.Users {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username`,
			u.ID, u.Username); err != nil {
			return fmt.Errorf("failed to seed user %d: %w", u.ID, err)
		}
	}

	for _, po := range f.PurchaseOrders {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO purchaseorder (id, supplier_id, date_created, date_expected, created_by_id, status, notes)
			VALUES ($1, $2, COALESCE($3, NOW()), $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				supplier_id = EXCLUDED.supplier_id,
				date_created = EXCLUDED.date_created,
				date_expected = EXCLUDED.date_expected,
				created_by_id = EXCLUDED.created_by_id,
				status = EXCLUDED.status,
				notes = EXCLUDED.notes`,
			po.ID, po.SupplierID, po.DateCreated, po.DateExpected, po.CreatedByID, string(po.Status), po.Notes); err != nil {
			return fmt.Errorf("failed to seed purchase order %d: %w", po.ID, err)
		}
	}

	plan := planComponents(f.Items)
	for _, c := range plan.withID {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO component (id, description) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET description = COALESCE(EXCLUDED.description, component.description)`,
			*c.ID, c.Description); err != nil {
			return fmt.Errorf("failed to seed component %d: %w", *c.ID, err)
		}
	}
	// Generated component ids must start past the explicit ones.
	if err := resetSequence(ctx, tx, "component"); err != nil {
		return err
	}
	generated := make(map[string]int64, len(plan.described))
	for _, desc := range plan.described {
		var id int64
		if err := tx.QueryRowContext(ctx, insertComponentByDescription, desc).Scan(&id); err != nil {
			return fmt.Errorf("failed to seed component %q: %w", desc, err)
		}
		generated[desc] = id
	}

	for _, item := range f.Items {
		var componentID sql.NullInt64
		if id, ok := itemComponentID(item.Component, generated); ok {
			componentID = sql.NullInt64{Int64: id, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO poitem (id, po_id, component_id, ordered_qty, unit_cost) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				po_id = EXCLUDED.po_id,
				component_id = EXCLUDED.component_id,
				ordered_qty = EXCLUDED.ordered_qty,
				unit_cost = EXCLUDED.unit_cost`,
			item.ID, item.POID, componentID, item.OrderedQty, item.UnitCost); err != nil {
			return fmt.Errorf("failed to seed item %d: %w", item.ID, err)
		}
	}

	// Explicit ids bypass the sequences, so move them past the seeded rows.
	for _, table := range []string{"supplier", "users", "component", "purchaseorder", "poitem"} {
		if err := resetSequence(ctx, tx, table); err != nil {
			return err
		}
	}
	return nil
}
