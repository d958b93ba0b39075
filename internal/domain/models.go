package domain

import (
	"github.com/shopspring/decimal"
)

// Supplier is the backend vendor record.
type Supplier struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	ContactEmail string  `json:"contact_email" db:"contact_email"`
	Rating       float64 `json:"rating" db:"rating"`
}

// User is the backend user record; only the username is denormalized.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
}

// BackendPurchaseOrder is the purchase order as persisted by the backend.
type BackendPurchaseOrder struct {
	ID           int64         `json:"id" db:"id"`
	SupplierID   int64         `json:"supplierId" db:"supplier_id"`
	DateCreated  Timestamp     `json:"date_created" db:"date_created"`
	DateExpected Timestamp     `json:"date_expected" db:"date_expected"`
	CreatedByID  int64         `json:"createdById" db:"created_by_id"`
	Status       BackendStatus `json:"status" db:"status"`
	Notes        *string       `json:"notes,omitempty" db:"notes"`
}

// Component is the part referenced by a line item. Both fields are optional
// on the wire.
type Component struct {
	ID          *int64  `json:"id,omitempty"`
	Description *string `json:"description,omitempty"`
}

// BackendPOItem is a purchase order line as returned by /poitem.
type BackendPOItem struct {
	ID         int64           `json:"id" db:"id"`
	POID       int64           `json:"poId,omitempty" db:"po_id"`
	Component  Component       `json:"component" db:"-"`
	OrderedQty int64           `json:"ordered_qty" db:"ordered_qty"`
	UnitCost   decimal.Decimal `json:"unit_cost" db:"unit_cost"`
}

// LineTotal is ordered_qty * unit_cost with no rounding.
func (i BackendPOItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(i.OrderedQty).Mul(i.UnitCost)
}

// Vendor is the denormalized supplier carried on the view model.
type Vendor struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Contact string  `json:"contact"`
	Rating  float64 `json:"rating"`
}

type ItemComponent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// POItem is a view-model line.
type POItem struct {
	ID        int64           `json:"id"`
	Component ItemComponent   `json:"component"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// PurchaseOrder is the dashboard view model. It is rebuilt from backend
// records on every read and never persisted.
type PurchaseOrder struct {
	ID            int64           `json:"id"`
	PONumber      string          `json:"poNumber"`
	Vendor        Vendor          `json:"vendor"`
	Items         []POItem        `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DateCreated   Timestamp       `json:"dateCreated"`
	DateDue       Timestamp       `json:"dateDue"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	AssignedTo    string          `json:"assignedTo"`
	Notes         string          `json:"notes"`
}

// PurchaseOrderRow is a PurchaseOrder annotated with policy-derived fields.
type PurchaseOrderRow struct {
	PurchaseOrder
	Overdue bool     `json:"overdue"`
	Actions []Action `json:"actions"`
}

// NewPurchaseOrder is the input for creating a draft purchase order.
type NewPurchaseOrder struct {
	SupplierID   int64     `json:"supplierId" binding:"required"`
	CreatedByID  int64     `json:"createdById" binding:"required"`
	DateCreated  Timestamp `json:"date_created"`
	DateExpected Timestamp `json:"date_expected"`
	Notes        *string   `json:"notes,omitempty"`
}
