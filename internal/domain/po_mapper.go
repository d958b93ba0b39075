package domain

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	UnknownSupplierName  = "Unknown Supplier"
	UnknownComponentName = "Unknown Component"
	NotAvailable         = "N/A"
)

// Lookups indexes suppliers and users by id so a batch of purchase orders can
// be mapped without rescanning the slices.
type Lookups struct {
	suppliers map[int64]Supplier
	users     map[int64]User
}

func NewLookups(suppliers []Supplier, users []User) *Lookups {
	l := &Lookups{
		suppliers: make(map[int64]Supplier, len(suppliers)),
		users:     make(map[int64]User, len(users)),
	}
	for _, s := range suppliers {
		if _, dup := l.suppliers[s.ID]; !dup {
			l.suppliers[s.ID] = s
		}
	}
	for _, u := range users {
		if _, dup := l.users[u.ID]; !dup {
			l.users[u.ID] = u
		}
	}
	return l
}

// Vendor resolves a supplier id; unresolved ids degrade to defaults.
func (l *Lookups) Vendor(supplierID int64) Vendor {
	s, ok := l.suppliers[supplierID]
	if !ok {
		return Vendor{
			ID:      supplierID,
			Name:    UnknownSupplierName,
			Contact: NotAvailable,
			Rating:  0,
		}
	}

	v := Vendor{
		ID:      s.ID,
		Name:    s.Name,
		Contact: s.ContactEmail,
		Rating:  s.Rating,
	}
	if v.Name == "" {
		v.Name = UnknownSupplierName
	}
	if v.Contact == "" {
		v.Contact = NotAvailable
	}
	return v
}

func (l *Lookups) AssignedTo(userID int64) string {
	if u, ok := l.users[userID]; ok && u.Username != "" {
		return u.Username
	}
	return NotAvailable
}

// MapPO builds the view model for one purchase order.
func MapPO(po BackendPurchaseOrder, suppliers []Supplier, users []User, items []BackendPOItem) PurchaseOrder {
	return NewLookups(suppliers, users).Map(po, items)
}

func (l *Lookups) Map(po BackendPurchaseOrder, items []BackendPOItem) PurchaseOrder {
	mapped := make([]POItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		m := MapItem(item)
		total = total.Add(m.Total)
		mapped = append(mapped, m)
	}

	status, payment, known := TranslateStatus(po.Status)
	if !known {
		log.Warn().
			Int64("po_id", po.ID).
			Str("backend_status", string(po.Status)).
			Msg("purchase order has status outside the backend enum, showing as Submitted")
	}

	notes := ""
	if po.Notes != nil {
		notes = *po.Notes
	}

	return PurchaseOrder{
		ID:            po.ID,
		PONumber:      FormatPONumber(po.ID),
		Vendor:        l.Vendor(po.SupplierID),
		Items:         mapped,
		TotalAmount:   total,
		DateCreated:   po.DateCreated,
		DateDue:       po.DateExpected,
		Status:        status,
		PaymentStatus: payment,
		AssignedTo:    l.AssignedTo(po.CreatedByID),
		Notes:         notes,
	}
}

func MapItem(item BackendPOItem) POItem {
	component := ItemComponent{Name: UnknownComponentName}
	if item.Component.ID != nil {
		component.ID = *item.Component.ID
	}
	if item.Component.Description != nil && *item.Component.Description != "" {
		component.Name = *item.Component.Description
	}

	return POItem{
		ID:        item.ID,
		Component: component,
		Quantity:  item.OrderedQty,
		UnitPrice: item.UnitCost,
		Total:     item.LineTotal(),
	}
}
