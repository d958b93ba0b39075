package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultAnalyticsLimit = 10

const day = 24 * time.Hour

// POAging is an open purchase order ranked by how long it has been open.
type POAging struct {
	ID          int64           `json:"id"`
	PONumber    string          `json:"poNumber"`
	Status      Status          `json:"status"`
	VendorName  string          `json:"vendorName"`
	Quantity    int64           `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	DaysOpen    int             `json:"daysOpen"`
	DaysOverdue int             `json:"daysOverdue"`
}

// SupplierPerformance aggregates the purchase orders placed with one vendor.
type SupplierPerformance struct {
	VendorID     int64           `json:"vendorId"`
	VendorName   string          `json:"vendorName"`
	TotalPOs     int             `json:"totalPOs"`
	OpenPOs      int             `json:"openPOs"`
	OverduePOs   int             `json:"overduePOs"`
	DeliveredPOs int             `json:"deliveredPOs"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	OnTimeRate   float64         `json:"onTimeRate"`
}

func isOpen(s Status) bool {
	_, settled := settledStatuses[s]
	return !settled
}

func wholeDays(from, to time.Time) int {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / day)
}

// Aging lists open purchase orders, oldest first, capped at limit.
func Aging(pos []PurchaseOrder, now time.Time, limit int) []POAging {
	if limit <= 0 {
		limit = DefaultAnalyticsLimit
	}

	out := make([]POAging, 0, len(pos))
	for _, po := range pos {
		if !isOpen(po.Status) {
			continue
		}
		var qty int64
		for _, item := range po.Items {
			qty += item.Quantity
		}
		row := POAging{
			ID:         po.ID,
			PONumber:   po.PONumber,
			Status:     po.Status,
			VendorName: po.Vendor.Name,
			Quantity:   qty,
			Value:      po.TotalAmount,
			DaysOpen:   wholeDays(po.DateCreated.Time, now),
		}
		if !po.DateDue.IsZero() {
			row.DaysOverdue = wholeDays(po.DateDue.Time, now)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysOpen != out[j].DaysOpen {
			return out[i].DaysOpen > out[j].DaysOpen
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SupplierPerformances groups by vendor and orders by total value, highest
// first. OnTimeRate is the share of non-cancelled orders that were
// delivered or are not yet past due.
func SupplierPerformances(pos []PurchaseOrder, now time.Time, limit int) []SupplierPerformance {
	if limit <= 0 {
		limit = DefaultAnalyticsLimit
	}

	byVendor := make(map[int64]*SupplierPerformance)
	active := make(map[int64]int)
	var order []int64
	for _, po := range pos {
		perf, ok := byVendor[po.Vendor.ID]
		if !ok {
			perf = &SupplierPerformance{
				VendorID:   po.Vendor.ID,
				VendorName: po.Vendor.Name,
				TotalValue: decimal.Zero,
			}
			byVendor[po.Vendor.ID] = perf
			order = append(order, po.Vendor.ID)
		}

		perf.TotalPOs++
		perf.TotalValue = perf.TotalValue.Add(po.TotalAmount)
		switch {
		case po.Status == StatusDelivered || po.Status == StatusPaid:
			perf.DeliveredPOs++
		case isOpen(po.Status):
			perf.OpenPOs++
		}
		if IsOverdue(po, now) {
			perf.OverduePOs++
		}
		if po.Status != StatusCancelled {
			active[po.Vendor.ID]++
		}
	}

	out := make([]SupplierPerformance, 0, len(order))
	for _, id := range order {
		perf := byVendor[id]
		if n := active[id]; n > 0 {
			perf.OnTimeRate = float64(n-perf.OverduePOs) / float64(n)
		}
		out = append(out, *perf)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if cmp := out[i].TotalValue.Cmp(out[j].TotalValue); cmp != 0 {
			return cmp > 0
		}
		return out[i].VendorName < out[j].VendorName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
