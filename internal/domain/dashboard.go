package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TabCount is the number of purchase orders in a dashboard tab.
type TabCount struct {
	Tab   Tab `json:"tab"`
	Count int `json:"count"`
}

// DashboardSummary aggregates the header cards of the purchase order dashboard.
type DashboardSummary struct {
	Tabs         []TabCount      `json:"tabs"`
	OverdueCount int             `json:"overdueCount"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	UnpaidValue  decimal.Decimal `json:"unpaidValue"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}

// Summarize computes tab counts, overdue count and value totals.
func Summarize(pos []PurchaseOrder, now time.Time) DashboardSummary {
	summary := DashboardSummary{
		Tabs:        make([]TabCount, len(Tabs)),
		TotalValue:  decimal.Zero,
		UnpaidValue: decimal.Zero,
		GeneratedAt: now,
	}
	for i, tab := range Tabs {
		summary.Tabs[i].Tab = tab
	}

	for _, po := range pos {
		for i, tab := range Tabs {
			if InTab(po, tab) {
				summary.Tabs[i].Count++
			}
		}
		if IsOverdue(po, now) {
			summary.OverdueCount++
		}
		summary.TotalValue = summary.TotalValue.Add(po.TotalAmount)
		if po.PaymentStatus != PaymentFullyPaid {
			summary.UnpaidValue = summary.UnpaidValue.Add(po.TotalAmount)
		}
	}

	return summary
}

// ListFilter selects dashboard rows.
type ListFilter struct {
	Tab   Tab    `json:"tab"`
	Query string `json:"query"`
}
