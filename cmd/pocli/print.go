package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
)

const displayDate = "2006-01-02"

func formatDate(ts domain.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(displayDate)
}

func writeRows(w io.Writer, rows []domain.PurchaseOrderRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PO\tVENDOR\tSTATUS\tPAYMENT\tTOTAL\tCREATED\tDUE\tASSIGNED\t")
	for _, row := range rows {
		due := formatDate(row.DateDue)
		if row.Overdue {
			due += " (overdue)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.PONumber,
			row.Vendor.Name,
			row.Status,
			row.PaymentStatus,
			row.TotalAmount.StringFixed(2),
			formatDate(row.DateCreated),
			due,
			row.AssignedTo,
		)
	}
	return tw.Flush()
}

func writeDetail(w io.Writer, row domain.PurchaseOrderRow) error {
	fmt.Fprintf(w, "%s  %s / %s\n", row.PONumber, row.Status, row.PaymentStatus)
	fmt.Fprintf(w, "Vendor:   %s <%s> rating %.1f\n", row.Vendor.Name, row.Vendor.Contact, row.Vendor.Rating)
	fmt.Fprintf(w, "Assigned: %s\n", row.AssignedTo)
	fmt.Fprintf(w, "Created:  %s  Due: %s\n", formatDate(row.DateCreated), formatDate(row.DateDue))
	if row.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s\n", row.Notes)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tQTY\tUNIT\tTOTAL\t")
	for _, item := range row.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n",
			item.Component.Name,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.Total.StringFixed(2),
		)
	}
	fmt.Fprintf(tw, "\t\t\t%s\t\n", row.TotalAmount.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Actions:  %v\n", row.Actions)
	return nil
}

func writeSummary(w io.Writer, s domain.DashboardSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, tc := range s.Tabs {
		fmt.Fprintf(tw, "%s\t%d\t\n", tc.Tab, tc.Count)
	}
	fmt.Fprintf(tw, "Overdue\t%d\t\n", s.OverdueCount)
	fmt.Fprintf(tw, "Total value\t%s\t\n", s.TotalValue.StringFixed(2))
	fmt.Fprintf(tw, "Unpaid value\t%s\t\n", s.UnpaidValue.StringFixed(2))
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
