package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestMapPO_EndToEnd(t *testing.T) {
	suppliers := []Supplier{{ID: 1, Name: "Acme", ContactEmail: "a@acme.com", Rating: 4}}
	po := BackendPurchaseOrder{
		ID:           5,
		SupplierID:   1,
		DateCreated:  MustDate("2024-01-01"),
		DateExpected: MustDate("2024-01-10"),
		CreatedByID:  9,
		Status:       BackendOrdered,
	}
	items := []BackendPOItem{{
		ID:         1,
		Component:  Component{Description: strPtr("Bolt")},
		OrderedQty: 10,
		UnitCost:   decimal.RequireFromString("2.5"),
	}}

	got := MapPO(po, suppliers, nil, items)

	if got.PONumber != "PO-005" {
		t.Errorf("Expected PO number PO-005, got %s", got.PONumber)
	}
	if got.Vendor.Name != "Acme" || got.Vendor.Contact != "a@acme.com" || got.Vendor.Rating != 4 {
		t.Errorf("Unexpected vendor %+v", got.Vendor)
	}
	if len(got.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(got.Items))
	}
	item := got.Items[0]
	if item.Component.Name != "Bolt" || item.Component.ID != 0 {
		t.Errorf("Unexpected component %+v", item.Component)
	}
	if item.Quantity != 10 {
		t.Errorf("Expected quantity 10, got %d", item.Quantity)
	}
	if !item.UnitPrice.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Expected unit price 2.5, got %s", item.UnitPrice)
	}
	if !item.Total.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected line total 25, got %s", item.Total)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected total amount 25, got %s", got.TotalAmount)
	}
	if got.Status != StatusOrdered {
		t.Errorf("Expected status Ordered, got %s", got.Status)
	}
	if got.PaymentStatus != PaymentUnpaid {
		t.Errorf("Expected payment Unpaid, got %s", got.PaymentStatus)
	}
	if got.AssignedTo != "N/A" {
		t.Errorf("Expected assignedTo N/A, got %s", got.AssignedTo)
	}
	if got.Notes != "" {
		t.Errorf("Expected empty notes, got %q", got.Notes)
	}
}

func TestMapPO_StatusTranslation(t *testing.T) {
	testCases := []struct {
		backend BackendStatus
		status  Status
		payment PaymentStatus
	}{
		{BackendReceived, StatusDelivered, PaymentFullyPaid},
		{BackendOrdered, StatusOrdered, PaymentUnpaid},
		{BackendApproved, StatusApproved, PaymentUnpaid},
		{BackendDraft, StatusDraft, PaymentUnpaid},
		{BackendCancelled, StatusCancelled, PaymentUnpaid},
		{"Shipped", StatusSubmitted, PaymentUnpaid},
		{"", StatusSubmitted, PaymentUnpaid},
		{"received", StatusSubmitted, PaymentUnpaid},
	}

	for _, tc := range testCases {
		t.Run(string(tc.backend), func(t *testing.T) {
			got := MapPO(BackendPurchaseOrder{ID: 1, Status: tc.backend}, nil, nil, nil)
			if got.Status != tc.status {
				t.Errorf("Expected status %s, got %s", tc.status, got.Status)
			}
			if got.PaymentStatus != tc.payment {
				t.Errorf("Expected payment %s, got %s", tc.payment, got.PaymentStatus)
			}
		})
	}
}

func TestMapPO_Defaults(t *testing.T) {
	po := BackendPurchaseOrder{ID: 3, SupplierID: 42, CreatedByID: 7, Status: BackendDraft, Notes: strPtr("rush")}
	users := []User{{ID: 7, Username: "jdoe"}}
	items := []BackendPOItem{
		{ID: 1, OrderedQty: 2, UnitCost: decimal.NewFromInt(3)},
		{ID: 2, Component: Component{ID: int64Ptr(11), Description: strPtr("")}, OrderedQty: 0, UnitCost: decimal.NewFromInt(9)},
	}

	got := MapPO(po, nil, users, items)

	if got.Vendor.Name != UnknownSupplierName || got.Vendor.Contact != NotAvailable || got.Vendor.Rating != 0 {
		t.Errorf("Expected default vendor, got %+v", got.Vendor)
	}
	if got.AssignedTo != "jdoe" {
		t.Errorf("Expected assignedTo jdoe, got %s", got.AssignedTo)
	}
	if got.Notes != "rush" {
		t.Errorf("Expected notes rush, got %q", got.Notes)
	}
	if got.Items[0].Component.Name != UnknownComponentName || got.Items[0].Component.ID != 0 {
		t.Errorf("Expected default component, got %+v", got.Items[0].Component)
	}
	if got.Items[1].Component.Name != UnknownComponentName || got.Items[1].Component.ID != 11 {
		t.Errorf("Expected component 11 with default name, got %+v", got.Items[1].Component)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected total 6, got %s", got.TotalAmount)
	}
}

func TestMapPO_NoItems(t *testing.T) {
	got := MapPO(BackendPurchaseOrder{ID: 1, Status: BackendDraft}, nil, nil, nil)
	if !got.TotalAmount.IsZero() {
		t.Errorf("Expected zero total, got %s", got.TotalAmount)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("Expected empty non-nil items, got %v", got.Items)
	}
}

func TestMapPO_TotalIsExactSum(t *testing.T) {
	items := []BackendPOItem{
		{ID: 1, OrderedQty: 3, UnitCost: decimal.RequireFromString("0.1")},
		{ID: 2, OrderedQty: 7, UnitCost: decimal.RequireFromString("0.2")},
		{ID: 3, OrderedQty: 1000000, UnitCost: decimal.RequireFromString("19.99")},
	}

	got := MapPO(BackendPurchaseOrder{ID: 1}, nil, nil, items)

	sum := decimal.Zero
	for _, item := range got.Items {
		expected := decimal.NewFromInt(item.Quantity).Mul(item.UnitPrice)
		if !item.Total.Equal(expected) {
			t.Errorf("Expected line total %s, got %s", expected, item.Total)
		}
		sum = sum.Add(item.Total)
	}
	if !got.TotalAmount.Equal(sum) {
		t.Errorf("Expected total %s, got %s", sum, got.TotalAmount)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("19990001.7")) {
		t.Errorf("Expected total 19990001.7, got %s", got.TotalAmount)
	}
}

func TestFormatPONumber(t *testing.T) {
	testCases := []struct {
		id       int64
		expected string
	}{
		{0, "PO-000"},
		{7, "PO-007"},
		{42, "PO-042"},
		{999, "PO-999"},
		{1234, "PO-1234"},
	}
	for _, tc := range testCases {
		if got := FormatPONumber(tc.id); got != tc.expected {
			t.Errorf("FormatPONumber(%d): expected %s, got %s", tc.id, tc.expected, got)
		}
	}
}

func TestBackendRecordsDecode(t *testing.T) {
	payload := `{"id":5,"supplierId":1,"date_created":"2024-01-01","date_expected":"2024-01-10T08:30:00Z","createdById":9,"status":"Ordered"}`
	var po BackendPurchaseOrder
	if err := json.Unmarshal([]byte(payload), &po); err != nil {
		t.Fatalf("Failed to decode purchase order: %v", err)
	}
	if po.SupplierID != 1 || po.CreatedByID != 9 || po.Status != BackendOrdered {
		t.Errorf("Unexpected purchase order %+v", po)
	}
	if po.DateCreated.Format(dateLayout) != "2024-01-01" || po.DateExpected.Hour() != 8 {
		t.Errorf("Unexpected dates %v / %v", po.DateCreated, po.DateExpected)
	}
	if po.Notes != nil {
		t.Errorf("Expected nil notes, got %q", *po.Notes)
	}

	itemPayload := `{"id":1,"component":{"description":"Bolt"},"ordered_qty":10,"unit_cost":"2.50"}`
	var item BackendPOItem
	if err := json.Unmarshal([]byte(itemPayload), &item); err != nil {
		t.Fatalf("Failed to decode item: %v", err)
	}
	if item.Component.ID != nil || *item.Component.Description != "Bolt" {
		t.Errorf("Unexpected component %+v", item.Component)
	}
	if !item.LineTotal().Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected line total 25, got %s", item.LineTotal())
	}
}

func TestTranslateStatus_FlagsValuesOutsideEnum(t *testing.T) {
	for _, s := range []BackendStatus{BackendDraft, BackendApproved, BackendOrdered, BackendReceived, BackendCancelled} {
		if _, _, ok := TranslateStatus(s); !ok {
			t.Errorf("Expected %s to be a known backend status", s)
		}
	}
	for _, s := range []BackendStatus{"received", "Shipped", ""} {
		if _, _, ok := TranslateStatus(s); ok {
			t.Errorf("Expected %q to be reported as unknown", s)
		}
	}
}

func TestPurchaseOrderJSON_AmountsAreNumbers(t *testing.T) {
	po := MapPO(BackendPurchaseOrder{ID: 5, Status: BackendOrdered}, nil, nil, []BackendPOItem{{
		ID:         1,
		Component:  Component{Description: strPtr("Bolt")},
		OrderedQty: 10,
		UnitCost:   decimal.RequireFromString("2.5"),
	}})

	raw, err := json.Marshal(po)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded struct {
		TotalAmount interface{} `json:"totalAmount"`
		Items       []struct {
			UnitPrice interface{} `json:"unitPrice"`
			Total     interface{} `json:"total"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded.TotalAmount != float64(25) {
		t.Errorf("Expected totalAmount number 25, got %#v", decoded.TotalAmount)
	}
	if decoded.Items[0].UnitPrice != 2.5 {
		t.Errorf("Expected unitPrice number 2.5, got %#v", decoded.Items[0].UnitPrice)
	}
	if decoded.Items[0].Total != float64(25) {
		t.Errorf("Expected total number 25, got %#v", decoded.Items[0].Total)
	}

	var back PurchaseOrder
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Expected view model to decode, got %v", err)
	}
	if !back.TotalAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected decoded total 25, got %s", back.TotalAmount)
	}
}

func TestDashboardSummaryJSON_AmountsAreNumbers(t *testing.T) {
	summary := DashboardSummary{TotalValue: decimal.RequireFromString("25.5"), UnpaidValue: decimal.Zero}

	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if decoded["totalValue"] != 25.5 {
		t.Errorf("Expected totalValue number 25.5, got %#v", decoded["totalValue"])
	}
	if decoded["unpaidValue"] != float64(0) {
		t.Errorf("Expected unpaidValue number 0, got %#v", decoded["unpaidValue"])
	}
}
