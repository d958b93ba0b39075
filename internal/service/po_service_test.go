package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/seed"
	"github.com/Yahiahu/SCM-sub000/internal/testutil"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func testFixture() seed.Fixture {
	return seed.Fixture{
		Suppliers: []domain.Supplier{
			{ID: 1, Name: "Acme", ContactEmail: "sales@acme.com", Rating: 4.5},
			{ID: 2, Name: "Globex", ContactEmail: "po@globex.com", Rating: 3},
		},
		Users: []domain.User{{ID: 9, Username: "jdoe"}},
		PurchaseOrders: []domain.BackendPurchaseOrder{
			{ID: 1, SupplierID: 1, CreatedByID: 9, Status: domain.BackendDraft,
				DateCreated: domain.MustDate("2024-01-01"), DateExpected: domain.MustDate("2024-01-20")},
			{ID: 2, SupplierID: 2, CreatedByID: 9, Status: domain.BackendOrdered,
				DateCreated: domain.MustDate("2024-01-05"), DateExpected: domain.MustDate("2024-01-15")},
			{ID: 3, SupplierID: 99, CreatedByID: 42, Status: domain.BackendReceived,
				DateCreated: domain.MustDate("2024-01-03"), DateExpected: domain.MustDate("2024-01-10")},
		},
		Items: []domain.BackendPOItem{
			{ID: 10, POID: 1, Component: domain.Component{Description: strPtr("Bolt")}, OrderedQty: 10, UnitCost: decimal.RequireFromString("2.5")},
			{ID: 11, POID: 2, Component: domain.Component{Description: strPtr("Nut")}, OrderedQty: 3, UnitCost: decimal.RequireFromString("0.1")},
			{ID: 12, POID: 2, OrderedQty: 1, UnitCost: decimal.RequireFromString("0.2")},
		},
	}
}

type recordingCache struct {
	mu          sync.Mutex
	stored      []domain.PurchaseOrder
	hit         bool
	sets        int
	invalidated int
}

func (c *recordingCache) GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hit {
		return nil, false, nil
	}
	return c.stored, true, nil
}

func (c *recordingCache) SetPurchaseOrders(ctx context.Context, pos []domain.PurchaseOrder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = pos
	c.sets++
	return nil
}

func (c *recordingCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = nil
	c.hit = false
	c.invalidated++
	return nil
}

func newTestService(src *testutil.FakeSource, c *recordingCache) *POService {
	if c == nil {
		c = &recordingCache{}
	}
	return NewPOService(src, c, WithClock(func() time.Time { return fixedNow }), WithMaxConcurrency(2))
}

func TestDashboard_MapsEveryPurchaseOrder(t *testing.T) {
	src := testutil.NewFakeSource(testFixture())
	svc := newTestService(src, nil)

	pos, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(pos) != 3 {
		t.Fatalf("Expected 3 purchase orders, got %d", len(pos))
	}

	byID := make(map[int64]domain.PurchaseOrder)
	for _, po := range pos {
		byID[po.ID] = po
	}

	if got := byID[2].TotalAmount; !got.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("Expected PO-002 total 0.5, got %s", got)
	}
	if got := byID[2].Items[1].Component.Name; got != domain.UnknownComponentName {
		t.Errorf("Expected unknown component name, got %s", got)
	}
	if got := byID[3].Vendor.Name; got != domain.UnknownSupplierName {
		t.Errorf("Expected unknown supplier, got %s", got)
	}
	if got := byID[3].AssignedTo; got != domain.NotAvailable {
		t.Errorf("Expected N/A assignee, got %s", got)
	}
	if byID[3].Status != domain.StatusDelivered || byID[3].PaymentStatus != domain.PaymentFullyPaid {
		t.Errorf("Expected Delivered/Fully Paid, got %s/%s", byID[3].Status, byID[3].PaymentStatus)
	}
	if got := src.Calls("ListPOItems"); got != 3 {
		t.Errorf("Expected one item fetch per PO, got %d", got)
	}
}

func TestDashboard_ItemFailureFailsWholeCall(t *testing.T) {
	src := testutil.NewFakeSource(testFixture())
	boom := errors.New("connection reset")
	src.FailItemsFor = map[int64]error{2: boom}
	c := &recordingCache{}
	svc := newTestService(src, c)

	pos, err := svc.Dashboard(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Expected item error to propagate, got %v", err)
	}
	if pos != nil {
		t.Errorf("Expected no partial result, got %d purchase orders", len(pos))
	}
	if c.sets != 0 {
		t.Errorf("Expected nothing cached on failure, got %d sets", c.sets)
	}
}

func TestDashboard_LookupFailure(t *testing.T) {
	src := testutil.NewFakeSource(testFixture())
	boom := errors.New("backend down")
	src.FailOn = map[string]error{"ListSuppliers": boom}
	svc := newTestService(src, nil)

	if _, err := svc.Dashboard(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Expected supplier error, got %v", err)
	}
}

func TestDashboard_UsesCache(t *testing.T) {
	src := testutil.NewFakeSource(testFixture())
	c := &recordingCache{}
	svc := newTestService(src, c)

	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("Expected dashboard to be cached once, got %d", c.sets)
	}

	c.hit = true
	if _, err := svc.Dashboard(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := src.Calls("ListPurchaseOrders"); got != 1 {
		t.Errorf("Expected cached read to skip the source, got %d source reads", got)
	}
}

func TestListPurchaseOrders(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	tests := []struct {
		name    string
		filter  domain.ListFilter
		wantIDs []int64
	}{
		{name: "all sorted newest first", filter: domain.ListFilter{}, wantIDs: []int64{2, 3, 1}},
		{name: "drafts", filter: domain.ListFilter{Tab: domain.TabDrafts}, wantIDs: []int64{1}},
		{name: "unpaid", filter: domain.ListFilter{Tab: domain.TabUnpaid}, wantIDs: []int64{2, 1}},
		{name: "search vendor", filter: domain.ListFilter{Query: "globex"}, wantIDs: []int64{2}},
		{name: "search assignee within tab", filter: domain.ListFilter{Tab: domain.TabDelivered, Query: "JDOE"}, wantIDs: nil},
		{name: "search po number", filter: domain.ListFilter{Query: "po-003"}, wantIDs: []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := svc.ListPurchaseOrders(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(rows) != len(tt.wantIDs) {
				t.Fatalf("Expected %d rows, got %d", len(tt.wantIDs), len(rows))
			}
			for i, id := range tt.wantIDs {
				if rows[i].ID != id {
					t.Errorf("Expected row %d to be PO %d, got %d", i, id, rows[i].ID)
				}
			}
		})
	}
}

func TestListPurchaseOrders_Annotations(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	rows, err := svc.ListPurchaseOrders(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	byID := make(map[int64]domain.PurchaseOrderRow)
	for _, row := range rows {
		byID[row.ID] = row
	}

	if !byID[2].Overdue {
		t.Error("Expected ordered PO past its due date to be overdue")
	}
	if byID[3].Overdue {
		t.Error("Expected delivered PO not to be overdue")
	}
	wantActions := []domain.Action{domain.ActionMarkReceived, domain.ActionDelete}
	if len(byID[2].Actions) != len(wantActions) {
		t.Fatalf("Expected actions %v, got %v", wantActions, byID[2].Actions)
	}
	for i, a := range wantActions {
		if byID[2].Actions[i] != a {
			t.Errorf("Expected action %s at %d, got %s", a, i, byID[2].Actions[i])
		}
	}
}

func TestSummary(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.TotalValue.Equal(decimal.RequireFromString("25.5")) {
		t.Errorf("Expected total value 25.5, got %s", summary.TotalValue)
	}
	if !summary.UnpaidValue.Equal(decimal.RequireFromString("25.5")) {
		t.Errorf("Expected unpaid value 25.5, got %s", summary.UnpaidValue)
	}
	if summary.OverdueCount != 2 {
		t.Errorf("Expected 2 overdue purchase orders, got %d", summary.OverdueCount)
	}
}

func TestGetPurchaseOrder(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	row, err := svc.GetPurchaseOrder(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if row.PONumber != "PO-001" {
		t.Errorf("Expected PO-001, got %s", row.PONumber)
	}

	if _, err := svc.GetPurchaseOrder(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestApplyAction(t *testing.T) {
	tests := []struct {
		name          string
		id            int64
		action        domain.Action
		wantStatus    domain.Status
		wantPersisted domain.BackendStatus
		wantUpdates   int
		wantErr       error
	}{
		{name: "approve draft persists", id: 1, action: domain.ActionApprove,
			wantStatus: domain.StatusApproved, wantPersisted: domain.BackendApproved, wantUpdates: 1},
		{name: "receive ordered persists", id: 2, action: domain.ActionMarkReceived,
			wantStatus: domain.StatusDelivered, wantPersisted: domain.BackendReceived, wantUpdates: 1},
		{name: "submit is not persisted", id: 1, action: domain.ActionSubmitForApproval,
			wantStatus: domain.StatusSubmitted, wantPersisted: domain.BackendDraft},
		{name: "paid is not persisted", id: 3, action: domain.ActionMarkPaid,
			wantStatus: domain.StatusPaid, wantPersisted: domain.BackendReceived},
		{name: "disallowed", id: 2, action: domain.ActionApprove, wantErr: domain.ErrActionNotAllowed},
		{name: "missing", id: 77, action: domain.ActionApprove, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.NewFakeSource(testFixture())
			c := &recordingCache{}
			svc := newTestService(src, c)

			row, err := svc.ApplyAction(context.Background(), tt.id, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if src.Calls("UpdatePurchaseOrderStatus") != 0 {
					t.Error("Expected no status update on rejection")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if row.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, row.Status)
			}
			if got := src.Calls("UpdatePurchaseOrderStatus"); got != tt.wantUpdates {
				t.Errorf("Expected %d status updates, got %d", tt.wantUpdates, got)
			}
			stored, _ := src.PurchaseOrder(tt.id)
			if stored.Status != tt.wantPersisted {
				t.Errorf("Expected stored status %s, got %s", tt.wantPersisted, stored.Status)
			}
			if c.invalidated != 1 {
				t.Errorf("Expected cache invalidated once, got %d", c.invalidated)
			}
		})
	}
}

func TestApplyAction_Delete(t *testing.T) {
	src := testutil.NewFakeSource(testFixture())
	c := &recordingCache{}
	svc := newTestService(src, c)

	row, err := svc.ApplyAction(context.Background(), 3, domain.ActionDelete)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if row != nil {
		t.Errorf("Expected no row after delete, got %+v", row)
	}
	if _, ok := src.PurchaseOrder(3); ok {
		t.Error("Expected purchase order to be removed")
	}
	if c.invalidated != 1 {
		t.Errorf("Expected cache invalidated once, got %d", c.invalidated)
	}
}

func TestDeletePurchaseOrder_NotFound(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	if err := svc.DeletePurchaseOrder(context.Background(), 55); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCreatePurchaseOrder(t *testing.T) {
	src := testutil.NewFakeSource(testFixture())
	c := &recordingCache{}
	svc := newTestService(src, c)

	row, err := svc.CreatePurchaseOrder(context.Background(), domain.NewPurchaseOrder{
		SupplierID:   1,
		CreatedByID:  9,
		DateExpected: domain.MustDate("2024-03-01"),
		Notes:        strPtr("rush"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if row.PONumber != "PO-004" {
		t.Errorf("Expected PO-004, got %s", row.PONumber)
	}
	if row.Status != domain.StatusDraft {
		t.Errorf("Expected Draft, got %s", row.Status)
	}
	if row.Vendor.Name != "Acme" || row.AssignedTo != "jdoe" || row.Notes != "rush" {
		t.Errorf("Unexpected mapped fields %+v", row.PurchaseOrder)
	}
	if !row.DateCreated.Equal(fixedNow) {
		t.Errorf("Expected date created from clock, got %s", row.DateCreated)
	}
	if !row.TotalAmount.IsZero() {
		t.Errorf("Expected zero total, got %s", row.TotalAmount)
	}
	if c.invalidated != 1 {
		t.Errorf("Expected cache invalidated once, got %d", c.invalidated)
	}
}

func TestCreatePurchaseOrder_Validation(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	tests := []struct {
		name  string
		input domain.NewPurchaseOrder
	}{
		{name: "missing supplier", input: domain.NewPurchaseOrder{CreatedByID: 9}},
		{name: "missing creator", input: domain.NewPurchaseOrder{SupplierID: 1}},
		{name: "due before created", input: domain.NewPurchaseOrder{
			SupplierID: 1, CreatedByID: 9,
			DateCreated: domain.MustDate("2024-02-01"), DateExpected: domain.MustDate("2024-01-01"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreatePurchaseOrder(context.Background(), tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAnalytics(t *testing.T) {
	svc := newTestService(testutil.NewFakeSource(testFixture()), nil)

	aging, err := svc.Aging(context.Background(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(aging) != 2 || aging[0].PONumber != "PO-001" {
		t.Errorf("Expected open PO-001 then PO-002, got %+v", aging)
	}

	perf, err := svc.SupplierPerformance(context.Background(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(perf) != 3 {
		t.Fatalf("Expected 3 vendors, got %d", len(perf))
	}
	if perf[0].VendorName != "Acme" {
		t.Errorf("Expected Acme to lead by value, got %s", perf[0].VendorName)
	}
}
