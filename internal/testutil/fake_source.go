// Package testutil holds test doubles shared across package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/repository"
	"github.com/Yahiahu/SCM-sub000/internal/seed"
)

// FakeSource is an in-memory POSource, safe for concurrent use. Failures
// can be injected per call through the Fail* fields.
type FakeSource struct {
	mu     sync.Mutex
	data   seed.Fixture
	nextID int64

	FailItemsFor map[int64]error
	FailOn       map[string]error

	calls map[string]int
}

var _ repository.POSource = (*FakeSource)(nil)

func NewFakeSource(f seed.Fixture) *FakeSource {
	s := &FakeSource{data: f, calls: make(map[string]int)}
	for _, po := range f.PurchaseOrders {
		if po.ID > s.nextID {
			s.nextID = po.ID
		}
	}
	return s
}

// Calls reports how many times the named method has run.
func (s *FakeSource) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// PurchaseOrder returns the stored record with the given id.
func (s *FakeSource) PurchaseOrder(id int64) (domain.BackendPurchaseOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, po := range s.data.PurchaseOrders {
		if po.ID == id {
			return po, true
		}
	}
	return domain.BackendPurchaseOrder{}, false
}

func (s *FakeSource) enter(method string) error {
	s.calls[method]++
	return s.FailOn[method]
}

func (s *FakeSource) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListSuppliers"); err != nil {
		return nil, err
	}
	return append([]domain.Supplier(nil), s.data.Suppliers...), nil
}

func (s *FakeSource) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListUsers"); err != nil {
		return nil, err
	}
	return append([]domain.User(nil), s.data.Users...), nil
}

func (s *FakeSource) ListPurchaseOrders(ctx context.Context) ([]domain.BackendPurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListPurchaseOrders"); err != nil {
		return nil, err
	}
	return append([]domain.BackendPurchaseOrder(nil), s.data.PurchaseOrders...), nil
}

func (s *FakeSource) ListPOItems(ctx context.Context, poID int64) ([]domain.BackendPOItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListPOItems"); err != nil {
		return nil, err
	}
	if err := s.FailItemsFor[poID]; err != nil {
		return nil, err
	}
	var items []domain.BackendPOItem
	for _, item := range s.data.Items {
		if item.POID == poID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *FakeSource) CreatePurchaseOrder(ctx context.Context, input domain.NewPurchaseOrder) (*domain.BackendPurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreatePurchaseOrder"); err != nil {
		return nil, err
	}
	s.nextID++
	po := domain.BackendPurchaseOrder{
		ID:           s.nextID,
		SupplierID:   input.SupplierID,
		DateCreated:  input.DateCreated,
		DateExpected: input.DateExpected,
		CreatedByID:  input.CreatedByID,
		Status:       domain.BackendDraft,
		Notes:        input.Notes,
	}
	s.data.PurchaseOrders = append(s.data.PurchaseOrders, po)
	return &po, nil
}

func (s *FakeSource) UpdatePurchaseOrderStatus(ctx context.Context, poID int64, status domain.BackendStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdatePurchaseOrderStatus"); err != nil {
		return err
	}
	for i := range s.data.PurchaseOrders {
		if s.data.PurchaseOrders[i].ID == poID {
			s.data.PurchaseOrders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("purchase order %d: %w", poID, repository.ErrNotFound)
}

func (s *FakeSource) DeletePurchaseOrder(ctx context.Context, poID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeletePurchaseOrder"); err != nil {
		return err
	}
	for i, po := range s.data.PurchaseOrders {
		if po.ID == poID {
			s.data.PurchaseOrders = append(s.data.PurchaseOrders[:i], s.data.PurchaseOrders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("purchase order %d: %w", poID, repository.ErrNotFound)
}
