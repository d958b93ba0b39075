package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Yahiahu/SCM-sub000/internal/cache"
	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrency = 8

// ErrNotFound is returned when a purchase order id is not in the source.
var ErrNotFound = repository.ErrNotFound

type POService struct {
	source         repository.POSource
	cache          cache.DashboardCache
	now            func() time.Time
	maxConcurrency int
}

type Option func(*POService)

// WithClock overrides the time source used for overdue checks and new POs.
func WithClock(now func() time.Time) Option {
	return func(s *POService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxConcurrency bounds concurrent per-PO item fetches.
func WithMaxConcurrency(n int) Option {
	return func(s *POService) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

func NewPOService(source repository.POSource, cacheImpl cache.DashboardCache, opts ...Option) *POService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	s := &POService{
		source:         source,
		cache:          cacheImpl,
		now:            time.Now,
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns every purchase order mapped to the view model. If any
// lookup fails the whole call fails.
func (s *POService) Dashboard(ctx context.Context) ([]domain.PurchaseOrder, error) {
	if pos, ok, err := s.cache.GetPurchaseOrders(ctx); err == nil && ok {
		return pos, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("po dashboard: cache get failed")
	}

	pos, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPurchaseOrders(ctx, pos); err != nil {
		log.Warn().Err(err).Msg("po dashboard: cache set failed")
	}
	return pos, nil
}

func (s *POService) load(ctx context.Context) ([]domain.PurchaseOrder, error) {
	var (
		suppliers []domain.Supplier
		users     []domain.User
		backend   []domain.BackendPurchaseOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if suppliers, err = s.source.ListSuppliers(gctx); err != nil {
			return fmt.Errorf("failed to fetch suppliers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if users, err = s.source.ListUsers(gctx); err != nil {
			return fmt.Errorf("failed to fetch users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if backend, err = s.source.ListPurchaseOrders(gctx); err != nil {
			return fmt.Errorf("failed to fetch purchase orders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, backend)
	if err != nil {
		return nil, err
	}

	lookups := domain.NewLookups(suppliers, users)
	pos := make([]domain.PurchaseOrder, len(backend))
	for i, po := range backend {
		pos[i] = lookups.Map(po, items[i])
	}

	log.Debug().
		Int("purchase_orders", len(pos)).
		Int("suppliers", len(suppliers)).
		Int("users", len(users)).
		Msg("po dashboard: mapped purchase orders")

	return pos, nil
}

// loadItems returns the items of backend[i] at index i.
func (s *POService) loadItems(ctx context.Context, backend []domain.BackendPurchaseOrder) ([][]domain.BackendPOItem, error) {
	items := make([][]domain.BackendPOItem, len(backend))
	if len(backend) == 0 {
		return items, nil
	}

	if batch, ok := s.source.(repository.BatchItemSource); ok {
		ids := make([]int64, len(backend))
		for i, po := range backend {
			ids[i] = po.ID
		}
		byPO, err := batch.ListPOItemsByPOIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch purchase order items: %w", err)
		}
		for i, po := range backend {
			items[i] = byPO[po.ID]
		}
		return items, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, po := range backend {
		i, po := i, po
		g.Go(func() error {
			poItems, err := s.source.ListPOItems(gctx, po.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch items for %s: %w", domain.FormatPONumber(po.ID), err)
			}
			items[i] = poItems
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListPurchaseOrders applies tab and search, sorts newest first and
// annotates each row with its overdue flag and available actions.
func (s *POService) ListPurchaseOrders(ctx context.Context, filter domain.ListFilter) ([]domain.PurchaseOrderRow, error) {
	tab := filter.Tab
	if tab == "" {
		tab = domain.TabAll
	}

	pos, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	matches := domain.Filter(pos, tab, filter.Query)
	rows := make([]domain.PurchaseOrderRow, len(matches))
	for i, po := range matches {
		rows[i] = domain.Annotate(po, now)
	}
	return rows, nil
}

// Summary returns the dashboard header aggregates.
func (s *POService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	pos, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	summary := domain.Summarize(pos, s.now())
	return &summary, nil
}

// Aging lists the longest-open purchase orders.
func (s *POService) Aging(ctx context.Context, limit int) ([]domain.POAging, error) {
	pos, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Aging(pos, s.now(), limit), nil
}

// SupplierPerformance ranks vendors by purchase order value.
func (s *POService) SupplierPerformance(ctx context.Context, limit int) ([]domain.SupplierPerformance, error) {
	pos, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SupplierPerformances(pos, s.now(), limit), nil
}

func (s *POService) GetPurchaseOrder(ctx context.Context, id int64) (*domain.PurchaseOrderRow, error) {
	pos, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	po, err := find(pos, id)
	if err != nil {
		return nil, err
	}
	row := domain.Annotate(po, s.now())
	return &row, nil
}

// ApplyAction runs an action against the current state of a purchase order.
// Statuses the backend cannot store (Submitted, Paid) are returned but not
// persisted. Delete returns a nil row.
func (s *POService) ApplyAction(ctx context.Context, id int64, action domain.Action) (*domain.PurchaseOrderRow, error) {
	pos, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	current, err := find(pos, id)
	if err != nil {
		return nil, err
	}

	if action == domain.ActionDelete {
		return nil, s.DeletePurchaseOrder(ctx, id)
	}

	next, err := domain.ApplyAction(current, action)
	if err != nil {
		return nil, err
	}

	logger := log.With().
		Int64("po_id", id).
		Str("action", string(action)).
		Str("from", string(current.Status)).
		Str("to", string(next.Status)).
		Logger()

	if backendStatus, ok := domain.BackendStatusFor(next.Status); ok {
		if err := s.source.UpdatePurchaseOrderStatus(ctx, id, backendStatus); err != nil {
			return nil, fmt.Errorf("failed to persist status of %s: %w", current.PONumber, err)
		}
		logger.Info().Msg("po action: status updated")
	} else {
		logger.Info().Msg("po action: status has no backend representation, not persisted")
	}

	s.invalidate(ctx)

	row := domain.Annotate(next, s.now())
	return &row, nil
}

func (s *POService) DeletePurchaseOrder(ctx context.Context, id int64) error {
	if err := s.source.DeletePurchaseOrder(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", domain.FormatPONumber(id), err)
	}
	log.Info().Int64("po_id", id).Msg("po action: purchase order deleted")
	s.invalidate(ctx)
	return nil
}

// CreatePurchaseOrder stores a new Draft and returns it mapped.
func (s *POService) CreatePurchaseOrder(ctx context.Context, input domain.NewPurchaseOrder) (*domain.PurchaseOrderRow, error) {
	if input.SupplierID <= 0 {
		return nil, fmt.Errorf("%w: supplierId is required", ErrInvalidInput)
	}
	if input.CreatedByID <= 0 {
		return nil, fmt.Errorf("%w: createdById is required", ErrInvalidInput)
	}
	if input.DateCreated.IsZero() {
		input.DateCreated = domain.NewTimestamp(s.now().UTC())
	}
	if !input.DateExpected.IsZero() && input.DateExpected.Before(input.DateCreated.Time) {
		return nil, fmt.Errorf("%w: date_expected is before date_created", ErrInvalidInput)
	}

	created, err := s.source.CreatePurchaseOrder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	s.invalidate(ctx)

	var (
		suppliers []domain.Supplier
		users     []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		suppliers, err = s.source.ListSuppliers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.source.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve created purchase order: %w", err)
	}

	row := domain.Annotate(domain.MapPO(*created, suppliers, users, nil), s.now())
	return &row, nil
}

func (s *POService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("po dashboard: cache invalidation failed")
	}
}

func find(pos []domain.PurchaseOrder, id int64) (domain.PurchaseOrder, error) {
	for _, po := range pos {
		if po.ID == id {
			return po, nil
		}
	}
	return domain.PurchaseOrder{}, fmt.Errorf("%s: %w", domain.FormatPONumber(id), ErrNotFound)
}
