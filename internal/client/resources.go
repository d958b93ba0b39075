package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
	"github.com/Yahiahu/SCM-sub000/internal/repository"
)

// Resource is a backend collection under the API base path.
type Resource string

const (
	ResourceSupplier           Resource = "supplier"
	ResourceUsers              Resource = "users"
	ResourcePurchaseOrder      Resource = "purchaseorder"
	ResourcePOItem             Resource = "poitem"
	ResourceProduct            Resource = "product"
	ResourceComponent          Resource = "component"
	ResourceBOM                Resource = "bom"
	ResourceWarehouse          Resource = "warehouse"
	ResourceWarehouseInventory Resource = "warehouseinventory"
	ResourceShippingInfo       Resource = "shippinginfo"
	ResourceSupplierQuote      Resource = "supplierquote"
	ResourceProductDemand      Resource = "productdemand"
	ResourceComponentDemand    Resource = "componentdemand"
	ResourceChatMessage        Resource = "chatmessage"
	ResourceMessageAttachment  Resource = "messageattachment"
	ResourceAuditLog           Resource = "auditlog"
	ResourceMonthlyStock       Resource = "monthlystock"
	ResourceWarehouseLayout    Resource = "warehouselayout"
)

// List decodes GET /<resource> into out.
func (c *Client) List(ctx context.Context, r Resource, query url.Values, out interface{}) error {
	return c.do(ctx, "GET", resourcePath(r), query, nil, out)
}

func (c *Client) Get(ctx context.Context, r Resource, id int64, out interface{}) error {
	return c.do(ctx, "GET", resourcePath(r, id), nil, nil, out)
}

func (c *Client) Create(ctx context.Context, r Resource, in, out interface{}) error {
	return c.do(ctx, "POST", resourcePath(r), nil, in, out)
}

// Update sends a partial update (PATCH).
func (c *Client) Update(ctx context.Context, r Resource, id int64, in, out interface{}) error {
	return c.do(ctx, "PATCH", resourcePath(r, id), nil, in, out)
}

func (c *Client) Delete(ctx context.Context, r Resource, id int64) error {
	return c.do(ctx, "DELETE", resourcePath(r, id), nil, nil, nil)
}

func (c *Client) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	if err := c.List(ctx, ResourceSupplier, nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.List(ctx, ResourceUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListPurchaseOrders(ctx context.Context) ([]domain.BackendPurchaseOrder, error) {
	var pos []domain.BackendPurchaseOrder
	if err := c.List(ctx, ResourcePurchaseOrder, nil, &pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// ListPOItems fetches GET /poitem?poId=<id>.
func (c *Client) ListPOItems(ctx context.Context, poID int64) ([]domain.BackendPOItem, error) {
	query := url.Values{"poId": []string{strconv.FormatInt(poID, 10)}}
	var items []domain.BackendPOItem
	if err := c.List(ctx, ResourcePOItem, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type createPurchaseOrderRequest struct {
	SupplierID   int64                `json:"supplierId"`
	CreatedByID  int64                `json:"createdById"`
	DateCreated  domain.Timestamp     `json:"date_created"`
	DateExpected domain.Timestamp     `json:"date_expected"`
	Status       domain.BackendStatus `json:"status"`
	Notes        *string              `json:"notes,omitempty"`
}

// CreatePurchaseOrder posts a new Draft purchase order.
func (c *Client) CreatePurchaseOrder(ctx context.Context, input domain.NewPurchaseOrder) (*domain.BackendPurchaseOrder, error) {
	req := createPurchaseOrderRequest{
		SupplierID:   input.SupplierID,
		CreatedByID:  input.CreatedByID,
		DateCreated:  input.DateCreated,
		DateExpected: input.DateExpected,
		Status:       domain.BackendDraft,
		Notes:        input.Notes,
	}
	var created domain.BackendPurchaseOrder
	if err := c.Create(ctx, ResourcePurchaseOrder, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdatePurchaseOrderStatus(ctx context.Context, poID int64, status domain.BackendStatus) error {
	body := map[string]domain.BackendStatus{"status": status}
	return c.Update(ctx, ResourcePurchaseOrder, poID, body, nil)
}

func (c *Client) DeletePurchaseOrder(ctx context.Context, poID int64) error {
	return c.Delete(ctx, ResourcePurchaseOrder, poID)
}

var _ repository.POSource = (*Client)(nil)
