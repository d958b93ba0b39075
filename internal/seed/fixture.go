// Package seed reads backend record fixtures and loads them into Postgres.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Yahiahu/SCM-sub000/internal/domain"
)

// Fixture is a backend record set in the backend's own JSON field names.
type Fixture struct {
	Suppliers      []domain.Supplier             `json:"suppliers"`
	Users          []domain.User                 `json:"users"`
	PurchaseOrders []domain.BackendPurchaseOrder `json:"purchase_orders"`
	Items          []domain.BackendPOItem        `json:"items"`
}

// ReadFixture decodes a fixture file and checks that every item belongs to
// a purchase order in the same file.
func ReadFixture(path string) (Fixture, error) {
	var fixture Fixture
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture, fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return fixture, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	if err := fixture.Validate(); err != nil {
		return fixture, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return fixture, nil
}

func (f Fixture) Validate() error {
	orders := make(map[int64]struct{}, len(f.PurchaseOrders))
	for _, po := range f.PurchaseOrders {
		orders[po.ID] = struct{}{}
	}
	for _, item := range f.Items {
		if _, ok := orders[item.POID]; !ok {
			return fmt.Errorf("item %d references unknown purchase order %d", item.ID, item.POID)
		}
	}
	return nil
}

// componentPlan splits the components referenced by items into rows with a
// fixed id and descriptions that need a generated id.
type componentPlan struct {
	withID          []domain.Component
	described       []string
	seenID          map[int64]int
	seenDescription map[string]struct{}
}

func planComponents(items []domain.BackendPOItem) componentPlan {
	plan := componentPlan{
		seenID:          make(map[int64]int),
		seenDescription: make(map[string]struct{}),
	}
	for _, item := range items {
		c := item.Component
		switch {
		case c.ID != nil:
			if idx, ok := plan.seenID[*c.ID]; ok {
				if plan.withID[idx].Description == nil {
					plan.withID[idx].Description = c.Description
				}
				continue
			}
			plan.seenID[*c.ID] = len(plan.withID)
			plan.withID = append(plan.withID, c)
		case c.Description != nil && *c.Description != "":
			if _, ok := plan.seenDescription[*c.Description]; ok {
				continue
			}
			plan.seenDescription[*c.Description] = struct{}{}
			plan.described = append(plan.described, *c.Description)
		}
	}
	return plan
}

// itemComponentID is the component_id to store for an item. generated maps
// descriptions to ids assigned while seeding.
func itemComponentID(c domain.Component, generated map[string]int64) (int64, bool) {
	if c.ID != nil {
		return *c.ID, true
	}
	if c.Description != nil {
		id, ok := generated[*c.Description]
		return id, ok
	}
	return 0, false
}
