package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrActionNotAllowed = errors.New("action not allowed for current status")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownTab       = errors.New("unknown tab")
)

// Action is a user-invokable step on a purchase order.
type Action string

const (
	ActionSubmitForApproval Action = "Submit for Approval"
	ActionApprove           Action = "Approve"
	ActionMarkOrdered       Action = "Mark as Ordered"
	ActionMarkReceived      Action = "Mark as Received"
	ActionMarkPaid          Action = "Mark as Paid"
	ActionDelete            Action = "Delete"
)

// actionTargets maps each non-destructive action to the status it produces.
var actionTargets = map[Action]Status{
	ActionSubmitForApproval: StatusSubmitted,
	ActionApprove:           StatusApproved,
	ActionMarkOrdered:       StatusOrdered,
	ActionMarkReceived:      StatusDelivered,
	ActionMarkPaid:          StatusPaid,
}

// Draft -> Submitted -> Approved -> Ordered -> Delivered -> Paid. Delete is
// available from every status and Cancelled is only ever set by the backend.
var statusActions = map[Status][]Action{
	StatusDraft:     {ActionSubmitForApproval, ActionApprove},
	StatusSubmitted: {ActionApprove},
	StatusApproved:  {ActionMarkOrdered},
	StatusOrdered:   {ActionMarkReceived},
	StatusDelivered: {ActionMarkPaid},
}

// ParseAction matches an action label case-insensitively.
func ParseAction(label string) (Action, error) {
	label = strings.TrimSpace(label)
	for _, a := range []Action{
		ActionSubmitForApproval,
		ActionApprove,
		ActionMarkOrdered,
		ActionMarkReceived,
		ActionMarkPaid,
		ActionDelete,
	} {
		if strings.EqualFold(string(a), label) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, label)
}

// AvailableActions lists the actions valid for a status, Delete last.
func AvailableActions(s Status) []Action {
	actions := append([]Action(nil), statusActions[s]...)
	return append(actions, ActionDelete)
}

func CanApply(s Status, a Action) bool {
	for _, allowed := range AvailableActions(s) {
		if allowed == a {
			return true
		}
	}
	return false
}

// TargetStatus is the status an action produces. Delete has none.
func TargetStatus(a Action) (Status, bool) {
	s, ok := actionTargets[a]
	return s, ok
}

// ApplyAction returns po moved to the status produced by a. Delete is not
// handled here because it removes the record instead of changing it.
func ApplyAction(po PurchaseOrder, a Action) (PurchaseOrder, error) {
	if !CanApply(po.Status, a) {
		return po, fmt.Errorf("%w: %q on %s", ErrActionNotAllowed, a, po.Status)
	}
	target, ok := TargetStatus(a)
	if !ok {
		return po, fmt.Errorf("%w: %q does not change status", ErrActionNotAllowed, a)
	}
	po.Status = target
	po.PaymentStatus = PaymentStatusFor(target)
	return po, nil
}

var settledStatuses = map[Status]struct{}{
	StatusDelivered: {},
	StatusPaid:      {},
	StatusCancelled: {},
}

// IsOverdue reports whether the due date has passed and the order has not
// reached a settled status.
func IsOverdue(po PurchaseOrder, now time.Time) bool {
	if po.DateDue.IsZero() {
		return false
	}
	if _, settled := settledStatuses[po.Status]; settled {
		return false
	}
	return po.DateDue.Before(now)
}

// Tab is a dashboard filter bucket.
type Tab string

const (
	TabAll             Tab = "All"
	TabDrafts          Tab = "Drafts"
	TabPendingApproval Tab = "Pending Approval"
	TabOrdered         Tab = "Ordered"
	TabDelivered       Tab = "Delivered"
	TabUnpaid          Tab = "Unpaid"
)

var Tabs = []Tab{TabAll, TabDrafts, TabPendingApproval, TabOrdered, TabDelivered, TabUnpaid}

// ParseTab accepts tab labels case-insensitively, with '-' or '_' in place of
// spaces. An empty label is All.
func ParseTab(label string) (Tab, error) {
	normalized := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(label))
	if normalized == "" {
		return TabAll, nil
	}
	for _, t := range Tabs {
		if strings.EqualFold(string(t), normalized) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, label)
}

func InTab(po PurchaseOrder, tab Tab) bool {
	switch tab {
	case TabAll:
		return true
	case TabDrafts:
		return po.Status == StatusDraft
	case TabPendingApproval:
		return po.Status == StatusSubmitted || po.Status == StatusApproved
	case TabOrdered:
		return po.Status == StatusOrdered
	case TabDelivered:
		return po.Status == StatusDelivered
	case TabUnpaid:
		return po.PaymentStatus != PaymentFullyPaid
	default:
		return false
	}
}

// MatchesSearch is a case-insensitive substring match on PO number, vendor
// name and assignee. The query is used as given; an empty query matches
// everything.
func MatchesSearch(po PurchaseOrder, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(po.PONumber), q) ||
		strings.Contains(strings.ToLower(po.Vendor.Name), q) ||
		strings.Contains(strings.ToLower(po.AssignedTo), q)
}

// SortByDateCreatedDesc orders newest first; ties keep input order.
func SortByDateCreatedDesc(pos []PurchaseOrder) {
	sort.SliceStable(pos, func(i, j int) bool {
		return pos[i].DateCreated.After(pos[j].DateCreated.Time)
	})
}

// Filter applies tab then search and returns the matches newest first.
func Filter(pos []PurchaseOrder, tab Tab, query string) []PurchaseOrder {
	out := make([]PurchaseOrder, 0, len(pos))
	for _, po := range pos {
		if InTab(po, tab) && MatchesSearch(po, query) {
			out = append(out, po)
		}
	}
	SortByDateCreatedDesc(out)
	return out
}

// Annotate attaches the overdue flag and available actions.
func Annotate(po PurchaseOrder, now time.Time) PurchaseOrderRow {
	return PurchaseOrderRow{
		PurchaseOrder: po,
		Overdue:       IsOverdue(po, now),
		Actions:       AvailableActions(po.Status),
	}
}
