package domain

import "fmt"

// BackendStatus is the status enum persisted by the backend.
type BackendStatus string

const (
	BackendDraft     BackendStatus = "Draft"
	BackendApproved  BackendStatus = "Approved"
	BackendOrdered   BackendStatus = "Ordered"
	BackendReceived  BackendStatus = "Received"
	BackendCancelled BackendStatus = "Cancelled"
)

// Status is the UI status vocabulary, wider than BackendStatus.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
	StatusOrdered   Status = "Ordered"
	StatusDelivered Status = "Delivered"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "Unpaid"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentFullyPaid     PaymentStatus = "Fully Paid"
)

// TranslateStatus maps a backend status to the UI status and the payment
// status inferred from it. Values outside the backend enum fall back to
// Submitted; ok is false in that case so callers can flag the record.
func TranslateStatus(s BackendStatus) (status Status, payment PaymentStatus, ok bool) {
	switch s {
	case BackendReceived:
		return StatusDelivered, PaymentFullyPaid, true
	case BackendOrdered:
		return StatusOrdered, PaymentUnpaid, true
	case BackendApproved:
		return StatusApproved, PaymentUnpaid, true
	case BackendDraft:
		return StatusDraft, PaymentUnpaid, true
	case BackendCancelled:
		return StatusCancelled, PaymentUnpaid, true
	default:
		return StatusSubmitted, PaymentUnpaid, false
	}
}

// BackendStatusFor returns the backend status that persists a UI status.
// Submitted and Paid exist only in the UI.
func BackendStatusFor(s Status) (BackendStatus, bool) {
	switch s {
	case StatusDraft:
		return BackendDraft, true
	case StatusApproved:
		return BackendApproved, true
	case StatusOrdered:
		return BackendOrdered, true
	case StatusDelivered:
		return BackendReceived, true
	case StatusCancelled:
		return BackendCancelled, true
	default:
		return "", false
	}
}

// PaymentStatusFor infers the payment axis from a UI status.
func PaymentStatusFor(s Status) PaymentStatus {
	switch s {
	case StatusDelivered, StatusPaid:
		return PaymentFullyPaid
	default:
		return PaymentUnpaid
	}
}

// FormatPONumber renders "PO-" followed by the id padded to at least three digits.
func FormatPONumber(id int64) string {
	return fmt.Sprintf("PO-%03d", id)
}
