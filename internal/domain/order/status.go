package order

// OrderStatus represents the production lifecycle of an order.
// It is manually driven and independent of payment status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the normal flow permits moving to
// next. The flow is forward-only (Pending -> In Progress -> Completed
// -> Delivered); Cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.IsValid() || s.IsTerminal() || next == s {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return forwardRank(next) == forwardRank(s)+1
}

func forwardRank(s OrderStatus) int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusInProgress:
		return 1
	case OrderStatusCompleted:
		return 2
	case OrderStatusDelivered:
		return 3
	}
	return -1
}

// PaymentStatus represents the payment axis of an order.
// Paid is terminal for reconciliation purposes; Failed does not block
// further manual payment recording.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
	// PaymentStatusDone is a legacy paid-in-full marker set by
	// out-of-band reconciliation. It is treated exactly like Paid.
	PaymentStatusDone PaymentStatus = "Done"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusDone:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsSettled returns true when the order counts as paid in full,
// regardless of what the itemized contributions sum to.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentStatusPaid || s == PaymentStatusDone
}
