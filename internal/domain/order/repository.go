package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows order listings
type Filter struct {
	OrderStatus     *OrderStatus
	PaymentStatus   *PaymentStatus
	Email           string
	Mobile          string
	FromDate        *time.Time
	ToDate          *time.Time
	Search          string // matches order no, serial no or album name
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ManualPaymentDelta is applied atomically at the storage layer so
// concurrent counter payments never lose an increment.
type ManualPaymentDelta struct {
	Channel PaymentChannel
	Amount  decimal.Decimal
	UTR     string
	PaidAt  time.Time
}

// Statistics summarizes collected and outstanding money across orders
type Statistics struct {
	TotalOrders      int64           `json:"total_orders"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	FullyPaidOrders  int64           `json:"fully_paid_orders"`
	PendingOrders    int64           `json:"pending_orders"`
}

// Repository persists orders. Implementations must treat OrderNo and
// SerialNo as unique and surface shared.ErrAlreadyExists on collision.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	FindBySerialNo(ctx context.Context, serialNo string) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]*Order, int64, error)
	FindByEmail(ctx context.Context, email string) ([]*Order, error)

	// AddManualPayment increments the channel accumulator with a
	// single atomic SQL update and returns the refreshed order.
	AddManualPayment(ctx context.Context, id uuid.UUID, delta ManualPaymentDelta) (*Order, error)

	Statistics(ctx context.Context, from, to *time.Time) (*Statistics, error)

	Delete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}
