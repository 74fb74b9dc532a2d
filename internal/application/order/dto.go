package order

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/domain/shared"
)

// AddressInput carries a courier delivery address
type AddressInput struct {
	Street   string `json:"street"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// CreateOrderInput carries everything needed to price and create an
// order in one step. The price is quoted server-side from the rate
// cards; clients never submit totals.
type CreateOrderInput struct {
	OrderNo string `json:"order_no,omitempty"` // generated when empty

	AlbumType string `json:"album_type"`
	UserType  string `json:"user_type"`

	AlbumName   string `json:"album_name"`
	PaperType   string `json:"paper_type"`
	AlbumSize   string `json:"album_size"`
	DesignPoint string `json:"design_point,omitempty"`
	BagType     string `json:"bag_type,omitempty"`
	Quantity    int64  `json:"quantity"`
	Premium     bool   `json:"premium,omitempty"`

	DeliveryOption  string        `json:"delivery_option"`
	DeliveryAddress *AddressInput `json:"delivery_address,omitempty"`

	OrderDate    *time.Time `json:"order_date,omitempty"` // defaults to now
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`

	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty" binding:"omitempty,inmobile"`
	Notes  string `json:"notes,omitempty"`

	AdvanceAmount  *decimal.Decimal `json:"advance_amount,omitempty"`
	AdvancePercent *decimal.Decimal `json:"advance_percent,omitempty"`
}

// UpdateOrderInput mirrors the domain's allow-listed edit; nil leaves a
// field unchanged.
type UpdateOrderInput struct {
	AlbumName    *string    `json:"album_name,omitempty"`
	PaperType    *string    `json:"paper_type,omitempty"`
	AlbumSize    *string    `json:"album_size,omitempty"`
	DesignPoint  *string    `json:"design_point,omitempty"`
	BagType      *string    `json:"bag_type,omitempty"`
	SheetCount   *int64     `json:"sheet_count,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Mobile       *string    `json:"mobile,omitempty"`
	Notes        *string    `json:"notes,omitempty"`

	DeliveryOption  *string       `json:"delivery_option,omitempty"`
	DeliveryAddress *AddressInput `json:"delivery_address,omitempty"`
}

// ListOrdersInput narrows order listings
type ListOrdersInput struct {
	OrderStatus     string     `json:"order_status,omitempty" form:"order_status"`
	PaymentStatus   string     `json:"payment_status,omitempty" form:"payment_status"`
	Email           string     `json:"email,omitempty" form:"email"`
	Mobile          string     `json:"mobile,omitempty" form:"mobile"`
	FromDate        *time.Time `json:"from_date,omitempty" form:"from_date" time_format:"2006-01-02"`
	ToDate          *time.Time `json:"to_date,omitempty" form:"to_date" time_format:"2006-01-02"`
	Search          string     `json:"search,omitempty" form:"search"`
	IncludeInactive bool       `json:"include_inactive,omitempty" form:"include_inactive"`
	Limit           int        `json:"limit,omitempty" form:"limit"`
	Offset          int        `json:"offset,omitempty" form:"offset"`
}

func (in ListOrdersInput) toFilter() (order.Filter, error) {
	filter := order.Filter{
		Email:           in.Email,
		Mobile:          in.Mobile,
		FromDate:        in.FromDate,
		ToDate:          in.ToDate,
		Search:          in.Search,
		IncludeInactive: in.IncludeInactive,
		Limit:           in.Limit,
		Offset:          in.Offset,
	}
	if in.OrderStatus != "" {
		status := order.OrderStatus(in.OrderStatus)
		if !status.IsValid() {
			return order.Filter{}, shared.NewDomainError("INVALID_STATUS", "Unknown order status filter")
		}
		filter.OrderStatus = &status
	}
	if in.PaymentStatus != "" {
		status := order.PaymentStatus(in.PaymentStatus)
		if !status.IsValid() {
			return order.Filter{}, shared.NewDomainError("INVALID_STATUS", "Unknown payment status filter")
		}
		filter.PaymentStatus = &status
	}
	return filter, nil
}

// ListOrdersResult is a page of orders plus the unpaged total
type ListOrdersResult struct {
	Orders []*order.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// UploadedFile is one multipart part destined for an order's storage
// prefix.
type UploadedFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// VerifyPaymentInput is the gateway callback payload
type VerifyPaymentInput struct {
	OrderNo          string `json:"order_no"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// ManualPaymentInput records a counter payment against an order
type ManualPaymentInput struct {
	OrderNo string          `json:"order_no"`
	Channel string          `json:"channel"`
	Amount  decimal.Decimal `json:"amount"`
	UTR     string          `json:"utr,omitempty"`
}

// ReconcileItem is one administrative reconciliation entry: a
// payment-status override, an optional cash amount to record first,
// or both.
type ReconcileItem struct {
	OrderID       uuid.UUID        `json:"order_id"`
	PaymentStatus string           `json:"payment_status,omitempty"`
	CashAmount    *decimal.Decimal `json:"cash_amount,omitempty"`
}

// ReconcileFailure reports one item that could not be applied
type ReconcileFailure struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// BulkReconcileResult summarizes a bulk override: per-item isolation
// means some items may succeed while others fail.
type BulkReconcileResult struct {
	Updated  int                `json:"updated"`
	Failures []ReconcileFailure `json:"failures,omitempty"`
}
