package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// DeliveryOption represents how the finished album reaches the customer
type DeliveryOption string

const (
	DeliveryPickup  DeliveryOption = "pickup"
	DeliveryCourier DeliveryOption = "courier"
)

// IsValid checks if the delivery option is known
func (d DeliveryOption) IsValid() bool {
	return d == DeliveryPickup || d == DeliveryCourier
}

var (
	errNegativeAmount      = shared.NewDomainError("INVALID_AMOUNT", "Monetary amounts cannot be negative")
	errInvalidQuantity     = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	errTotalMismatch       = shared.NewDomainError("INVALID_TOTAL", "Total must equal subtotal plus tax")
	errAdvanceExceedsTotal = shared.NewDomainError("INVALID_ADVANCE", "Advance cannot exceed total")
)

// ProductSpec carries the descriptive album fields. They are opaque to
// the reconciliation engine and carried through unchanged.
type ProductSpec struct {
	AlbumName   string `json:"album_name"`
	PaperType   string `json:"paper_type"`
	AlbumSize   string `json:"album_size"`
	DesignPoint string `json:"design_point,omitempty"`
	BagType     string `json:"bag_type,omitempty"`
	SheetCount  int64  `json:"sheet_count,omitempty"`
}

// Order is the central aggregate of the studio backend. It carries an
// immutable price snapshot, the two independent status axes, the
// gateway payment record, and the files uploaded for production.
type Order struct {
	shared.BaseAggregateRoot

	OrderNo  string // client-facing tracking token, unique and immutable
	SerialNo string // system-assigned ZN-<year>-<seq>, immutable once set

	Product ProductSpec

	DeliveryOption  DeliveryOption
	DeliveryAddress valueobject.Address

	OrderDate    time.Time
	DeliveryDate *time.Time

	Email  string
	Mobile string
	Notes  string

	PriceDetails PriceDetails

	PaymentStatus PaymentStatus
	PaymentInfo   PaymentInfo

	OrderStatus          OrderStatus
	OrderStatusUpdatedAt *time.Time

	UploadedFiles FileRefs

	Active bool
}

// NewOrder creates a new order after validating every invariant:
// required fields present, courier orders carry a complete address, and
// the price snapshot is internally consistent. No partial order is ever
// returned.
func NewOrder(
	orderNo string,
	serialNo string,
	product ProductSpec,
	deliveryOption DeliveryOption,
	deliveryAddress valueobject.Address,
	orderDate time.Time,
	email string,
	price PriceDetails,
) (*Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NO", "Order number cannot be empty")
	}
	if serialNo != "" {
		if _, _, err := ParseSerial(serialNo); err != nil {
			return nil, err
		}
	}
	if product.AlbumName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Album name is required")
	}
	if product.PaperType == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Paper type is required")
	}
	if product.AlbumSize == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Album size is required")
	}
	if !deliveryOption.IsValid() {
		return nil, shared.NewDomainError("INVALID_DELIVERY", "Delivery option must be pickup or courier")
	}
	if deliveryOption == DeliveryCourier {
		if err := validateCourierAddress(deliveryAddress); err != nil {
			return nil, err
		}
	}
	if orderDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ORDER_DATE", "Order date is required")
	}
	if err := price.validate(); err != nil {
		return nil, err
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNo:           orderNo,
		SerialNo:          serialNo,
		Product:           product,
		DeliveryOption:    deliveryOption,
		DeliveryAddress:   deliveryAddress,
		OrderDate:         orderDate,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PriceDetails:      price,
		PaymentStatus:     PaymentStatusPending,
		OrderStatus:       OrderStatusPending,
		UploadedFiles:     FileRefs{},
		Active:            true,
	}, nil
}

// validateCourierAddress enforces that every required address field is
// present before a courier order may be persisted.
func validateCourierAddress(addr valueobject.Address) error {
	missing := ""
	switch {
	case addr.Street() == "":
		missing = "street"
	case addr.City() == "":
		missing = "city"
	case addr.State() == "":
		missing = "state"
	case addr.ZipCode() == "":
		missing = "zip code"
	case addr.Country() == "":
		missing = "country"
	}
	if missing != "" {
		return shared.NewDomainError("INVALID_ADDRESS", fmt.Sprintf("Courier orders require a delivery address: %s is missing", missing))
	}
	return nil
}

// AssignSerial sets the serial number once. Reassignment is an error:
// serial numbers are immutable and never reused.
func (o *Order) AssignSerial(serialNo string) error {
	if o.SerialNo != "" {
		return shared.NewDomainError("SERIAL_ASSIGNED", "Order already has a serial number")
	}
	if _, _, err := ParseSerial(serialNo); err != nil {
		return err
	}
	o.SerialNo = serialNo
	o.UpdatedAt = time.Now()
	return nil
}

// ChangeOrderStatus moves the production axis. Transitions are
// forward-only; Cancelled is reachable from any non-terminal state.
// Payment events never drive this axis.
func (o *Order) ChangeOrderStatus(next OrderStatus) error {
	if !o.OrderStatus.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot move order from %s to %s", o.OrderStatus, next))
	}
	now := time.Now()
	o.OrderStatus = next
	o.OrderStatusUpdatedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// ConfirmGatewayPayment records a verified gateway transaction and
// marks the order Paid. The caller must have verified the signature
// already; this method only guards the single-record invariant.
// Confirming the same gateway payment twice is a no-op.
func (o *Order) ConfirmGatewayPayment(info PaymentInfo) error {
	if info.GatewayOrderID == "" || info.GatewayPaymentID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_INFO", "Gateway order and payment identifiers are required")
	}
	if !o.PaymentInfo.IsZero() {
		if o.PaymentInfo.GatewayPaymentID == info.GatewayPaymentID {
			return nil
		}
		return shared.NewDomainError("PAYMENT_RECORDED",
			"Order already has an authoritative gateway payment record")
	}

	now := time.Now()
	if info.PaymentDate == nil {
		info.PaymentDate = &now
	}
	o.PaymentInfo = info
	o.PaymentStatus = PaymentStatusPaid
	o.PriceDetails.PaymentDate = info.PaymentDate
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// RecordManualPayment adds a positive delta to the cash or counter-UPI
// accumulator and recomputes the payment status from the projection:
// totalPaid >= total promotes to Paid, anything less leaves the order
// Pending (including after an earlier Failed gateway attempt).
// Accumulation is monotonic; negative deltas are rejected.
func (o *Order) RecordManualPayment(channel PaymentChannel, delta valueobject.Money, utr string) error {
	if !channel.IsValid() {
		return shared.NewDomainError("INVALID_CHANNEL", fmt.Sprintf("Unknown payment channel %q", channel))
	}
	if !delta.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if o.PaymentStatus.IsSettled() {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid in full")
	}

	switch channel {
	case ChannelCash:
		o.PriceDetails.CashPayment = o.PriceDetails.CashPayment.Add(delta.Amount())
	case ChannelCounterUPI:
		o.PriceDetails.CounterUPIPayment = o.PriceDetails.CounterUPIPayment.Add(delta.Amount())
	}
	if utr != "" {
		o.PaymentInfo.UTR = utr
	}

	now := time.Now()
	o.PriceDetails.PaymentDate = &now
	o.recomputePaymentStatus()
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// recomputePaymentStatus derives the payment axis from the projection
// after a manual contribution. A settled marker stays settled.
func (o *Order) recomputePaymentStatus() {
	if o.PaymentStatus.IsSettled() {
		return
	}
	if o.PaymentBreakdown().FullyPaid {
		o.PaymentStatus = PaymentStatusPaid
	} else {
		o.PaymentStatus = PaymentStatusPending
	}
}

// MarkPaymentFailed records a failed gateway attempt. It does not block
// later manual payments.
func (o *Order) MarkPaymentFailed() error {
	if o.PaymentStatus.IsSettled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot fail a settled payment")
	}
	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetPaymentStatus applies an explicit administrative override of the
// payment axis. Regular flows derive the status; this exists for the
// bulk reconcile operation and back-office corrections.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown payment status %q", status))
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Update enumerates the order fields an edit may change. Identity,
// price totals and both status axes are deliberately absent; they have
// their own operations. nil means "leave unchanged".
type Update struct {
	AlbumName    *string
	PaperType    *string
	AlbumSize    *string
	DesignPoint  *string
	BagType      *string
	SheetCount   *int64
	DeliveryDate *time.Time
	Email        *string
	Mobile       *string
	Notes        *string

	DeliveryOption  *DeliveryOption
	DeliveryAddress *valueobject.Address
}

// ApplyUpdate applies an allow-listed edit. Switching to courier
// delivery revalidates the address invariant; a violation rejects the
// whole update with no partial change.
func (o *Order) ApplyUpdate(u Update) error {
	option := o.DeliveryOption
	if u.DeliveryOption != nil {
		if !u.DeliveryOption.IsValid() {
			return shared.NewDomainError("INVALID_DELIVERY", "Delivery option must be pickup or courier")
		}
		option = *u.DeliveryOption
	}
	address := o.DeliveryAddress
	if u.DeliveryAddress != nil {
		address = *u.DeliveryAddress
	}
	if option == DeliveryCourier {
		if err := validateCourierAddress(address); err != nil {
			return err
		}
	}
	if u.AlbumName != nil && *u.AlbumName == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Album name cannot be cleared")
	}

	if u.AlbumName != nil {
		o.Product.AlbumName = *u.AlbumName
	}
	if u.PaperType != nil {
		o.Product.PaperType = *u.PaperType
	}
	if u.AlbumSize != nil {
		o.Product.AlbumSize = *u.AlbumSize
	}
	if u.DesignPoint != nil {
		o.Product.DesignPoint = *u.DesignPoint
	}
	if u.BagType != nil {
		o.Product.BagType = *u.BagType
	}
	if u.SheetCount != nil {
		o.Product.SheetCount = *u.SheetCount
	}
	if u.DeliveryDate != nil {
		o.DeliveryDate = u.DeliveryDate
	}
	if u.Email != nil {
		o.Email = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Mobile != nil {
		o.Mobile = strings.TrimSpace(*u.Mobile)
	}
	if u.Notes != nil {
		o.Notes = *u.Notes
	}
	o.DeliveryOption = option
	o.DeliveryAddress = address

	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// AttachFiles appends uploaded file references to the order
func (o *Order) AttachFiles(refs []string) {
	o.UploadedFiles = append(o.UploadedFiles, refs...)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// ClearFiles drops the stored file references once the underlying
// storage has been released
func (o *Order) ClearFiles() {
	o.UploadedFiles = FileRefs{}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Deactivate soft-deletes the order, preserving the financial audit
// trail. File cleanup is the caller's responsibility.
func (o *Order) Deactivate() error {
	if !o.Active {
		return shared.NewDomainError("INVALID_STATE", "Order is already deactivated")
	}
	o.Active = false
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// IsDelivered returns true if the production axis reached Delivered
func (o *Order) IsDelivered() bool {
	return o.OrderStatus == OrderStatusDelivered
}

// HasGatewayPayment returns true if a verified gateway transaction is recorded
func (o *Order) HasGatewayPayment() bool {
	return !o.PaymentInfo.IsZero()
}
