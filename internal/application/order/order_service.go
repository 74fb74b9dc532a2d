// Package order orchestrates order intake, editing, file handling and
// payment processing on top of the domain aggregates.
package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/domain/pricing"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
)

// FileStore is the order-scoped blob storage the service depends on.
// Keys are opaque; the store namespaces them per order number.
type FileStore interface {
	Upload(ctx context.Context, orderNo, filename string, body io.Reader, contentType string) (string, error)
	ListKeys(ctx context.Context, orderNo string) ([]string, error)
	DeleteAll(ctx context.Context, orderNo string) error
	ArchiveZip(ctx context.Context, orderNo string, w io.Writer) error
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// OrderService handles order lifecycle operations
type OrderService struct {
	orderRepo    order.Repository
	serials      order.SerialAllocator
	rateCardRepo pricing.RateCardRepository
	files        FileStore
	logger       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.Repository,
	serials order.SerialAllocator,
	rateCardRepo pricing.RateCardRepository,
	files FileStore,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:    orderRepo,
		serials:      serials,
		rateCardRepo: rateCardRepo,
		files:        files,
		logger:       logger,
	}
}

// CreateOrder prices the order from the configured rate cards, assigns
// the next serial for the order date's year, and persists the
// aggregate. The price snapshot is immutable from here on. A failed
// serial allocation fails the whole creation; serials are never
// assigned after the fact.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*order.Order, error) {
	albumType := pricing.AlbumType(input.AlbumType)
	if !albumType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALBUM_TYPE", "Album type is not valid")
	}
	userType := pricing.UserType(input.UserType)
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type is not valid")
	}

	orderDate := time.Now()
	if input.OrderDate != nil && !input.OrderDate.IsZero() {
		orderDate = *input.OrderDate
	}

	deliveryOption := order.DeliveryOption(input.DeliveryOption)
	address := valueobject.EmptyAddress()
	if input.DeliveryAddress != nil {
		a := input.DeliveryAddress
		built, err := valueobject.NewAddress(a.Street, a.City, a.State, a.ZipCode, a.Country,
			valueobject.WithLandmark(a.Landmark))
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		address = built
	}

	price, err := s.quotePrice(ctx, albumType, userType, input)
	if err != nil {
		return nil, err
	}

	// Reject a taken order number before a serial is consumed, so a
	// predictable duplicate does not leave a gap in the year's
	// sequence. The unique index on Save stays as the backstop for
	// the race between the check and the insert.
	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		orderNo = generateOrderNo()
	} else if _, err := s.orderRepo.FindByOrderNo(ctx, orderNo); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("An order with number %s already exists", orderNo))
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	serialNo, err := s.serials.NextSerial(ctx, orderDate.Year())
	if err != nil {
		s.logger.Error("serial allocation failed", zap.Int("year", orderDate.Year()), zap.Error(err))
		return nil, err
	}

	product := order.ProductSpec{
		AlbumName:   input.AlbumName,
		PaperType:   input.PaperType,
		AlbumSize:   input.AlbumSize,
		DesignPoint: input.DesignPoint,
		BagType:     input.BagType,
		SheetCount:  input.Quantity,
	}

	o, err := order.NewOrder(orderNo, serialNo, product, deliveryOption, address, orderDate, input.Email, price)
	if err != nil {
		return nil, err
	}
	o.Mobile = strings.TrimSpace(input.Mobile)
	o.Notes = input.Notes
	o.DeliveryDate = input.DeliveryDate

	if err := s.orderRepo.Save(ctx, o); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("An order with number %s already exists", orderNo))
		}
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_no", o.OrderNo),
		zap.String("serial_no", o.SerialNo),
		zap.String("total", o.PriceDetails.Total.StringFixed(2)))
	return o, nil
}

// quotePrice resolves the rate card and snapshots the breakdown into
// the price details the aggregate validates at construction.
func (s *OrderService) quotePrice(ctx context.Context, albumType pricing.AlbumType, userType pricing.UserType, input CreateOrderInput) (order.PriceDetails, error) {
	card, err := s.rateCardRepo.FindByKey(ctx, albumType, userType, input.AlbumSize)
	if err != nil {
		if err == shared.ErrNotFound {
			return order.PriceDetails{}, shared.NewDomainError("RATE_NOT_CONFIGURED",
				"No rate card covers this album type, user type and paper size")
		}
		return order.PriceDetails{}, err
	}

	rates, err := card.Resolve(pricing.PaperType(input.PaperType), input.Premium)
	if err != nil {
		return order.PriceDetails{}, err
	}

	quoteInput := pricing.QuoteInput{
		Quantity:        input.Quantity,
		Rates:           rates,
		IncludeDelivery: input.DeliveryOption == string(order.DeliveryCourier),
	}
	if input.AdvanceAmount != nil {
		m := valueobject.NewMoneyINR(*input.AdvanceAmount)
		quoteInput.AdvanceAmount = &m
	}
	if input.AdvancePercent != nil {
		quoteInput.AdvancePercent = input.AdvancePercent
	}

	breakdown, err := pricing.Quote(quoteInput)
	if err != nil {
		return order.PriceDetails{}, err
	}

	return order.PriceDetails{
		Quantity:       breakdown.Quantity,
		PaperRate:      breakdown.PaperRate.Amount(),
		BindingRate:    breakdown.BindingRate.Amount(),
		BagRate:        breakdown.BagRate.Amount(),
		DeliveryCharge: breakdown.DeliveryCharge.Amount(),
		Subtotal:       breakdown.Subtotal.Amount(),
		Tax:            breakdown.Tax.Amount(),
		Total:          breakdown.Total.Amount(),
		AdvanceAmount:  breakdown.Advance.Amount(),
	}, nil
}

// generateOrderNo builds a client-facing tracking token. Uniqueness is
// enforced by the storage layer's unique index, not here.
func generateOrderNo() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// GetOrder fetches an order by its internal id
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// GetOrderByOrderNo fetches an order by its tracking token
func (s *OrderService) GetOrderByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return s.orderRepo.FindByOrderNo(ctx, orderNo)
}

// ListOrders returns a filtered page of orders. Deactivated orders are
// excluded unless the filter asks for them.
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error) {
	filter, err := input.toFilter()
	if err != nil {
		return nil, err
	}
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListOrdersResult{Orders: orders, Total: total}, nil
}

// ListOrdersByEmail returns every active order belonging to a customer
func (s *OrderService) ListOrdersByEmail(ctx context.Context, email string) ([]*order.Order, error) {
	return s.orderRepo.FindByEmail(ctx, email)
}

// UpdateOrder applies an allow-listed edit to an existing order
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := order.Update{
		AlbumName:    input.AlbumName,
		PaperType:    input.PaperType,
		AlbumSize:    input.AlbumSize,
		DesignPoint:  input.DesignPoint,
		BagType:      input.BagType,
		SheetCount:   input.SheetCount,
		DeliveryDate: input.DeliveryDate,
		Email:        input.Email,
		Mobile:       input.Mobile,
		Notes:        input.Notes,
	}
	if input.DeliveryOption != nil {
		option := order.DeliveryOption(*input.DeliveryOption)
		update.DeliveryOption = &option
	}
	if input.DeliveryAddress != nil {
		a := input.DeliveryAddress
		built, err := valueobject.NewAddress(a.Street, a.City, a.State, a.ZipCode, a.Country,
			valueobject.WithLandmark(a.Landmark))
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		update.DeliveryAddress = &built
	}

	if err := o.ApplyUpdate(update); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ChangeOrderStatus moves the production axis forward
func (s *OrderService) ChangeOrderStatus(ctx context.Context, id uuid.UUID, next order.OrderStatus) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.ChangeOrderStatus(next); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("order status changed",
		zap.String("order_no", o.OrderNo),
		zap.String("status", string(next)))
	return o, nil
}

// UploadFiles stores uploaded album files under the order's storage
// prefix and records the returned keys on the aggregate. Files are
// uploaded before the order is touched so a storage failure leaves the
// order unchanged.
func (s *OrderService) UploadFiles(ctx context.Context, orderNo string, uploads []UploadedFile) (*order.Order, error) {
	if len(uploads) == 0 {
		return nil, shared.NewDomainError("INVALID_UPLOAD", "No files to upload")
	}
	o, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(uploads))
	for _, u := range uploads {
		key, err := s.files.Upload(ctx, o.OrderNo, u.Filename, u.Body, u.ContentType)
		if err != nil {
			s.logger.Error("file upload failed",
				zap.String("order_no", o.OrderNo),
				zap.String("filename", u.Filename),
				zap.Error(err))
			return nil, err
		}
		keys = append(keys, key)
	}

	o.AttachFiles(keys)
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListFiles returns the storage keys currently held for an order
func (s *OrderService) ListFiles(ctx context.Context, orderNo string) ([]string, error) {
	if _, err := s.orderRepo.FindByOrderNo(ctx, orderNo); err != nil {
		return nil, err
	}
	return s.files.ListKeys(ctx, orderNo)
}

// FileDownloadURL returns a short-lived signed URL for one of the
// order's stored files. The key must belong to the order.
func (s *OrderService) FileDownloadURL(ctx context.Context, orderNo, key string, expiresIn time.Duration) (string, time.Time, error) {
	if _, err := s.orderRepo.FindByOrderNo(ctx, orderNo); err != nil {
		return "", time.Time{}, err
	}
	keys, err := s.files.ListKeys(ctx, orderNo)
	if err != nil {
		return "", time.Time{}, err
	}
	found := false
	for _, k := range keys {
		if k == key {
			found = true
			break
		}
	}
	if !found {
		return "", time.Time{}, shared.ErrNotFound
	}
	return s.files.DownloadURL(ctx, key, expiresIn)
}

// ArchiveFiles streams a zip of every file stored for the order into w.
// Cancelling ctx aborts the export; nothing persistent changes either
// way.
func (s *OrderService) ArchiveFiles(ctx context.Context, orderNo string, w io.Writer) error {
	if _, err := s.orderRepo.FindByOrderNo(ctx, orderNo); err != nil {
		return err
	}
	return s.files.ArchiveZip(ctx, orderNo, w)
}

// DeleteOrder soft-deletes an order. The row and its payment history
// stay for the audit trail, but stored files are released either way
// an order is deleted. A storage cleanup failure is logged, not
// propagated.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := o.Deactivate(); err != nil {
		return err
	}
	o.ClearFiles()
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err := s.files.DeleteAll(ctx, o.OrderNo); err != nil {
		s.logger.Error("order file cleanup failed",
			zap.String("order_no", o.OrderNo), zap.Error(err))
	}
	s.logger.Info("order deactivated", zap.String("order_no", o.OrderNo))
	return nil
}

// HardDeleteOrder permanently removes an order and releases its file
// storage. A storage cleanup failure is logged but does not resurrect
// the already-deleted row.
func (s *OrderService) HardDeleteOrder(ctx context.Context, id uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.HardDelete(ctx, id); err != nil {
		return err
	}
	if err := s.files.DeleteAll(ctx, o.OrderNo); err != nil {
		s.logger.Error("order file cleanup failed",
			zap.String("order_no", o.OrderNo), zap.Error(err))
	}
	s.logger.Info("order hard deleted", zap.String("order_no", o.OrderNo))
	return nil
}
