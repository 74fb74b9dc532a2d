package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save creates a new order row
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists the order with an optimistic lock on the version column
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version < ?", o.ID, o.Version).
		Select("*").Omit("id", "created_at", "order_no").
		Updates(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderNo finds an order by its client-facing tracking token
func (r *GormOrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "order_no = ?", orderNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySerialNo finds an order by its serial number
func (r *GormOrderRepository) FindBySerialNo(ctx context.Context, serialNo string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "serial_no = ?", serialNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter, returning the page and
// the total matching count.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var orderModels []models.OrderModel
	if err := query.Order("order_date DESC, created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// FindByEmail finds all active orders for a customer email
func (r *GormOrderRepository) FindByEmail(ctx context.Context, email string) ([]*order.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("email = ? AND active = ?", strings.ToLower(email), true).
		Order("order_date DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]*order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}

// AddManualPayment applies a channel delta with a single guarded SQL
// increment so concurrent counter payments never lose an update, then
// re-derives the payment status inside the same transaction.
func (r *GormOrderRepository) AddManualPayment(ctx context.Context, id uuid.UUID, delta order.ManualPaymentDelta) (*order.Order, error) {
	if !delta.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	var column string
	switch delta.Channel {
	case order.ChannelCash:
		column = "cash_payment"
	case order.ChannelCounterUPI:
		column = "counter_upi_payment"
	default:
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown payment channel")
	}

	paidAt := delta.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	var result *order.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			column:         gorm.Expr(column+" + ?", delta.Amount),
			"payment_date": paidAt,
			"updated_at":   time.Now(),
			"version":      gorm.Expr("version + 1"),
		}
		if delta.UTR != "" {
			updates["payment_info"] = gorm.Expr(
				"jsonb_set(payment_info, '{utr}', to_jsonb(?::text))", delta.UTR)
		}

		res := tx.Model(&models.OrderModel{}).
			Where("id = ? AND active = ? AND payment_status NOT IN ?",
				id, true, []order.PaymentStatus{order.PaymentStatusPaid, order.PaymentStatusDone}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either missing or already settled; distinguish for the caller.
			var exists int64
			if err := tx.Model(&models.OrderModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return shared.ErrNotFound
			}
			return shared.NewDomainError("ALREADY_PAID", "Order is already paid in full")
		}

		// Promote to Paid when the contributions now cover the total.
		if err := tx.Model(&models.OrderModel{}).
			Where("id = ? AND payment_status NOT IN ? AND advance_amount + cash_payment + counter_upi_payment >= total",
				id, []order.PaymentStatus{order.PaymentStatusPaid, order.PaymentStatusDone}).
			Update("payment_status", order.PaymentStatusPaid).Error; err != nil {
			return err
		}

		var model models.OrderModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			return err
		}
		result = model.ToDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Statistics aggregates billed, collected and outstanding money across
// active orders in the optional date window.
func (r *GormOrderRepository) Statistics(ctx context.Context, from, to *time.Time) (*order.Statistics, error) {
	settled := []order.PaymentStatus{order.PaymentStatusPaid, order.PaymentStatusDone}

	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("active = ?", true)
	if from != nil {
		query = query.Where("order_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("order_date <= ?", *to)
	}

	var row struct {
		TotalOrders     int64
		TotalBilled     decimal.Decimal
		TotalCollected  decimal.Decimal
		FullyPaidOrders int64
	}
	if err := query.
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(total), 0) AS total_billed,
			COALESCE(SUM(CASE WHEN payment_status IN ? THEN total
				WHEN advance_amount + cash_payment + counter_upi_payment > total THEN total
				ELSE advance_amount + cash_payment + counter_upi_payment END), 0) AS total_collected,
			COALESCE(SUM(CASE WHEN payment_status IN ? OR advance_amount + cash_payment + counter_upi_payment >= total
				THEN 1 ELSE 0 END), 0) AS fully_paid_orders`,
			settled, settled).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	return &order.Statistics{
		TotalOrders:      row.TotalOrders,
		TotalBilled:      row.TotalBilled,
		TotalCollected:   row.TotalCollected,
		TotalOutstanding: row.TotalBilled.Sub(row.TotalCollected),
		FullyPaidOrders:  row.FullyPaidOrders,
		PendingOrders:    row.TotalOrders - row.FullyPaidOrders,
	}, nil
}

// Delete soft-deletes an order, preserving the financial trail
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HardDelete removes the order row entirely
func (r *GormOrderRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter order.Filter) *gorm.DB {
	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.OrderStatus != nil {
		query = query.Where("order_status = ?", *filter.OrderStatus)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", strings.ToLower(filter.Email))
	}
	if filter.Mobile != "" {
		query = query.Where("mobile = ?", filter.Mobile)
	}
	if filter.FromDate != nil {
		query = query.Where("order_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("order_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_no LIKE ? OR serial_no LIKE ? OR album_name LIKE ?", pattern, pattern, pattern)
	}
	return query
}

// isUniqueViolation reports whether the error is a unique constraint failure
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
