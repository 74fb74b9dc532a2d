package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/infrastructure/notification"
	"github.com/zenithstudio/backend/internal/infrastructure/payment"
)

// ReceiptRenderer renders the receipt document for an order snapshot
type ReceiptRenderer interface {
	Render(o *order.Order) (string, error)
}

// sideEffectTimeout bounds the post-commit receipt and email work
const sideEffectTimeout = 30 * time.Second

// PaymentService handles payment intents, gateway callbacks, manual
// counter payments and reconciliation views. State changes commit
// before any notification side effect runs; a failed email never rolls
// back a payment.
type PaymentService struct {
	orderRepo order.Repository
	gateway   payment.Gateway
	receipts  ReceiptRenderer
	mailer    notification.EmailSender
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service. Gateway, receipts
// and mailer may be nil when the deployment does not configure them;
// the operations that need them fail with a domain error instead.
func NewPaymentService(
	orderRepo order.Repository,
	gateway payment.Gateway,
	receipts ReceiptRenderer,
	mailer notification.EmailSender,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		receipts:  receipts,
		mailer:    mailer,
		logger:    logger,
	}
}

// CreateIntent opens a gateway payment intent for the order's current
// dues. Settled orders are rejected before the gateway is contacted.
func (s *PaymentService) CreateIntent(ctx context.Context, orderNo string) (*payment.Intent, error) {
	if s.gateway == nil {
		return nil, shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
	}
	o, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	breakdown := o.PaymentBreakdown()
	if breakdown.FullyPaid {
		return nil, shared.NewDomainError("ALREADY_PAID", "Order is already paid in full")
	}

	intent, err := s.gateway.CreateIntent(ctx, &payment.IntentRequest{
		OrderNo: o.OrderNo,
		Amount:  breakdown.GetDuesMoney(),
		Notes: map[string]string{
			"order_no":  o.OrderNo,
			"serial_no": o.SerialNo,
		},
	})
	if err != nil {
		s.logger.Error("gateway intent failed", zap.String("order_no", o.OrderNo), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment intent created",
		zap.String("order_no", o.OrderNo),
		zap.String("gateway_order_id", intent.GatewayOrderID),
		zap.Int64("amount_paise", intent.AmountPaise))
	return intent, nil
}

// RecordGatewayPayment handles the gateway success callback: the
// signature is verified before any state changes, the authoritative
// payment record is written exactly once, and the receipt email runs
// after the commit without blocking the caller.
func (s *PaymentService) RecordGatewayPayment(ctx context.Context, input VerifyPaymentInput) (*order.Order, error) {
	if s.gateway == nil {
		return nil, shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
	}
	if err := s.gateway.VerifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature); err != nil {
		s.logger.Warn("gateway signature rejected",
			zap.String("order_no", input.OrderNo),
			zap.String("gateway_order_id", input.GatewayOrderID))
		return nil, err
	}

	o, err := s.orderRepo.FindByOrderNo(ctx, input.OrderNo)
	if err != nil {
		return nil, err
	}

	if err := o.ConfirmGatewayPayment(order.PaymentInfo{
		GatewayOrderID:   input.GatewayOrderID,
		GatewayPaymentID: input.GatewayPaymentID,
		Signature:        input.Signature,
	}); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("gateway payment recorded",
		zap.String("order_no", o.OrderNo),
		zap.String("gateway_payment_id", input.GatewayPaymentID))

	s.sendReceiptAsync(o)
	return o, nil
}

// RecordManualPayment applies a cash or counter-UPI increment through
// the storage layer's atomic path and emails a receipt if the order
// just became fully paid.
func (s *PaymentService) RecordManualPayment(ctx context.Context, input ManualPaymentInput) (*order.Order, error) {
	channel := order.PaymentChannel(input.Channel)
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Payment channel must be cash or counterUpi")
	}
	if !input.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	o, err := s.orderRepo.FindByOrderNo(ctx, input.OrderNo)
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.AddManualPayment(ctx, o.ID, order.ManualPaymentDelta{
		Channel: channel,
		Amount:  input.Amount,
		UTR:     input.UTR,
		PaidAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual payment recorded",
		zap.String("order_no", updated.OrderNo),
		zap.String("channel", channel.String()),
		zap.String("amount", input.Amount.StringFixed(2)))

	if updated.PaymentBreakdown().FullyPaid {
		s.sendReceiptAsync(updated)
	}
	return updated, nil
}

// MarkPaymentFailed records a failed gateway attempt; the order stays
// open for manual payment.
func (s *PaymentService) MarkPaymentFailed(ctx context.Context, orderNo string) (*order.Order, error) {
	o, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if err := o.MarkPaymentFailed(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Warn("gateway payment failed", zap.String("order_no", o.OrderNo))
	return o, nil
}

// BulkReconcile applies administrative reconciliation entries, each
// an optional cash payment and an optional status override, with
// per-item isolation: one bad item never blocks the rest.
func (s *PaymentService) BulkReconcile(ctx context.Context, items []ReconcileItem) (*BulkReconcileResult, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No reconcile items supplied")
	}

	result := &BulkReconcileResult{}
	for _, item := range items {
		if err := s.reconcileOne(ctx, item); err != nil {
			result.Failures = append(result.Failures, ReconcileFailure{
				OrderID: item.OrderID,
				Reason:  err.Error(),
			})
			continue
		}
		result.Updated++
	}

	s.logger.Info("bulk reconcile finished",
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

func (s *PaymentService) reconcileOne(ctx context.Context, item ReconcileItem) error {
	if item.CashAmount == nil && item.PaymentStatus == "" {
		return shared.NewDomainError("INVALID_INPUT",
			"Reconcile item carries neither a cash amount nor a status")
	}

	o, err := s.orderRepo.FindByID(ctx, item.OrderID)
	if err != nil {
		return err
	}

	if item.CashAmount != nil {
		if !item.CashAmount.IsPositive() {
			return shared.NewDomainError("INVALID_AMOUNT", "Cash amount must be positive")
		}
		o, err = s.orderRepo.AddManualPayment(ctx, o.ID, order.ManualPaymentDelta{
			Channel: order.ChannelCash,
			Amount:  *item.CashAmount,
			PaidAt:  time.Now(),
		})
		if err != nil {
			return err
		}
	}

	if item.PaymentStatus == "" {
		return nil
	}
	if err := o.SetPaymentStatus(order.PaymentStatus(item.PaymentStatus)); err != nil {
		return err
	}
	return s.orderRepo.Update(ctx, o)
}

// Statistics aggregates billed, collected and outstanding totals for
// the optional date window. The read is eventually consistent; no
// cross-order locks are taken.
func (s *PaymentService) Statistics(ctx context.Context, from, to *time.Time) (*order.Statistics, error) {
	return s.orderRepo.Statistics(ctx, from, to)
}

// Transactions lists orders that carry a verified gateway payment
// record.
func (s *PaymentService) Transactions(ctx context.Context, limit, offset int) ([]*order.Order, error) {
	orders, _, err := s.orderRepo.FindAll(ctx, order.Filter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	withGateway := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o.HasGatewayPayment() {
			withGateway = append(withGateway, o)
		}
	}
	return withGateway, nil
}

// Receipt renders the receipt document for an order
func (s *PaymentService) Receipt(ctx context.Context, orderNo string) (string, error) {
	if s.receipts == nil {
		return "", shared.NewDomainError("RECEIPTS_UNAVAILABLE", "Receipt rendering is not configured")
	}
	o, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return "", err
	}
	return s.receipts.Render(o)
}

// SendReminder emails the customer their current dues. Fully paid
// orders and orders without an email address are rejected up front.
func (s *PaymentService) SendReminder(ctx context.Context, orderNo string) error {
	if s.mailer == nil {
		return shared.NewDomainError("MAILER_UNAVAILABLE", "Email sending is not configured")
	}
	o, err := s.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if o.PaymentBreakdown().FullyPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid in full")
	}
	if o.Email == "" {
		return shared.NewDomainError("NO_EMAIL", "Order has no customer email address")
	}

	if err := s.mailer.Send(ctx, notification.PaymentReminderEmail(o)); err != nil {
		s.logger.Error("payment reminder failed", zap.String("order_no", o.OrderNo), zap.Error(err))
		return err
	}
	s.logger.Info("payment reminder sent", zap.String("order_no", o.OrderNo))
	return nil
}

// sendReceiptAsync renders and emails the receipt after a payment
// committed. Failures are logged and never surfaced to the payer.
func (s *PaymentService) sendReceiptAsync(o *order.Order) {
	if s.receipts == nil || s.mailer == nil || o.Email == "" {
		return
	}
	snapshot := *o
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		html, err := s.receipts.Render(&snapshot)
		if err != nil {
			s.logger.Error("receipt render failed", zap.String("order_no", snapshot.OrderNo), zap.Error(err))
			return
		}
		if err := s.mailer.Send(ctx, notification.PaymentReceiptEmail(&snapshot, html)); err != nil {
			s.logger.Error("receipt email failed", zap.String("order_no", snapshot.OrderNo), zap.Error(err))
			return
		}
		s.logger.Info("receipt emailed", zap.String("order_no", snapshot.OrderNo))
	}()
}
