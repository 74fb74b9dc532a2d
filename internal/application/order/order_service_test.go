package order

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/domain/pricing"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/domain/shared/valueobject"
	"github.com/zenithstudio/backend/internal/infrastructure/notification"
	"github.com/zenithstudio/backend/internal/infrastructure/payment"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderNo == o.OrderNo || (o.SerialNo != "" && existing.SerialNo == o.SerialNo) {
			return shared.ErrAlreadyExists
		}
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return shared.ErrNotFound
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindBySerialNo(_ context.Context, serialNo string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.SerialNo == serialNo {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter order.Filter) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*order.Order
	for _, o := range r.orders {
		if !o.Active && !filter.IncludeInactive {
			continue
		}
		if filter.OrderStatus != nil && o.OrderStatus != *filter.OrderStatus {
			continue
		}
		if filter.PaymentStatus != nil && o.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.Email != "" && o.Email != filter.Email {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNo < out[j].OrderNo })
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindByEmail(ctx context.Context, email string) ([]*order.Order, error) {
	orders, _, err := r.FindAll(ctx, order.Filter{Email: email})
	return orders, err
}

func (r *fakeOrderRepo) AddManualPayment(_ context.Context, id uuid.UUID, delta order.ManualPaymentDelta) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	amount := valueobject.NewMoneyINR(delta.Amount)
	if err := o.RecordManualPayment(delta.Channel, amount, delta.UTR); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *fakeOrderRepo) Statistics(_ context.Context, _, _ *time.Time) (*order.Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &order.Statistics{}
	for _, o := range r.orders {
		if !o.Active {
			continue
		}
		b := o.PaymentBreakdown()
		stats.TotalOrders++
		stats.TotalBilled = stats.TotalBilled.Add(b.Total)
		stats.TotalCollected = stats.TotalCollected.Add(b.TotalPaid)
		stats.TotalOutstanding = stats.TotalOutstanding.Add(b.Dues)
		if b.FullyPaid {
			stats.FullyPaidOrders++
		} else {
			stats.PendingOrders++
		}
	}
	return stats, nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	return o.Deactivate()
}

func (r *fakeOrderRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type fakeSerialAllocator struct {
	mu    sync.Mutex
	seqs  map[int]int
	fail  bool
	calls int
}

func (a *fakeSerialAllocator) NextSerial(_ context.Context, year int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.fail {
		return "", fmt.Errorf("allocator unavailable")
	}
	if a.seqs == nil {
		a.seqs = make(map[int]int)
	}
	a.seqs[year]++
	return order.FormatSerial(year, a.seqs[year]), nil
}

type fakeFileStore struct {
	mu    sync.Mutex
	blobs map[string][]byte // key -> content
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{blobs: make(map[string][]byte)}
}

func (f *fakeFileStore) Upload(_ context.Context, orderNo, filename string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	key := "orders/" + orderNo + "/" + filename
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return key, nil
}

func (f *fakeFileStore) ListKeys(_ context.Context, orderNo string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.blobs {
		if strings.HasPrefix(key, "orders/"+orderNo+"/") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeFileStore) DeleteAll(ctx context.Context, orderNo string) error {
	keys, _ := f.ListKeys(ctx, orderNo)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.blobs, key)
	}
	return nil
}

func (f *fakeFileStore) ArchiveZip(ctx context.Context, orderNo string, w io.Writer) error {
	keys, _ := f.ListKeys(ctx, orderNo)
	if len(keys) == 0 {
		return shared.ErrNotFound
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(w, key); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFileStore) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://files.test/" + key, time.Now().Add(expiresIn), nil
}

type fakeGateway struct {
	mu        sync.Mutex
	intents   []*payment.IntentRequest
	failSig   bool
	intentErr error
}

func (g *fakeGateway) CreateIntent(_ context.Context, req *payment.IntentRequest) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.intentErr != nil {
		return nil, g.intentErr
	}
	g.intents = append(g.intents, req)
	return &payment.Intent{
		GatewayOrderID: fmt.Sprintf("order_fake_%d", len(g.intents)),
		AmountPaise:    req.Amount.Paise(),
		Currency:       "INR",
		KeyID:          "rzp_test_key",
	}, nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) error {
	if g.failSig || signature != "sig-valid" {
		return shared.ErrInvalidSignature
	}
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(o *order.Order) (string, error) {
	return "<html>receipt " + o.OrderNo + "</html>", nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*notification.Message
}

func (m *fakeMailer) Send(_ context.Context, msg *notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeRateCardRepo struct {
	cards map[uuid.UUID]*pricing.RateCard
}

func (r *fakeRateCardRepo) FindByID(_ context.Context, id uuid.UUID) (*pricing.RateCard, error) {
	card, ok := r.cards[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return card, nil
}

func (r *fakeRateCardRepo) FindByKey(_ context.Context, albumType pricing.AlbumType, userType pricing.UserType, paperSize string) (*pricing.RateCard, error) {
	for _, card := range r.cards {
		if card.AlbumType == albumType && card.UserType == userType && card.PaperSize == paperSize {
			return card, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRateCardRepo) FindAll(_ context.Context, _ pricing.RateCardFilter) ([]pricing.RateCard, error) {
	var out []pricing.RateCard
	for _, card := range r.cards {
		out = append(out, *card)
	}
	return out, nil
}

func (r *fakeRateCardRepo) Save(_ context.Context, card *pricing.RateCard) error {
	r.cards[card.ID] = card
	return nil
}

func (r *fakeRateCardRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cards, id)
	return nil
}

type testEnv struct {
	orders   *OrderService
	payments *PaymentService
	repo     *fakeOrderRepo
	files    *fakeFileStore
	gateway  *fakeGateway
	mailer   *fakeMailer
	serials  *fakeSerialAllocator
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	card, err := pricing.NewRateCard(
		pricing.AlbumTypePrintOnly, pricing.UserTypeUser, "12x36",
		valueobject.NewMoneyINRFromFloat(30),
		valueobject.NewMoneyINRFromFloat(25),
		valueobject.NewMoneyINRFromFloat(250),
		valueobject.NewMoneyINRFromFloat(40),
		"standard",
		decimal.Zero,
		valueobject.NewMoneyINRFromFloat(110),
	)
	require.NoError(t, err)

	repo := newFakeOrderRepo()
	files := newFakeFileStore()
	gateway := &fakeGateway{}
	mailer := &fakeMailer{}
	serials := &fakeSerialAllocator{}
	rateCards := &fakeRateCardRepo{cards: map[uuid.UUID]*pricing.RateCard{card.ID: card}}

	return &testEnv{
		orders:   NewOrderService(repo, serials, rateCards, files, nil),
		payments: NewPaymentService(repo, gateway, fakeRenderer{}, mailer, nil),
		repo:     repo,
		files:    files,
		gateway:  gateway,
		mailer:   mailer,
		serials:  serials,
	}
}

func baseCreateInput() CreateOrderInput {
	advance := decimal.NewFromInt(300)
	return CreateOrderInput{
		AlbumType: "Print only",
		UserType:  "user",
		AlbumName: "Sharma Wedding",
		PaperType: "glossy",
		AlbumSize: "12x36",
		Quantity:  20,

		DeliveryOption: "courier",
		DeliveryAddress: &AddressInput{
			Street:  "14 MG Road",
			City:    "Pune",
			State:   "Maharashtra",
			ZipCode: "411001",
			Country: "India",
		},

		Email:         "customer@example.com",
		Mobile:        "9876543210",
		AdvanceAmount: &advance,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Run("prices and assigns serial", func(t *testing.T) {
		env := setupServices(t)

		o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)

		assert.Equal(t, order.FormatSerial(time.Now().Year(), 1), o.SerialNo)
		assert.True(t, strings.HasPrefix(o.OrderNo, "ORD-"))
		// 20*30 + 250 + 40 + 110 = 1000, tax 0
		assert.True(t, o.PriceDetails.Total.Equal(decimal.NewFromInt(1000)))
		assert.True(t, o.PriceDetails.AdvanceAmount.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, order.PaymentStatusPending, o.PaymentStatus)
		assert.Equal(t, order.OrderStatusPending, o.OrderStatus)

		b := o.PaymentBreakdown()
		assert.True(t, b.Dues.Equal(decimal.NewFromInt(700)))
	})

	t.Run("serials advance per order", func(t *testing.T) {
		env := setupServices(t)

		first, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)
		second, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)

		year := time.Now().Year()
		assert.Equal(t, order.FormatSerial(year, 1), first.SerialNo)
		assert.Equal(t, order.FormatSerial(year, 2), second.SerialNo)
	})

	t.Run("missing rate card fails closed", func(t *testing.T) {
		env := setupServices(t)

		input := baseCreateInput()
		input.AlbumSize = "18x24"
		_, err := env.orders.CreateOrder(t.Context(), input)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RATE_NOT_CONFIGURED", domainErr.Code)
	})

	t.Run("allocator failure fails the creation", func(t *testing.T) {
		env := setupServices(t)
		env.serials.fail = true

		_, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.Error(t, err)
		orders, _, _ := env.repo.FindAll(t.Context(), order.Filter{})
		assert.Empty(t, orders)
	})

	t.Run("courier without address rejected", func(t *testing.T) {
		env := setupServices(t)

		input := baseCreateInput()
		input.DeliveryAddress = nil
		_, err := env.orders.CreateOrder(t.Context(), input)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ADDRESS", domainErr.Code)
	})

	t.Run("duplicate order number rejected", func(t *testing.T) {
		env := setupServices(t)

		input := baseCreateInput()
		input.OrderNo = "ORD-CUSTOM"
		_, err := env.orders.CreateOrder(t.Context(), input)
		require.NoError(t, err)

		_, err = env.orders.CreateOrder(t.Context(), input)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)

		// the rejection must not consume a serial
		next, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)
		assert.Equal(t, order.FormatSerial(time.Now().Year(), 2), next.SerialNo)
	})
}

func TestOrderService_UpdateAndStatus(t *testing.T) {
	env := setupServices(t)
	o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	t.Run("allow-listed edit", func(t *testing.T) {
		name := "Sharma Wedding Vol 2"
		notes := "rush job"
		updated, err := env.orders.UpdateOrder(t.Context(), o.ID, UpdateOrderInput{
			AlbumName: &name,
			Notes:     &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Product.AlbumName)
		assert.Equal(t, notes, updated.Notes)
		// price snapshot untouched
		assert.True(t, updated.PriceDetails.Total.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("forward-only production axis", func(t *testing.T) {
		updated, err := env.orders.ChangeOrderStatus(t.Context(), o.ID, order.OrderStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusInProgress, updated.OrderStatus)

		_, err = env.orders.ChangeOrderStatus(t.Context(), o.ID, order.OrderStatusPending)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestOrderService_Files(t *testing.T) {
	env := setupServices(t)
	o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	uploads := []UploadedFile{
		{Filename: "page-01.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg-a")},
		{Filename: "page-02.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg-b")},
	}
	updated, err := env.orders.UploadFiles(t.Context(), o.OrderNo, uploads)
	require.NoError(t, err)
	assert.Len(t, updated.UploadedFiles, 2)

	keys, err := env.orders.ListFiles(t.Context(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"orders/" + o.OrderNo + "/page-01.jpg",
		"orders/" + o.OrderNo + "/page-02.jpg",
	}, keys)

	var buf bytes.Buffer
	require.NoError(t, env.orders.ArchiveFiles(t.Context(), o.OrderNo, &buf))
	assert.Contains(t, buf.String(), "page-01.jpg")

	t.Run("download url scoped to order", func(t *testing.T) {
		url, expiresAt, err := env.orders.FileDownloadURL(t.Context(), o.OrderNo, keys[0], 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "page-01.jpg")
		assert.True(t, expiresAt.After(time.Now()))

		_, _, err = env.orders.FileDownloadURL(t.Context(), o.OrderNo, "orders/ZN-2099-0001/other.jpg", 15*time.Minute)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list by email", func(t *testing.T) {
		byEmail, err := env.orders.ListOrdersByEmail(t.Context(), o.Email)
		require.NoError(t, err)
		require.Len(t, byEmail, 1)
		assert.Equal(t, o.OrderNo, byEmail[0].OrderNo)

		none, err := env.orders.ListOrdersByEmail(t.Context(), "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("soft delete releases storage", func(t *testing.T) {
		require.NoError(t, env.orders.DeleteOrder(t.Context(), o.ID))
		keys, err := env.files.ListKeys(t.Context(), o.OrderNo)
		require.NoError(t, err)
		assert.Empty(t, keys)

		// the row survives for the audit trail, without file refs
		reloaded, err := env.orders.GetOrder(t.Context(), o.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.Active)
		assert.Empty(t, reloaded.UploadedFiles)

		// deactivated orders drop out of default listings
		orders, _, err := env.repo.FindAll(t.Context(), order.Filter{})
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("hard delete removes the row", func(t *testing.T) {
		require.NoError(t, env.orders.HardDeleteOrder(t.Context(), o.ID))
		keys, err := env.files.ListKeys(t.Context(), o.OrderNo)
		require.NoError(t, err)
		assert.Empty(t, keys)
		_, err = env.orders.GetOrder(t.Context(), o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPaymentService_CreateIntent(t *testing.T) {
	env := setupServices(t)
	o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	intent, err := env.payments.CreateIntent(t.Context(), o.OrderNo)
	require.NoError(t, err)
	// dues 700.00 -> 70000 paise
	assert.Equal(t, int64(70000), intent.AmountPaise)
	assert.Equal(t, "INR", intent.Currency)

	t.Run("settled order rejected", func(t *testing.T) {
		_, err := env.payments.RecordManualPayment(t.Context(), ManualPaymentInput{
			OrderNo: o.OrderNo,
			Channel: "cash",
			Amount:  decimal.NewFromInt(700),
		})
		require.NoError(t, err)

		_, err = env.payments.CreateIntent(t.Context(), o.OrderNo)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_PAID", domainErr.Code)
	})
}

func TestPaymentService_RecordGatewayPayment(t *testing.T) {
	t.Run("verified callback settles the order", func(t *testing.T) {
		env := setupServices(t)
		o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)

		updated, err := env.payments.RecordGatewayPayment(t.Context(), VerifyPaymentInput{
			OrderNo:          o.OrderNo,
			GatewayOrderID:   "order_Nx12",
			GatewayPaymentID: "pay_Nx34",
			Signature:        "sig-valid",
		})
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, updated.PaymentStatus)
		assert.Equal(t, "pay_Nx34", updated.PaymentInfo.GatewayPaymentID)

		b := updated.PaymentBreakdown()
		assert.True(t, b.Settled)
		assert.True(t, b.Dues.IsZero())

		// receipt email fires after the commit
		require.Eventually(t, func() bool { return env.mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("bad signature leaves the order untouched", func(t *testing.T) {
		env := setupServices(t)
		o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)

		_, err = env.payments.RecordGatewayPayment(t.Context(), VerifyPaymentInput{
			OrderNo:          o.OrderNo,
			GatewayOrderID:   "order_Nx12",
			GatewayPaymentID: "pay_Nx34",
			Signature:        "forged",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidSignature)

		reloaded, err := env.orders.GetOrderByOrderNo(t.Context(), o.OrderNo)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPending, reloaded.PaymentStatus)
		assert.True(t, reloaded.PaymentInfo.IsZero())
		assert.Zero(t, env.mailer.count())
	})

	t.Run("repeated callback is idempotent", func(t *testing.T) {
		env := setupServices(t)
		o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
		require.NoError(t, err)

		input := VerifyPaymentInput{
			OrderNo:          o.OrderNo,
			GatewayOrderID:   "order_Nx12",
			GatewayPaymentID: "pay_Nx34",
			Signature:        "sig-valid",
		}
		_, err = env.payments.RecordGatewayPayment(t.Context(), input)
		require.NoError(t, err)
		updated, err := env.payments.RecordGatewayPayment(t.Context(), input)
		require.NoError(t, err)
		assert.Equal(t, "pay_Nx34", updated.PaymentInfo.GatewayPaymentID)
	})
}

func TestPaymentService_RecordManualPayment(t *testing.T) {
	env := setupServices(t)
	o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	t.Run("partial payment stays pending", func(t *testing.T) {
		updated, err := env.payments.RecordManualPayment(t.Context(), ManualPaymentInput{
			OrderNo: o.OrderNo,
			Channel: "cash",
			Amount:  decimal.NewFromInt(200),
		})
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPending, updated.PaymentStatus)
		assert.True(t, updated.PaymentBreakdown().Dues.Equal(decimal.NewFromInt(500)))
		assert.Zero(t, env.mailer.count())
	})

	t.Run("completing payment promotes to paid and emails receipt", func(t *testing.T) {
		updated, err := env.payments.RecordManualPayment(t.Context(), ManualPaymentInput{
			OrderNo: o.OrderNo,
			Channel: "counterUpi",
			Amount:  decimal.NewFromInt(500),
			UTR:     "UTR123456",
		})
		require.NoError(t, err)
		assert.Equal(t, order.PaymentStatusPaid, updated.PaymentStatus)
		assert.Equal(t, "UTR123456", updated.PaymentInfo.UTR)
		require.Eventually(t, func() bool { return env.mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("settled order rejects further payments", func(t *testing.T) {
		_, err := env.payments.RecordManualPayment(t.Context(), ManualPaymentInput{
			OrderNo: o.OrderNo,
			Channel: "cash",
			Amount:  decimal.NewFromInt(10),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_PAID", domainErr.Code)
	})

	t.Run("unknown channel rejected", func(t *testing.T) {
		_, err := env.payments.RecordManualPayment(t.Context(), ManualPaymentInput{
			OrderNo: o.OrderNo,
			Channel: "cheque",
			Amount:  decimal.NewFromInt(10),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CHANNEL", domainErr.Code)
	})
}

func TestPaymentService_BulkReconcile(t *testing.T) {
	env := setupServices(t)
	first, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)
	second, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	result, err := env.payments.BulkReconcile(t.Context(), []ReconcileItem{
		{OrderID: first.ID, PaymentStatus: "Done"},
		{OrderID: second.ID, PaymentStatus: "NotAStatus"},
		{OrderID: uuid.New(), PaymentStatus: "Paid"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, result.Failures, 2)

	reloaded, err := env.orders.GetOrder(t.Context(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusDone, reloaded.PaymentStatus)
	assert.True(t, reloaded.PaymentBreakdown().Settled)

	// the bad item never touched the second order
	untouched, err := env.orders.GetOrder(t.Context(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatusPending, untouched.PaymentStatus)

	t.Run("cash amount entries", func(t *testing.T) {
		amount := decimal.NewFromInt(700)
		negative := decimal.NewFromInt(-5)
		result, err := env.payments.BulkReconcile(t.Context(), []ReconcileItem{
			{OrderID: second.ID, CashAmount: &amount},
			{OrderID: first.ID, CashAmount: &negative},
			{OrderID: first.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		require.Len(t, result.Failures, 2)
		assert.Contains(t, result.Failures[0].Reason, "positive")

		// advance 300 + cash 700 settles the second order
		reloaded, err := env.orders.GetOrder(t.Context(), second.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.PriceDetails.CashPayment.Equal(amount))
		assert.True(t, reloaded.PaymentBreakdown().FullyPaid)
	})
}

func TestPaymentService_StatisticsAndTransactions(t *testing.T) {
	env := setupServices(t)
	paid, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)
	_, err = env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	_, err = env.payments.RecordGatewayPayment(t.Context(), VerifyPaymentInput{
		OrderNo:          paid.OrderNo,
		GatewayOrderID:   "order_Nx12",
		GatewayPaymentID: "pay_Nx34",
		Signature:        "sig-valid",
	})
	require.NoError(t, err)

	stats, err := env.payments.Statistics(t.Context(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.FullyPaidOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.True(t, stats.TotalBilled.Equal(decimal.NewFromInt(2000)))
	// settled order counts at its full total, pending one at its advance
	assert.True(t, stats.TotalCollected.Equal(decimal.NewFromInt(1300)))
	assert.True(t, stats.TotalOutstanding.Equal(decimal.NewFromInt(700)))

	transactions, err := env.payments.Transactions(t.Context(), 0, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, paid.OrderNo, transactions[0].OrderNo)
}

func TestPaymentService_Reminder(t *testing.T) {
	env := setupServices(t)
	o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	require.NoError(t, env.payments.SendReminder(t.Context(), o.OrderNo))
	require.Equal(t, 1, env.mailer.count())
	assert.Equal(t, "customer@example.com", env.mailer.sent[0].To)

	t.Run("settled order rejected", func(t *testing.T) {
		_, err := env.payments.RecordManualPayment(t.Context(), ManualPaymentInput{
			OrderNo: o.OrderNo,
			Channel: "cash",
			Amount:  decimal.NewFromInt(700),
		})
		require.NoError(t, err)

		err = env.payments.SendReminder(t.Context(), o.OrderNo)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_PAID", domainErr.Code)
	})
}

func TestPaymentService_Receipt(t *testing.T) {
	env := setupServices(t)
	o, err := env.orders.CreateOrder(t.Context(), baseCreateInput())
	require.NoError(t, err)

	html, err := env.payments.Receipt(t.Context(), o.OrderNo)
	require.NoError(t, err)
	assert.Contains(t, html, o.OrderNo)

	_, err = env.payments.Receipt(t.Context(), "ORD-MISSING")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
