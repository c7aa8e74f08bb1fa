package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-api/models"
	"storefront-api/repository"
	"storefront-api/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// --- Mock Repositories ---

type mockCartRepo struct {
	items map[string][]models.CartItem // userID -> lines
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{items: make(map[string][]models.CartItem)}
}

func (m *mockCartRepo) AddOrIncrement(_ context.Context, item *models.CartItem) error {
	lines := m.items[item.UserID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID {
			lines[i].Quantity++
			return nil
		}
	}
	line := *item
	line.Quantity = 1
	m.items[item.UserID] = append(lines, line)
	return nil
}

func (m *mockCartRepo) Find(_ context.Context, userID, productID string) (*models.CartItem, error) {
	for _, line := range m.items[userID] {
		if line.ProductID == productID {
			l := line
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCartRepo) SetQuantity(_ context.Context, userID, productID string, quantity int) error {
	lines := m.items[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockCartRepo) Delete(_ context.Context, userID, productID string) error {
	lines := m.items[userID]
	for i := range lines {
		if lines[i].ProductID == productID {
			m.items[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockCartRepo) DeleteAll(_ context.Context, userID string) error {
	delete(m.items, userID)
	return nil
}

func (m *mockCartRepo) FindAll(_ context.Context, userID string) ([]models.CartItem, error) {
	return m.items[userID], nil
}

func (m *mockCartRepo) Count(_ context.Context, userID string) (int64, error) {
	return int64(len(m.items[userID])), nil
}

type mockOrderRepo struct {
	orders   map[string]*models.Order
	failures int // Create calls to fail before succeeding
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.failures > 0 {
		m.failures--
		return errors.New("write concern timeout")
	}
	id := order.ID.Hex()
	if _, ok := m.orders[id]; ok {
		return repository.ErrDuplicate
	}
	copied := *order
	m.orders[id] = &copied
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) FindByUser(_ context.Context, userID string) ([]models.Order, error) {
	var result []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context) ([]models.Order, error) {
	var result []models.Order
	for _, o := range m.orders {
		result = append(result, *o)
	}
	return result, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) FindByUID(_ context.Context, uid string) (*models.User, error) {
	u, ok := m.users[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.users[user.UID] = user
	return nil
}

func (m *mockUserRepo) UpdateAddress(_ context.Context, uid, address string) error {
	u, ok := m.users[uid]
	if !ok {
		return repository.ErrNotFound
	}
	u.Address = address
	return nil
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	var result []models.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

type mockSessionRepo struct {
	buyNow      map[string]*models.BuyNowToken
	sessions    map[string]*models.CheckoutSession
	idempotency map[string]string

	idempotencyReadErr  error
	idempotencyWriteErr error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		buyNow:      make(map[string]*models.BuyNowToken),
		sessions:    make(map[string]*models.CheckoutSession),
		idempotency: make(map[string]string),
	}
}

func (m *mockSessionRepo) SaveBuyNow(_ context.Context, userID string, token *models.BuyNowToken) error {
	m.buyNow[userID] = token
	return nil
}

func (m *mockSessionRepo) GetBuyNow(_ context.Context, userID string) (*models.BuyNowToken, error) {
	t, ok := m.buyNow[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (m *mockSessionRepo) DeleteBuyNow(_ context.Context, userID string) error {
	delete(m.buyNow, userID)
	return nil
}

func (m *mockSessionRepo) SaveSession(_ context.Context, session *models.CheckoutSession) error {
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockSessionRepo) GetSession(_ context.Context, sessionID string) (*models.CheckoutSession, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockSessionRepo) GetIdempotency(_ context.Context, key string) (string, error) {
	if m.idempotencyReadErr != nil {
		return "", m.idempotencyReadErr
	}
	id, ok := m.idempotency[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return id, nil
}

func (m *mockSessionRepo) SetIdempotency(_ context.Context, key, orderID string) error {
	if m.idempotencyWriteErr != nil {
		return m.idempotencyWriteErr
	}
	m.idempotency[key] = orderID
	return nil
}

// --- Mock Payment Gateway ---

type mockGateway struct {
	createdAmounts []int64
	verifyResult   bool
	createErr      error
}

func (m *mockGateway) CreateOrder(amount int64, _ string, _ string) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.createdAmounts = append(m.createdAmounts, amount)
	return "order_gw_1", nil
}

func (m *mockGateway) VerifySignature(_, _, _ string) bool { return m.verifyResult }

func (m *mockGateway) KeyID() string { return "rzp_test_key" }

// --- Helpers ---

type checkoutFixture struct {
	carts    *mockCartRepo
	orders   *mockOrderRepo
	users    *mockUserRepo
	products *mockProductRepo
	sessions *mockSessionRepo
	gateway  *mockGateway
	svc      services.CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:    newMockCartRepo(),
		orders:   newMockOrderRepo(),
		users:    newMockUserRepo(),
		products: newMockProductRepo(),
		sessions: newMockSessionRepo(),
		gateway:  &mockGateway{verifyResult: true},
	}
	logger, _ := zap.NewDevelopment()
	f.svc = services.NewCheckoutService(f.carts, f.orders, f.users, f.products, f.sessions, f.gateway, logger)
	return f
}

func (f *checkoutFixture) withUser(uid string) *checkoutFixture {
	f.users.users[uid] = &models.User{UID: uid, Name: "Asha", Phone: "+919876543210", CreatedAt: time.Now()}
	return f
}

func (f *checkoutFixture) withCartLine(uid, productID, name string, price float64, qty int) *checkoutFixture {
	f.carts.items[uid] = append(f.carts.items[uid], models.CartItem{
		UserID: uid, ProductID: productID, Name: name, Price: price, Quantity: qty,
	})
	return f
}

// beginCart runs Begin from the cart source and returns the session id.
func (f *checkoutFixture) beginCart(t *testing.T, uid string) *models.CheckoutResponse {
	t.Helper()
	resp, svcErr := f.svc.Begin(context.Background(), uid, &models.BeginCheckoutRequest{
		Address: "12 MG Road, Bengaluru",
		Source:  models.CheckoutSourceCart,
	})
	assert.Nil(t, svcErr)
	assert.NotNil(t, resp)
	return resp
}

func confirmRequest(resp *models.CheckoutResponse) *models.ConfirmPaymentRequest {
	return &models.ConfirmPaymentRequest{
		SessionID:         resp.SessionID,
		RazorpayOrderID:   resp.RazorpayOrderID,
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig",
	}
}

// --- Begin ---

func TestCheckout_Begin_FreezesItemsAndAmount(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 2).
		withCartLine("u1", "p2", "Cotton Kurta", 50, 1)

	resp := f.beginCart(t, "u1")

	assert.Equal(t, 250.0, resp.TotalAmount)
	assert.Equal(t, int64(25000), resp.Amount, "amount should be in paise")
	assert.Equal(t, "order_gw_1", resp.RazorpayOrderID)
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Equal(t, "Asha", resp.PrefillName)

	session := f.sessions.sessions[resp.SessionID]
	assert.NotNil(t, session)
	assert.Equal(t, models.CheckoutStateAwaitingPayment, session.State)
	assert.Len(t, session.Items, 2)
}

func TestCheckout_Begin_TruncatesFractionalPaise(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Bangles", 33.333, 3) // 99.999

	resp := f.beginCart(t, "u1")

	assert.Equal(t, int64(9999), resp.Amount, "fractional paise are truncated, not rounded")
}

func TestCheckout_Begin_MergesAddressOntoProfile(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)

	f.beginCart(t, "u1")

	assert.Equal(t, "12 MG Road, Bengaluru", f.users.users["u1"].Address)
	assert.Equal(t, "Asha", f.users.users["u1"].Name, "only the address changes")
}

func TestCheckout_Begin_EmptyAddress(t *testing.T) {
	f := newCheckoutFixture().withUser("u1")

	_, svcErr := f.svc.Begin(context.Background(), "u1", &models.BeginCheckoutRequest{
		Address: "   ",
		Source:  models.CheckoutSourceCart,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCheckout_Begin_EmptyCart(t *testing.T) {
	f := newCheckoutFixture().withUser("u1")

	_, svcErr := f.svc.Begin(context.Background(), "u1", &models.BeginCheckoutRequest{
		Address: "12 MG Road",
		Source:  models.CheckoutSourceCart,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestCheckout_Begin_GatewayDown(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	f.gateway.createErr = errors.New("connection refused")

	_, svcErr := f.svc.Begin(context.Background(), "u1", &models.BeginCheckoutRequest{
		Address: "12 MG Road",
		Source:  models.CheckoutSourceCart,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Empty(t, f.orders.orders)
}

// --- Confirm ---

func TestCheckout_Confirm_Success(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 2).
		withCartLine("u1", "p2", "Cotton Kurta", 50, 1)

	resp := f.beginCart(t, "u1")
	orderID, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))

	assert.Nil(t, svcErr)
	assert.NotEmpty(t, orderID)
	assert.Len(t, f.orders.orders, 1)

	order := f.orders.orders[orderID]
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, models.PaymentMethodOnline, order.PaymentMethod)
	assert.Equal(t, "pay_abc", order.PaymentDetails.RazorpayPaymentID)
	assert.Equal(t, "12 MG Road, Bengaluru", order.CustomerInfo.Address)

	assert.Empty(t, f.carts.items["u1"], "cart should be cleared after the order")
	assert.Equal(t, models.CheckoutStateOrderPersisted, f.sessions.sessions[resp.SessionID].State)
}

func TestCheckout_Confirm_FailedVerificationWritesNothing(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	f.gateway.verifyResult = false

	resp := f.beginCart(t, "u1")
	_, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))

	assert.NotNil(t, svcErr)
	assert.Equal(t, 402, svcErr.StatusCode)
	assert.Empty(t, f.orders.orders, "no order on a failed payment")
	assert.Len(t, f.carts.items["u1"], 1, "cart survives a failed payment")

	// The session stays open for another attempt.
	assert.Equal(t, models.CheckoutStateAwaitingPayment, f.sessions.sessions[resp.SessionID].State)

	// A later successful attempt on the same session goes through.
	f.gateway.verifyResult = true
	orderID, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)
	assert.NotEmpty(t, orderID)
}

func TestCheckout_Confirm_PersistFailureCarriesPaymentRef(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")
	f.orders.failures = 2 // first write and its retry both fail

	_, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))

	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "pay_abc", "the error must carry the payment reference")
	assert.Len(t, f.carts.items["u1"], 1, "cart must not be cleared when the order is unrecorded")
}

func TestCheckout_Confirm_RetriesTransientWriteFailure(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")
	f.orders.failures = 1 // first write fails, retry lands

	orderID, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))

	assert.Nil(t, svcErr)
	assert.NotEmpty(t, orderID)
	assert.Len(t, f.orders.orders, 1)
}

func TestCheckout_Confirm_Idempotent(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")

	first, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	second, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	assert.Equal(t, first, second, "a confirm retry returns the same order")
	assert.Len(t, f.orders.orders, 1, "never a second order for the same session")
}

func TestCheckout_Confirm_IdempotentWhenRecordWriteFails(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")
	f.sessions.idempotencyWriteErr = errors.New("redis timeout")

	first, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	// The retry finds no idempotency record, re-verifies and re-inserts,
	// but the session's fixed order id makes the insert a no-op.
	second, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	assert.Equal(t, first, second)
	assert.Len(t, f.orders.orders, 1, "only one order for one payment")
}

func TestCheckout_Confirm_IdempotentWithIdempotencyStoreDown(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")
	f.sessions.idempotencyReadErr = errors.New("connection refused")
	f.sessions.idempotencyWriteErr = errors.New("connection refused")

	first, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	second, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	assert.Equal(t, first, second)
	assert.Len(t, f.orders.orders, 1)
}

func TestCheckout_Begin_AssignsOrderIDToSession(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)

	resp := f.beginCart(t, "u1")

	session := f.sessions.sessions[resp.SessionID]
	assert.NotEmpty(t, session.OrderID, "the order id is fixed before any payment attempt")

	orderID, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)
	assert.Equal(t, session.OrderID, orderID, "the order lands under the session's id")
}

func TestCheckout_Confirm_WrongUser(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")

	_, svcErr := f.svc.Confirm(context.Background(), "u2", confirmRequest(resp))

	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_Confirm_MismatchedGatewayOrder(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")

	req := confirmRequest(resp)
	req.RazorpayOrderID = "order_gw_other"
	_, svcErr := f.svc.Confirm(context.Background(), "u1", req)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_Confirm_ExpiredSession(t *testing.T) {
	f := newCheckoutFixture().withUser("u1")

	_, svcErr := f.svc.Confirm(context.Background(), "u1", &models.ConfirmPaymentRequest{
		SessionID:         "gone",
		RazorpayOrderID:   "order_gw_1",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: "sig",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCheckout_OrderIsSnapshotOfBeginTime(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	resp := f.beginCart(t, "u1")

	// A price edit between Begin and Confirm must not leak into the order.
	f.carts.items["u1"][0].Price = 999

	orderID, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	order := f.orders.orders[orderID]
	assert.Equal(t, 100.0, order.Items[0].Price)
	assert.Equal(t, 100.0, order.TotalAmount)
}

// --- Buy now ---

func TestCheckout_BuyNow_SingleItemFlow(t *testing.T) {
	f := newCheckoutFixture().withUser("u1")
	f.products.add("p1", "Silk Saree", 120, "cat1", false)

	svcErr := f.svc.BuyNow(context.Background(), "u1", "p1")
	assert.Nil(t, svcErr)

	resp, svcErr := f.svc.Begin(context.Background(), "u1", &models.BeginCheckoutRequest{
		Address: "12 MG Road",
		Source:  models.CheckoutSourceBuyNow,
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, 120.0, resp.TotalAmount)

	orderID, svcErr := f.svc.Confirm(context.Background(), "u1", confirmRequest(resp))
	assert.Nil(t, svcErr)

	order := f.orders.orders[orderID]
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)

	_, err := f.sessions.GetBuyNow(context.Background(), "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound, "buy-now token is consumed by the order")
}

func TestCheckout_BuyNow_UnknownProduct(t *testing.T) {
	f := newCheckoutFixture().withUser("u1")

	svcErr := f.svc.BuyNow(context.Background(), "u1", "missing")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

// --- Cash on delivery ---

func TestCheckout_PlaceCOD_Success(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 2)

	orderID, svcErr := f.svc.PlaceCOD(context.Background(), "u1", &models.BeginCheckoutRequest{
		Address: "12 MG Road",
		Source:  models.CheckoutSourceCart,
	})

	assert.Nil(t, svcErr)
	order := f.orders.orders[orderID]
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Nil(t, order.PaymentDetails, "no gateway reference on a COD order")
	assert.Equal(t, 200.0, order.TotalAmount)
	assert.Empty(t, f.carts.items["u1"])
}

func TestCheckout_PlaceCOD_WriteFailureIsRetryable(t *testing.T) {
	f := newCheckoutFixture().
		withUser("u1").
		withCartLine("u1", "p1", "Silk Saree", 100, 1)
	f.orders.failures = 2

	_, svcErr := f.svc.PlaceCOD(context.Background(), "u1", &models.BeginCheckoutRequest{
		Address: "12 MG Road",
		Source:  models.CheckoutSourceCart,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode, "no money moved, so a plain retryable failure")
	assert.Len(t, f.carts.items["u1"], 1)
}
