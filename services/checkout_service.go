package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"storefront-api/models"
	"storefront-api/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const checkoutCurrency = "INR"

// CheckoutService drives the order workflow:
//
//	CollectingAddress -> AwaitingPayment -> PaymentSucceeded -> OrderPersisted
//
// Begin covers the first transition (address collected and merged onto the
// profile, amount frozen, gateway order opened). Confirm covers the rest: a
// verified payment writes the order exactly once; a failed verification
// leaves the session in AwaitingPayment so the user can retry. PlaceCOD is
// the offline-payment shortcut through the same snapshot rules.
type CheckoutService interface {
	BuyNow(ctx context.Context, userID, productID string) *ServiceError
	Begin(ctx context.Context, userID string, req *models.BeginCheckoutRequest) (*models.CheckoutResponse, *ServiceError)
	Confirm(ctx context.Context, userID string, req *models.ConfirmPaymentRequest) (string, *ServiceError)
	PlaceCOD(ctx context.Context, userID string, req *models.BeginCheckoutRequest) (string, *ServiceError)
}

type checkoutServiceImpl struct {
	carts    repository.CartRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	products repository.ProductRepository
	sessions repository.SessionRepository
	gateway  PaymentGateway
	logger   *zap.Logger
}

func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	sessions repository.SessionRepository,
	gateway PaymentGateway,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:    carts,
		orders:   orders,
		users:    users,
		products: products,
		sessions: sessions,
		gateway:  gateway,
		logger:   logger,
	}
}

// BuyNow stores the transient single-item checkout token for the user.
func (s *checkoutServiceImpl) BuyNow(ctx context.Context, userID, productID string) *ServiceError {
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("buy-now product lookup failed", zap.String("productId", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not start checkout"}
	}

	token := &models.BuyNowToken{
		ProductID: productID,
		Name:      product.Name,
		Price:     product.SellingPrice,
		ImageURL:  product.ImageURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.SaveBuyNow(ctx, userID, token); err != nil {
		s.logger.Error("buy-now token save failed", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Could not start checkout"}
	}
	return nil
}

func (s *checkoutServiceImpl) Begin(ctx context.Context, userID string, req *models.BeginCheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "A shipping address is required"}
	}

	user, items, svcErr := s.prepare(ctx, userID, req.Source, address)
	if svcErr != nil {
		return nil, svcErr
	}

	total := lineTotal(items)
	amountPaise := int64(math.Trunc(total * 100))

	receipt := "rcpt_" + uuid.NewString()
	gatewayOrderID, err := s.gateway.CreateOrder(amountPaise, checkoutCurrency, receipt)
	if err != nil {
		s.logger.Error("gateway order create failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Payment gateway is unavailable, please try again"}
	}

	session := &models.CheckoutSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		Source:      req.Source,
		State:       models.CheckoutStateAwaitingPayment,
		Items:       items,
		TotalAmount: total,
		Customer: models.CustomerInfo{
			Name:    user.Name,
			Phone:   user.Phone,
			Address: address,
		},
		RazorpayOrderID: gatewayOrderID,
		OrderID:         primitive.NewObjectID().Hex(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		s.logger.Error("checkout session save failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Could not start checkout"}
	}

	return &models.CheckoutResponse{
		SessionID:       session.ID,
		RazorpayOrderID: gatewayOrderID,
		KeyID:           s.gateway.KeyID(),
		Amount:          amountPaise,
		Currency:        checkoutCurrency,
		TotalAmount:     total,
		PrefillName:     user.Name,
		PrefillContact:  user.Phone,
	}, nil
}

func (s *checkoutServiceImpl) Confirm(ctx context.Context, userID string, req *models.ConfirmPaymentRequest) (string, *ServiceError) {
	session, err := s.sessions.GetSession(ctx, req.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", &ServiceError{StatusCode: 404, Message: "Checkout session expired, please start again"}
	}
	if err != nil {
		s.logger.Error("checkout session read failed", zap.Error(err))
		return "", &ServiceError{StatusCode: 500, Message: "Could not confirm the payment"}
	}
	if session.UserID != userID {
		return "", &ServiceError{StatusCode: 403, Message: "This checkout belongs to another account"}
	}

	// A confirm retry for an already-recorded session returns the same
	// order instead of writing a second one. Losing this read is safe:
	// the insert below dedupes on the session's fixed order id.
	orderID, err := s.sessions.GetIdempotency(ctx, session.ID)
	switch {
	case err == nil && orderID != "":
		return orderID, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("order idempotency read failed", zap.String("session_id", session.ID), zap.Error(err))
	}

	if req.RazorpayOrderID != session.RazorpayOrderID {
		return "", &ServiceError{StatusCode: 400, Message: "Payment does not match this checkout"}
	}
	if !s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		// Terminal for this attempt only; the session stays in
		// AwaitingPayment and the user may retry from the overlay.
		return "", &ServiceError{StatusCode: 402, Message: "Payment verification failed"}
	}

	oid, err := primitive.ObjectIDFromHex(session.OrderID)
	if err != nil {
		s.logger.Error("checkout session has no usable order id", zap.String("session_id", session.ID), zap.Error(err))
		return "", &ServiceError{StatusCode: 500, Message: "Could not confirm the payment"}
	}

	order := &models.Order{
		ID:            oid,
		UserID:        session.UserID,
		CustomerInfo:  session.Customer,
		Items:         session.Items,
		TotalAmount:   session.TotalAmount,
		Status:        models.OrderStatusPlaced,
		PaymentMethod: models.PaymentMethodOnline,
		PaymentDetails: &models.PaymentDetails{
			RazorpayPaymentID: req.RazorpayPaymentID,
		},
		OrderDate: time.Now().UTC(),
	}

	if err := s.persistOrder(ctx, order); err != nil {
		// The one genuinely dangerous window: the customer has paid and
		// the order is not on record. Fail loud, carry the reference.
		s.logger.Error("order write failed after successful payment",
			zap.String("payment_id", req.RazorpayPaymentID),
			zap.String("session_id", session.ID),
			zap.Error(err))
		return "", &ServiceError{
			StatusCode: 502,
			Message: fmt.Sprintf(
				"Your payment (ref %s) was received but the order could not be recorded. Please contact support with this payment reference.",
				req.RazorpayPaymentID),
		}
	}

	orderID = order.ID.Hex()
	if err := s.sessions.SetIdempotency(ctx, session.ID, orderID); err != nil {
		s.logger.Warn("order idempotency record failed", zap.String("order_id", orderID), zap.Error(err))
	}
	s.clearSource(ctx, session)

	session.State = models.CheckoutStateOrderPersisted
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		s.logger.Warn("checkout session finalize failed", zap.String("session_id", session.ID), zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.Float64("total", order.TotalAmount))
	return orderID, nil
}

func (s *checkoutServiceImpl) PlaceCOD(ctx context.Context, userID string, req *models.BeginCheckoutRequest) (string, *ServiceError) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return "", &ServiceError{StatusCode: 400, Message: "A shipping address is required"}
	}

	user, items, svcErr := s.prepare(ctx, userID, req.Source, address)
	if svcErr != nil {
		return "", svcErr
	}

	order := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		CustomerInfo: models.CustomerInfo{
			Name:    user.Name,
			Phone:   user.Phone,
			Address: address,
		},
		Items:         items,
		TotalAmount:   lineTotal(items),
		Status:        models.OrderStatusPlaced,
		PaymentMethod: models.PaymentMethodCOD,
		OrderDate:     time.Now().UTC(),
	}

	if err := s.persistOrder(ctx, order); err != nil {
		// No money has moved on the COD path, so this is an ordinary
		// failure the user can simply retry.
		s.logger.Error("cod order write failed", zap.Error(err))
		return "", &ServiceError{StatusCode: 500, Message: "Could not place the order, please try again"}
	}

	s.clearSource(ctx, &models.CheckoutSession{UserID: userID, Source: req.Source})

	orderID := order.ID.Hex()
	s.logger.Info("order placed",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.Float64("total", order.TotalAmount))
	return orderID, nil
}

// prepare runs the CollectingAddress preconditions shared by the online
// and COD paths: the profile must exist, the address is merged onto it,
// and the source must yield at least one frozen line item.
func (s *checkoutServiceImpl) prepare(ctx context.Context, userID, source, address string) (*models.User, []models.OrderItem, *ServiceError) {
	user, err := s.users.FindByUID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, &ServiceError{StatusCode: 404, Message: "Complete sign-in before checking out"}
	}
	if err != nil {
		s.logger.Error("checkout profile lookup failed", zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 500, Message: "Could not start checkout"}
	}

	if err := s.users.UpdateAddress(ctx, userID, address); err != nil {
		s.logger.Error("address merge failed", zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 500, Message: "Could not save your address"}
	}
	user.Address = address

	items, svcErr := s.collectItems(ctx, userID, source)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	return user, items, nil
}

// collectItems freezes the line items for the order from either the cart
// or the buy-now token. Missing items mean the caller should be sent back
// to the catalog.
func (s *checkoutServiceImpl) collectItems(ctx context.Context, userID, source string) ([]models.OrderItem, *ServiceError) {
	switch source {
	case models.CheckoutSourceCart:
		cartItems, err := s.carts.FindAll(ctx, userID)
		if err != nil {
			s.logger.Error("checkout cart read failed", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Could not read your cart"}
		}
		if len(cartItems) == 0 {
			return nil, &ServiceError{StatusCode: 409, Message: "Your cart is empty"}
		}
		items := make([]models.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, models.OrderItem{
				ProductID: ci.ProductID,
				Name:      ci.Name,
				Price:     ci.Price,
				Quantity:  ci.Quantity,
			})
		}
		return items, nil

	case models.CheckoutSourceBuyNow:
		token, err := s.sessions.GetBuyNow(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 409, Message: "Nothing is pending checkout"}
		}
		if err != nil {
			s.logger.Error("buy-now token read failed", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Could not start checkout"}
		}
		return []models.OrderItem{{
			ProductID: token.ProductID,
			Name:      token.Name,
			Price:     token.Price,
			Quantity:  1,
		}}, nil

	default:
		return nil, &ServiceError{StatusCode: 400, Message: "Unknown checkout source"}
	}
}

// persistOrder inserts the order under its pre-assigned id with one bounded
// retry. The fixed id makes the retry idempotent: a first attempt that
// landed but failed to respond surfaces as ErrDuplicate, which is success.
func (s *checkoutServiceImpl) persistOrder(ctx context.Context, order *models.Order) error {
	err := s.orders.Create(ctx, order)
	if err == nil || errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	s.logger.Warn("order write failed, retrying once", zap.String("order_id", order.ID.Hex()), zap.Error(err))

	err = s.orders.Create(ctx, order)
	if err == nil || errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

// clearSource empties whichever item source fed the order. Failures leave
// stale cart lines behind, which is annoying but safe, so they only log.
func (s *checkoutServiceImpl) clearSource(ctx context.Context, session *models.CheckoutSession) {
	switch session.Source {
	case models.CheckoutSourceCart:
		if err := s.carts.DeleteAll(ctx, session.UserID); err != nil {
			s.logger.Warn("cart clear failed after order", zap.String("user_id", session.UserID), zap.Error(err))
		}
	case models.CheckoutSourceBuyNow:
		if err := s.sessions.DeleteBuyNow(ctx, session.UserID); err != nil {
			s.logger.Warn("buy-now token clear failed after order", zap.String("user_id", session.UserID), zap.Error(err))
		}
	}
}

func lineTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
