package services_test

import (
	"context"
	"testing"
	"time"

	"storefront-api/models"
	"storefront-api/services"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newOrderService(repo *mockOrderRepo) services.OrderService {
	logger, _ := zap.NewDevelopment()
	return services.NewOrderService(repo, logger)
}

func seedOrder(repo *mockOrderRepo, userID string, total float64) *models.Order {
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Items:         []models.OrderItem{{ProductID: "p1", Name: "Silk Saree", Price: total, Quantity: 1}},
		TotalAmount:   total,
		Status:        models.OrderStatusPlaced,
		PaymentMethod: models.PaymentMethodCOD,
		OrderDate:     time.Now(),
	}
	_ = repo.Create(context.Background(), order)
	return order
}

func TestOrder_History_OnlyOwnOrders(t *testing.T) {
	repo := newMockOrderRepo()
	seedOrder(repo, "u1", 100)
	seedOrder(repo, "u1", 200)
	seedOrder(repo, "u2", 300)
	svc := newOrderService(repo)

	orders, svcErr := svc.History(context.Background(), "u1")

	assert.Nil(t, svcErr)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "u1", o.UserID)
	}
}

func TestOrder_History_EmptyIsNotNull(t *testing.T) {
	svc := newOrderService(newMockOrderRepo())

	orders, svcErr := svc.History(context.Background(), "u1")

	assert.Nil(t, svcErr)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrder_Get_OwnerAndAdminAccess(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, "u1", 100)
	svc := newOrderService(repo)
	id := order.ID.Hex()

	got, svcErr := svc.Get(context.Background(), id, "u1", false)
	assert.Nil(t, svcErr)
	assert.Equal(t, order.ID, got.ID)

	_, svcErr = svc.Get(context.Background(), id, "u2", false)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)

	got, svcErr = svc.Get(context.Background(), id, "u2", true)
	assert.Nil(t, svcErr, "admins can read any order")
	assert.Equal(t, order.ID, got.ID)
}

func TestOrder_UpdateStatus_AllowsOnlyKnownStatuses(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, "u1", 100)
	svc := newOrderService(repo)
	id := order.ID.Hex()

	for _, status := range []string{
		models.OrderStatusDispatched,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusPlaced,
	} {
		assert.Nil(t, svc.UpdateStatus(context.Background(), id, status))
		assert.Equal(t, status, repo.orders[id].Status)
	}

	svcErr := svc.UpdateStatus(context.Background(), id, "Shipped")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestOrder_UpdateStatus_TouchesNothingElse(t *testing.T) {
	repo := newMockOrderRepo()
	order := seedOrder(repo, "u1", 100)
	svc := newOrderService(repo)
	id := order.ID.Hex()

	assert.Nil(t, svc.UpdateStatus(context.Background(), id, models.OrderStatusDispatched))

	stored := repo.orders[id]
	assert.Equal(t, 100.0, stored.TotalAmount)
	assert.Equal(t, order.Items, stored.Items)
	assert.Equal(t, order.PaymentMethod, stored.PaymentMethod)
}

func TestOrder_UpdateStatus_Missing(t *testing.T) {
	svc := newOrderService(newMockOrderRepo())

	svcErr := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), models.OrderStatusDispatched)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
