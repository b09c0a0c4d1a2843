package service

import (
	"context"
	"regexp"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrders(api *fakeAPI) *OrderService {
	return NewOrderService(api, nil, nil)
}

func TestCreateOrder(t *testing.T) {
	api := newFakeAPI()

	result := newOrders(api).Create(context.Background(), CreateOrderInput{
		Items:           []models.OrderItem{{Name: "Dress", Quantity: 1, Price: 80}},
		TotalAmount:     80,
		ShippingAddress: map[string]string{"city": "NYC"},
	})

	require.True(t, result.Success)
	order := result.Data

	assert.Regexp(t, regexp.MustCompile(`^VT\d{6}$`), order.OrderNumber)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, 80.0, order.Total)
	assert.Equal(t, []models.OrderItem{{Name: "Dress", Quantity: 1, Price: 80}}, order.Items)
	assert.Equal(t, map[string]string{"city": "NYC"}, order.ShippingAddress)

	assert.Equal(t, "FedEx", order.Tracking.Carrier)
	assert.Regexp(t, regexp.MustCompile(`^TRK\d{8}$`), order.Tracking.TrackingNumber)
	require.Len(t, order.Tracking.Events, 1)
	assert.Equal(t, "Order placed", order.Tracking.Events[0].Status)
	assert.Equal(t, "Online", order.Tracking.Events[0].Location)
}

func TestCreateOrderEmptyInputStillSucceeds(t *testing.T) {
	result := newOrders(newFakeAPI()).Create(context.Background(), CreateOrderInput{})

	require.True(t, result.Success)
	assert.Empty(t, result.Data.Items)
	assert.Empty(t, result.Data.ShippingAddress)
	assert.Zero(t, result.Data.Total)
}

func TestCreateOrderBackendFailure(t *testing.T) {
	api := newFakeAPI()
	api.failWrite = true

	result := newOrders(api).Create(context.Background(), CreateOrderInput{TotalAmount: 10})

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to create order", result.Error)
}

func TestCreateOrderWithoutClient(t *testing.T) {
	result := NewOrderService(nil, nil, nil).Create(context.Background(), CreateOrderInput{})
	assert.False(t, result.Success)
}

func TestGetOrderByID(t *testing.T) {
	api := newFakeAPI()
	svc := newOrders(api)

	created := svc.Create(context.Background(), CreateOrderInput{TotalAmount: 42})
	require.True(t, created.Success)

	result := svc.GetByID(context.Background(), created.Data.ID)

	require.True(t, result.Success)
	assert.Equal(t, created.Data.OrderNumber, result.Data.OrderNumber)
	assert.Equal(t, 42.0, result.Data.Total)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	result := newOrders(newFakeAPI()).GetByID(context.Background(), 404)

	assert.False(t, result.Success)
	assert.Equal(t, "Order not found", result.Error)
}

func TestUpdateStatusAppendsExactlyOneEventPerCall(t *testing.T) {
	api := newFakeAPI()
	svc := newOrders(api)

	created := svc.Create(context.Background(), CreateOrderInput{TotalAmount: 80})
	require.True(t, created.Success)
	orderID := created.Data.ID
	require.Len(t, created.Data.Tracking.Events, 1)

	statuses := []string{"processing", "shipped", "delivered"}
	for i, status := range statuses {
		result := svc.UpdateStatus(context.Background(), orderID, status)
		require.True(t, result.Success, status)
		assert.Len(t, result.Data.Tracking.Events, i+2)
	}

	final := svc.GetTracking(context.Background(), orderID)
	require.True(t, final.Success)
	events := final.Data.Events
	require.Len(t, events, 4)

	// Prior events survive in order; each update appended one entry.
	assert.Equal(t, "Order placed", events[0].Status)
	assert.Equal(t, "Processing", events[1].Status)
	assert.Equal(t, "Shipped", events[2].Status)
	assert.Equal(t, "Delivered", events[3].Status)
	for _, e := range events[1:] {
		assert.Equal(t, "Warehouse", e.Location)
	}
}

func TestUpdateStatusPersistsNewStatus(t *testing.T) {
	api := newFakeAPI()
	svc := newOrders(api)

	created := svc.Create(context.Background(), CreateOrderInput{})
	require.True(t, created.Success)

	result := svc.UpdateStatus(context.Background(), created.Data.ID, "shipped")
	require.True(t, result.Success)
	assert.Equal(t, "shipped", result.Data.Status)

	fetched := svc.GetByID(context.Background(), created.Data.ID)
	require.True(t, fetched.Success)
	assert.Equal(t, "shipped", fetched.Data.Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	result := newOrders(newFakeAPI()).UpdateStatus(context.Background(), 999, "shipped")

	assert.False(t, result.Success)
	assert.Equal(t, "Order not found", result.Error)
}

func TestListFiltersByStatusAndSearch(t *testing.T) {
	api := newFakeAPI()
	svc := newOrders(api)

	first := svc.Create(context.Background(), CreateOrderInput{
		Items: []models.OrderItem{{Name: "Linen Dress", Quantity: 1, Price: 80}},
	})
	require.True(t, first.Success)
	second := svc.Create(context.Background(), CreateOrderInput{
		Items: []models.OrderItem{{Name: "Leather Belt", Quantity: 1, Price: 30}},
	})
	require.True(t, second.Success)

	shipped := svc.UpdateStatus(context.Background(), second.Data.ID, "shipped")
	require.True(t, shipped.Success)

	byStatus := svc.List(context.Background(), query.OrderFilter{Status: "shipped"})
	require.True(t, byStatus.Success)
	require.Len(t, byStatus.Data, 1)
	assert.Equal(t, second.Data.ID, byStatus.Data[0].ID)

	bySearch := svc.List(context.Background(), query.OrderFilter{Search: "dress"})
	require.True(t, bySearch.Success)
	require.Len(t, bySearch.Data, 1)
	assert.Equal(t, first.Data.ID, bySearch.Data[0].ID)

	all := svc.List(context.Background(), query.OrderFilter{Status: "all"})
	require.True(t, all.Success)
	assert.Len(t, all.Data, 2)
}

func TestListWithoutClientIsEmptySuccess(t *testing.T) {
	result := NewOrderService(nil, nil, nil).List(context.Background(), query.OrderFilter{})

	assert.True(t, result.Success)
	assert.Empty(t, result.Data)
}

func TestListBackendFailureIsEmptySuccess(t *testing.T) {
	api := newFakeAPI()
	api.failFetch = true

	result := newOrders(api).List(context.Background(), query.OrderFilter{})

	assert.True(t, result.Success)
	assert.Empty(t, result.Data)
}

func TestGetTrackingNotFound(t *testing.T) {
	result := newOrders(newFakeAPI()).GetTracking(context.Background(), 404)

	assert.False(t, result.Success)
	assert.Equal(t, "Order not found", result.Error)
}
