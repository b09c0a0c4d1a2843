package transform

import (
	"encoding/json"
	"testing"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRecord(t *testing.T, fields map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return raw
}

func TestProductMapsAllFields(t *testing.T) {
	raw := rawRecord(t, map[string]any{
		"Id":            7,
		"name_c":        "Linen Dress",
		"description_c": "Light summer dress",
		"price_c":       79.99,
		"category_c":    map[string]any{"Name": "Dresses"},
		"subcategory_c": "Summer",
		"sizes_c":       "S, M, L",
		"colors_c":      []string{"Red", "Blue"},
		"images_c":      []map[string]any{{"url": "dress.jpg"}},
	})

	p := Product(raw)

	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "Linen Dress", p.Name)
	assert.Equal(t, "Light summer dress", p.Description)
	assert.Equal(t, 79.99, p.Price)
	assert.Equal(t, "Dresses", p.Category)
	assert.Equal(t, "Summer", p.Subcategory)
	assert.Equal(t, []string{"S", "M", "L"}, p.Sizes)
	assert.Equal(t, []string{"Red", "Blue"}, p.Colors)
	assert.Equal(t, []string{"dress.jpg"}, p.Images)
}

func TestProductDefaults(t *testing.T) {
	p := Product(rawRecord(t, map[string]any{"Id": 3}))

	assert.Equal(t, 3, p.ID)
	assert.Equal(t, "", p.Name)
	assert.Zero(t, p.Price)
	assert.Equal(t, "", p.Category)
	assert.Empty(t, p.Sizes)
	assert.Empty(t, p.Colors)
	assert.Equal(t, []string{models.PlaceholderImage}, p.Images)
}

func TestProductNeverPanicsOnGarbage(t *testing.T) {
	for _, raw := range []string{"", "null", `"???"`, `[1,2,3]`, `{"price_c":"NaNope"}`} {
		assert.NotPanics(t, func() {
			p := Product(json.RawMessage(raw))
			assert.Equal(t, []string{models.PlaceholderImage}, p.Images, raw)
		}, raw)
	}
}

func TestOrderRoundTripsComposites(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Dress", Quantity: 1, Price: 80},
		{Name: "Belt", Quantity: 2, Price: 15},
	}
	address := map[string]string{"city": "NYC", "street": "5th Ave"}
	tracking := models.Tracking{
		Carrier:        "FedEx",
		TrackingNumber: "TRK20240301",
		Events: []models.TrackingEvent{
			{Date: "2024-03-01T10:00:00Z", Status: "Order placed", Location: "Online"},
		},
	}

	itemsJSON, _ := json.Marshal(items)
	addressJSON, _ := json.Marshal(address)
	trackingJSON, _ := json.Marshal(tracking)

	raw := rawRecord(t, map[string]any{
		"Id":                 42,
		"order_number_c":     "VT123456",
		"order_date_c":       "2024-03-01T10:00:00Z",
		"status_c":           "confirmed",
		"total_c":            110.0,
		"items_c":            string(itemsJSON),
		"shipping_address_c": string(addressJSON),
		"tracking_c":         string(trackingJSON),
	})

	o := Order(raw)

	assert.Equal(t, 42, o.ID)
	assert.Equal(t, "VT123456", o.OrderNumber)
	assert.Equal(t, 110.0, o.Total)
	assert.Equal(t, items, o.Items)
	assert.Equal(t, address, o.ShippingAddress)
	assert.Equal(t, tracking, o.Tracking)
}

func TestOrderAcceptsDecodedComposites(t *testing.T) {
	raw := rawRecord(t, map[string]any{
		"Id":                 9,
		"items_c":            []map[string]any{{"name": "Scarf", "qty": 1, "price": 25}},
		"shipping_address_c": map[string]string{"city": "Boston"},
		"tracking_c":         map[string]any{"carrier": "UPS", "trackingNumber": "TRK1", "events": []any{}},
	})

	o := Order(raw)

	assert.Equal(t, []models.OrderItem{{Name: "Scarf", Quantity: 1, Price: 25}}, o.Items)
	assert.Equal(t, map[string]string{"city": "Boston"}, o.ShippingAddress)
	assert.Equal(t, "UPS", o.Tracking.Carrier)
}

func TestOrderMalformedCompositesDegrade(t *testing.T) {
	raw := rawRecord(t, map[string]any{
		"Id":                 11,
		"status_c":           "shipped",
		"items_c":            "{definitely not json",
		"shipping_address_c": "also broken{",
		"tracking_c":         "[mismatched",
	})

	var o models.Order
	assert.NotPanics(t, func() { o = Order(raw) })

	assert.Equal(t, 11, o.ID)
	assert.Equal(t, "shipped", o.Status)
	assert.Equal(t, []models.OrderItem{}, o.Items)
	assert.Equal(t, map[string]string{}, o.ShippingAddress)
	assert.Equal(t, models.Tracking{}, o.Tracking)
}

func TestOrderStatusDefaultsToConfirmed(t *testing.T) {
	o := Order(rawRecord(t, map[string]any{"Id": 1}))
	assert.Equal(t, models.StatusConfirmed, o.Status)
}

func TestTrackingExtractsOnlyTracking(t *testing.T) {
	tracking := models.Tracking{
		Carrier:        "FedEx",
		TrackingNumber: "TRK00000001",
		Events: []models.TrackingEvent{
			{Date: "2024-03-01T10:00:00Z", Status: "Order placed", Location: "Online"},
			{Date: "2024-03-02T08:00:00Z", Status: "Shipped", Location: "Warehouse"},
		},
	}
	trackingJSON, _ := json.Marshal(tracking)

	got := Tracking(rawRecord(t, map[string]any{"tracking_c": string(trackingJSON)}))
	assert.Equal(t, tracking, got)
}
