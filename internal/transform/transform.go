// Package transform maps raw platform records to view models. All
// functions are total: malformed or missing input degrades to typed
// defaults, never to an error.
package transform

import (
	"encoding/json"

	"storefront-service/internal/models"
)

// Product maps a raw products_c record to its view model. Unknown or
// malformed fields fall back to zero values; a product always carries
// at least the placeholder image.
func Product(raw json.RawMessage) models.Product {
	var rec models.ProductRecord
	if len(raw) > 0 {
		// Field types are tolerant; a top-level decode error just
		// leaves the remaining fields at their defaults.
		_ = json.Unmarshal(raw, &rec)
	}

	p := models.Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Price:       float64(rec.Price),
		Category:    rec.Category.Name,
		Subcategory: rec.Subcategory,
		Sizes:       emptyIfNil([]string(rec.Sizes)),
		Colors:      emptyIfNil([]string(rec.Colors)),
		Images:      []string(rec.Images),
	}
	if len(p.Images) == 0 {
		p.Images = []string{models.PlaceholderImage}
	}
	return p
}

// Order maps a raw orders_c record to its view model. The items,
// shipping address and tracking composites tolerate both JSON-encoded
// text and already-decoded objects; a missing status defaults to
// confirmed.
func Order(raw json.RawMessage) models.Order {
	var rec models.OrderRecord
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec)
	}

	o := models.Order{
		ID:              rec.ID,
		OrderNumber:     rec.OrderNumber,
		OrderDate:       rec.OrderDate,
		Status:          rec.Status,
		Total:           float64(rec.Total),
		Items:           []models.OrderItem(rec.Items),
		ShippingAddress: map[string]string(rec.Address),
		Tracking:        rec.Tracking,
	}
	if o.Status == "" {
		o.Status = models.StatusConfirmed
	}
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	if o.ShippingAddress == nil {
		o.ShippingAddress = map[string]string{}
	}
	return o
}

// Tracking extracts just the tracking composite from a raw orders_c
// record.
func Tracking(raw json.RawMessage) models.Tracking {
	var rec models.OrderRecord
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec)
	}
	return rec.Tracking
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
