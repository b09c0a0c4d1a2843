package models

import "time"

// Product is the normalized, UI-facing shape of a catalog record.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Images      []string `json:"images"`
}

// OrderItem is one line item on an order. Items are stored as JSON text
// on the order record and carried through mostly opaque.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"qty"`
	Price    float64 `json:"price"`
}

// TrackingEvent is one entry in a shipment's history.
type TrackingEvent struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

// Tracking holds shipment info for an order. Events are append-only.
type Tracking struct {
	Carrier        string          `json:"carrier"`
	TrackingNumber string          `json:"trackingNumber"`
	Events         []TrackingEvent `json:"events"`
}

// Order is the normalized, UI-facing shape of an order record.
type Order struct {
	ID              int               `json:"id"`
	OrderNumber     string            `json:"orderNumber"`
	OrderDate       string            `json:"orderDate"`
	Status          string            `json:"status"`
	Total           float64           `json:"total"`
	Items           []OrderItem       `json:"items"`
	ShippingAddress map[string]string `json:"shippingAddress"`
	Tracking        Tracking          `json:"tracking"`
}

// Well-known order statuses. The status field is an open string set;
// these are the values the storefront itself writes or displays.
const (
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment ledger statuses
const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Payment is a row in the local payment attempt ledger.
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	OrderID       int       `db:"order_id" json:"order_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Status        string    `db:"status" json:"status"`
	TransactionID string    `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
