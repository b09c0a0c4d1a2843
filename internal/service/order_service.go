package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode"

	"storefront-service/internal/apper"
	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/query"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/transform"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCarrier       = "FedEx"
	statusLockTTL        = 10 * time.Second
	orderCacheTTL        = 30 * time.Second
	statusLockAttempts   = 3
	statusLockRetryDelay = 100 * time.Millisecond
)

var orderFields = apper.Select("Id", "order_number_c", "order_date_c",
	"status_c", "total_c", "items_c", "shipping_address_c", "tracking_c")

// CreateOrderInput is the payload for placing an order. The server
// assigns identity, order number, date, status and tracking.
type CreateOrderInput struct {
	Items           []models.OrderItem `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	ShippingAddress map[string]string  `json:"shippingAddress"`
}

// OrderService drives the order lifecycle against the record platform.
// Orders are created and status-updated here, never deleted.
type OrderService struct {
	api       apper.API
	cache     *redisclient.Client
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. Cache and publisher may
// be nil; the service degrades rather than failing construction.
func NewOrderService(api apper.API, cache *redisclient.Client, publisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		api:       api,
		cache:     cache,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Create places a new order: generates the order number, seeds tracking
// with a single "Order placed" event, persists the record and returns
// the transformed result.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) Result[models.Order] {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	if s.api == nil {
		util.OrdersFailedTotal.WithLabelValues("no_client").Inc()
		return fail[models.Order]("Failed to create order")
	}

	now := time.Now().UTC()
	orderNumber := fmt.Sprintf("VT%06d", now.UnixMilli()%1_000_000)
	tracking := models.Tracking{
		Carrier:        defaultCarrier,
		TrackingNumber: fmt.Sprintf("TRK%08d", now.UnixMilli()%100_000_000),
		Events: []models.TrackingEvent{{
			Date:     now.Format(time.RFC3339),
			Status:   "Order placed",
			Location: "Online",
		}},
	}

	items := input.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	address := input.ShippingAddress
	if address == nil {
		address = map[string]string{}
	}

	record := map[string]any{
		"Name":               orderNumber,
		"order_number_c":     orderNumber,
		"order_date_c":       now.Format(time.RFC3339),
		"status_c":           models.StatusConfirmed,
		"total_c":            input.TotalAmount,
		"items_c":            encodeComposite(items),
		"shipping_address_c": encodeComposite(address),
		"tracking_c":         encodeComposite(tracking),
	}

	resp, err := s.api.CreateRecord(ctx, models.TableOrders, []map[string]any{record})
	if werr := writeErr(resp, err); werr != nil {
		util.OrdersFailedTotal.WithLabelValues("create_failed").Inc()
		s.logger.Error("Order creation failed", zap.Error(werr))
		return fail[models.Order]("Failed to create order")
	}

	order := transform.Order(resp.Results[0].Data)
	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))

	s.publishOrderCreated(ctx, order)
	return ok(order)
}

// GetByID fetches one order by its numeric identity.
func (s *OrderService) GetByID(ctx context.Context, id int) Result[models.Order] {
	ctx, span := util.StartSpan(ctx, "OrderService.GetByID")
	defer span.End()

	if s.api == nil {
		return fail[models.Order]("Order not found")
	}

	cacheKey := orderCacheKey(id)
	if s.cache != nil {
		var cached models.Order
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			util.CacheHitsTotal.Inc()
			return ok(cached)
		}
		util.CacheMissesTotal.Inc()
	}

	resp, err := s.api.GetRecordByID(ctx, models.TableOrders, id, apper.FetchParams{Fields: orderFields})
	if rerr := recordErr(resp, err); rerr != nil {
		s.logger.Warn("Order lookup failed", zap.Int("order_id", id), zap.Error(rerr))
		return fail[models.Order]("Order not found")
	}

	order := transform.Order(resp.Data)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, order, orderCacheTTL); err != nil {
			s.logger.Warn("Cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return ok(order)
}

// List returns the user's orders, optionally narrowed to one status,
// newest first. The free-text search applies client-side against the
// order number and line item names. With no backend client the listing
// degrades to an empty success.
func (s *OrderService) List(ctx context.Context, f query.OrderFilter) Result[[]models.Order] {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	if s.api == nil {
		return ok([]models.Order{})
	}

	params := apper.FetchParams{
		Fields:  orderFields,
		Where:   query.OrderWhere(f),
		OrderBy: query.OrderSort(),
	}

	resp, err := s.api.FetchRecords(ctx, models.TableOrders, params)
	if ferr := fetchErr(resp, err); ferr != nil {
		s.logger.Error("Order list failed", zap.Error(ferr))
		return ok([]models.Order{})
	}

	orders := make([]models.Order, 0, len(resp.Data))
	for _, raw := range resp.Data {
		orders = append(orders, transform.Order(raw))
	}

	return ok(query.ApplyOrderSearch(orders, f.Search))
}

// GetTracking fetches only the tracking composite of an order.
func (s *OrderService) GetTracking(ctx context.Context, id int) Result[models.Tracking] {
	ctx, span := util.StartSpan(ctx, "OrderService.GetTracking")
	defer span.End()

	if s.api == nil {
		return fail[models.Tracking]("Order not found")
	}

	resp, err := s.api.GetRecordByID(ctx, models.TableOrders, id, apper.FetchParams{
		Fields: apper.Select("tracking_c"),
	})
	if rerr := recordErr(resp, err); rerr != nil {
		s.logger.Warn("Tracking lookup failed", zap.Int("order_id", id), zap.Error(rerr))
		return fail[models.Tracking]("Order not found")
	}

	return ok(transform.Tracking(resp.Data))
}

// UpdateStatus moves the order to newStatus and appends exactly one
// tracking event. The read-modify-write on the tracking blob is
// serialized per order through a Redis mutex so concurrent updates
// cannot drop each other's events; without Redis the update proceeds
// unguarded and says so in the log.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, newStatus string) Result[models.Order] {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if s.api == nil {
		return fail[models.Order]("Order not found")
	}

	if s.cache != nil {
		unlock, acquired := s.lockOrder(ctx, id)
		if !acquired {
			return fail[models.Order]("Failed to update order status")
		}
		if unlock != nil {
			defer unlock()
		}
	} else {
		s.logger.Warn("Updating order status without lock, Redis unavailable",
			zap.Int("order_id", id))
	}

	current, err := s.api.GetRecordByID(ctx, models.TableOrders, id, apper.FetchParams{
		Fields: apper.Select("status_c", "tracking_c"),
	})
	if rerr := recordErr(current, err); rerr != nil {
		s.logger.Warn("Order lookup failed", zap.Int("order_id", id), zap.Error(rerr))
		return fail[models.Order]("Order not found")
	}

	tracking := transform.Tracking(current.Data)
	tracking.Events = append(tracking.Events, models.TrackingEvent{
		Date:     time.Now().UTC().Format(time.RFC3339),
		Status:   capitalize(newStatus),
		Location: "Warehouse",
	})

	update := map[string]any{
		"Id":         id,
		"status_c":   newStatus,
		"tracking_c": encodeComposite(tracking),
	}

	resp, err := s.api.UpdateRecord(ctx, models.TableOrders, []map[string]any{update})
	if werr := writeErr(resp, err); werr != nil {
		s.logger.Error("Order status update failed",
			zap.Int("order_id", id),
			zap.String("status", newStatus),
			zap.Error(werr))
		return fail[models.Order]("Failed to update order status")
	}

	util.OrderStatusUpdatesTotal.Inc()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, orderCacheKey(id)); err != nil {
			s.logger.Warn("Cache invalidation failed", zap.Int("order_id", id), zap.Error(err))
		}
	}

	order := transform.Order(resp.Results[0].Data)
	s.publishStatusUpdated(ctx, order.ID, newStatus)
	return ok(order)
}

// lockOrder serializes status updates per order. A held lock is retried
// briefly, then the update is refused. A Redis error (as opposed to a
// held lock) degrades to an unguarded update.
func (s *OrderService) lockOrder(ctx context.Context, id int) (unlock func(), acquired bool) {
	lockKey := fmt.Sprintf("order-status:%d", id)

	for attempt := 0; attempt < statusLockAttempts; attempt++ {
		got, err := s.cache.AcquireLock(ctx, lockKey, statusLockTTL)
		if err != nil {
			s.logger.Warn("Updating order status without lock, Redis unavailable",
				zap.Int("order_id", id), zap.Error(err))
			return nil, true
		}
		if got {
			return func() {
				if err := s.cache.ReleaseLock(context.Background(), lockKey); err != nil {
					s.logger.Warn("Failed to release status lock",
						zap.Int("order_id", id), zap.Error(err))
				}
			}, true
		}
		time.Sleep(statusLockRetryDelay)
	}

	s.logger.Warn("Status update refused, order locked by concurrent update",
		zap.Int("order_id", id))
	return nil, false
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order models.Order) {
	if s.publisher == nil {
		return
	}
	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		Items:       order.Items,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func (s *OrderService) publishStatusUpdated(ctx context.Context, orderID int, status string) {
	if s.publisher == nil {
		return
	}
	event := &models.OrderStatusUpdatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusUpdated,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Status:  status,
	}
	if err := s.publisher.PublishOrderStatusUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusUpdated event", zap.Error(err))
	}
}

func orderCacheKey(id int) string {
	return fmt.Sprintf("order:%d", id)
}

// encodeComposite serializes a composite value to the JSON text the
// platform stores. Marshaling plain structs and maps cannot fail.
func encodeComposite(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
