package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/notify"
	"cafeteria/internal/qrcode"
	"cafeteria/internal/repository"
	"cafeteria/internal/telemetry"
)

// CreateOrderInput is a single-meal order placed by a client.
type CreateOrderInput struct {
	MealID     string
	Quantity   int
	PickupTime string
}

// OrderService runs the order workflow.
type OrderService interface {
	CreateOrder(ctx context.Context, clientEmail string, in CreateOrderInput) (*model.Order, error)
	ListOrdersForClient(ctx context.Context, email string) ([]model.Order, error)
	// ListAllOrders returns every order if the caller is a chef.
	ListAllOrders(ctx context.Context, callerEmail string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, refusedReason, actor string) (*model.Order, error)
	OrderHistory(ctx context.Context, orderID string) ([]model.OrderEvent, error)
	// ScanOrder resolves the order encoded in a QR code image data URL.
	ScanOrder(ctx context.Context, dataURL string) (*model.Order, error)
}

type orderService struct {
	users     repository.UserRepository
	meals     repository.MealRepository
	orders    repository.OrderRepository
	events    repository.OrderEventRepository
	catalog   CatalogService
	recorder  EventRecorder
	publisher notify.Publisher
	telemetry *telemetry.Provider
	logger    *slog.Logger
}

// OrderServiceDeps groups OrderService collaborators.
type OrderServiceDeps struct {
	Repositories *repository.Repositories
	Catalog      CatalogService
	Recorder     EventRecorder
	Publisher    notify.Publisher
	Telemetry    *telemetry.Provider
}

// NewOrderService builds an OrderService. A nil Publisher drops events.
func NewOrderService(deps OrderServiceDeps) OrderService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = notify.NoopPublisher{}
	}
	return &orderService{
		users:     deps.Repositories.Users,
		meals:     deps.Repositories.Meals,
		orders:    deps.Repositories.Orders,
		events:    deps.Repositories.OrderEvents,
		catalog:   deps.Catalog,
		recorder:  deps.Recorder,
		publisher: publisher,
		telemetry: deps.Telemetry,
		logger:    slog.Default().With("component", "orders"),
	}
}

func (s *orderService) findUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateOrder persists a pending order in one write. The id is minted first
// so the QR code can be stored with the record.
func (s *orderService) CreateOrder(ctx context.Context, clientEmail string, in CreateOrderInput) (order *model.Order, err error) {
	ctx, done := s.telemetry.TrackOperation(ctx, "OrderService.CreateOrder", attribute.String("meal_id", in.MealID))
	defer func() { done(err) }()

	client, err := s.findUser(ctx, clientEmail)
	if err != nil {
		return nil, err
	}
	meal, err := s.catalog.GetMeal(ctx, in.MealID)
	if err != nil {
		return nil, err
	}

	order = &model.Order{
		ID:         uuid.NewString(),
		ClientID:   client.ID,
		Meals:      []model.OrderLine{{MealID: meal.ID, Quantity: in.Quantity}},
		PickupTime: in.PickupTime,
		Status:     model.OrderStatusPending,
	}
	if order.QRCode, err = qrcode.DataURL(order.ID); err != nil {
		return nil, fmt.Errorf("render order code: %w", err)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order.Meals[0].MealDetails = meal

	s.telemetry.RecordOrderCreated(ctx)
	s.track(ctx, notify.EventOrderCreated, order, client.Email)
	return order, nil
}

func (s *orderService) ListOrdersForClient(ctx context.Context, email string) ([]model.Order, error) {
	client, err := s.findUser(ctx, email)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.withMealDetails(ctx, orders)
}

func (s *orderService) ListAllOrders(ctx context.Context, callerEmail string) ([]model.Order, error) {
	caller, err := s.findUser(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if !caller.IsChef() {
		return nil, apperrors.ErrForbidden
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.withMealDetails(ctx, orders)
}

// UpdateOrderStatus overwrites the status. The refusal reason is written only
// when refusing with a non-empty reason; an earlier reason is otherwise kept.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, refusedReason, actor string) (order *model.Order, err error) {
	ctx, done := s.telemetry.TrackOperation(ctx, "OrderService.UpdateOrderStatus",
		attribute.String("order_id", orderID),
		attribute.String("status", string(status)),
	)
	defer func() { done(err) }()

	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	var reason *string
	if status == model.OrderStatusRefused {
		if trimmed := strings.TrimSpace(refusedReason); trimmed != "" {
			reason = &trimmed
		}
	}

	order, err = s.orders.UpdateStatus(ctx, orderID, status, reason)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.telemetry.RecordStatusChange(ctx, string(status))
	s.track(ctx, notify.EventOrderStatusChanged, order, actor)

	resolved, err := s.withMealDetails(ctx, []model.Order{*order})
	if err != nil {
		return nil, err
	}
	return &resolved[0], nil
}

func (s *orderService) OrderHistory(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	events, err := s.events.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	return events, nil
}

func (s *orderService) ScanOrder(ctx context.Context, dataURL string) (*model.Order, error) {
	orderID, err := qrcode.Decode(dataURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidQRCode, err)
	}
	order, err := s.orders.FindByID(ctx, strings.TrimSpace(orderID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	resolved, err := s.withMealDetails(ctx, []model.Order{*order})
	if err != nil {
		return nil, err
	}
	return &resolved[0], nil
}

// withMealDetails resolves the meals of every line with one batched lookup.
// Lines whose meal no longer exists keep nil details.
func (s *orderService) withMealDetails(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	seen := map[string]struct{}{}
	var ids []string
	for i := range orders {
		for _, id := range orders[i].MealIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return orders, nil
	}

	meals, err := s.meals.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve meals: %w", err)
	}
	byID := make(map[string]*model.Meal, len(meals))
	for i := range meals {
		byID[meals[i].ID] = &meals[i]
	}
	for i := range orders {
		for j := range orders[i].Meals {
			orders[i].Meals[j].MealDetails = byID[orders[i].Meals[j].MealID]
		}
	}
	return orders, nil
}

// track records the order's status history and announces the change.
// Failures are logged; the order write already succeeded.
func (s *orderService) track(ctx context.Context, eventType string, order *model.Order, actor string) {
	now := time.Now()
	if s.recorder != nil {
		s.recorder.Record(ctx, model.OrderEvent{
			OrderID:       order.ID,
			Status:        order.Status,
			RefusedReason: order.RefusedReason,
			ChangedBy:     actor,
			CreatedAt:     now,
		})
	}

	event := notify.Event{
		Type:          eventType,
		OrderID:       order.ID,
		ClientID:      order.ClientID,
		Status:        string(order.Status),
		RefusedReason: order.RefusedReason,
		Actor:         actor,
		OccurredAt:    now,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "publish order event", "order_id", order.ID, "type", eventType, "error", err)
	}
}
