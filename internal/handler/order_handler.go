package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cafeteria/internal/auth"
	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/service"
)

// OrderHandler handles the order workflow.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrderRequest places a single-meal order. MealName and Price are
// informational; the stored meal is authoritative.
type CreateOrderRequest struct {
	Client   string           `json:"client" validate:"omitempty,email"`
	MealID   string           `json:"mealId" validate:"required"`
	MealName string           `json:"mealName"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity" validate:"required,min=1"`
	Time     string           `json:"time" validate:"omitempty,oneof=morning afternoon evening"`
}

// CreateOrderResponse is returned after placing an order.
type CreateOrderResponse struct {
	Message string       `json:"message"`
	Order   *model.Order `json:"order"`
	QRCode  string       `json:"qrCode"`
}

// OrdersResponse lists orders.
type OrdersResponse struct {
	Message string        `json:"message"`
	Orders  []model.Order `json:"orders"`
}

// UpdateStatusRequest changes an order's status.
type UpdateStatusRequest struct {
	Status        model.OrderStatus `json:"status" validate:"required"`
	RefusedReason string            `json:"refusedReason"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Order *model.Order `json:"order"`
}

// HistoryResponse lists the status history of an order.
type HistoryResponse struct {
	Events []model.OrderEvent `json:"events"`
}

// ScanRequest carries a scanned QR code image.
type ScanRequest struct {
	QRCode string `json:"qrCode" validate:"required"`
}

// CreateOrder godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order"
// @Success 201 {object} CreateOrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /Order [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email, err := actingEmail(c, req.Client)
	if err != nil {
		return errorResponse(c, err)
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), email, service.CreateOrderInput{
		MealID:     req.MealID,
		Quantity:   req.Quantity,
		PickupTime: req.Time,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, CreateOrderResponse{
		Message: "order created",
		Order:   order,
		QRCode:  order.QRCode,
	})
}

// ListClientOrders godoc
// @Summary List a client's orders
// @Description Clients may only list their own orders; chefs may list anyone's.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param email path string true "Client email"
// @Success 200 {object} OrdersResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /Order/{email} [get]
func (h *OrderHandler) ListClientOrders(c echo.Context) error {
	email, err := actingEmail(c, c.Param("email"))
	if err != nil {
		return errorResponse(c, err)
	}
	orders, err := h.orders.ListOrdersForClient(c.Request().Context(), email)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, OrdersResponse{Message: "client orders", Orders: orders})
}

// ListAllOrders godoc
// @Summary List every order
// @Description The email must be the caller's own, and the caller must be a chef.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param email path string true "Caller email"
// @Success 200 {object} OrdersResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /Orders/{email} [get]
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return errorResponse(c, apperrors.ErrForbidden)
	}
	email, err := actingEmail(c, c.Param("email"))
	if err != nil {
		return errorResponse(c, err)
	}
	if email != claims.Email {
		return errorResponse(c, apperrors.ErrForbidden)
	}

	orders, err := h.orders.ListAllOrders(c.Request().Context(), email)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, OrdersResponse{Message: "all orders", Orders: orders})
}

// UpdateStatus godoc
// @Summary Change an order's status
// @Description Any status may follow any other. refusedReason is stored only when refusing.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	claims, _ := auth.ClaimsFrom(c)
	actor := ""
	if claims != nil {
		actor = claims.Email
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status, req.RefusedReason, actor)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Order: order})
}

// History godoc
// @Summary Status history of an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} HistoryResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/{id}/history [get]
func (h *OrderHandler) History(c echo.Context) error {
	events, err := h.orders.OrderHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, HistoryResponse{Events: events})
}

// Scan godoc
// @Summary Look up an order from its QR code
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ScanRequest true "QR code image as a data URL"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders/scan [post]
func (h *OrderHandler) Scan(c echo.Context) error {
	var req ScanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.ScanOrder(c.Request().Context(), req.QRCode)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Order: order})
}
