package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"cafeteria/internal/auth"
	"cafeteria/internal/model"
	"cafeteria/internal/service"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

// newContext builds a request context, authenticated as claims when non-nil.
func newContext(e *echo.Echo, method, target, body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(auth.ClaimsContextKey, claims)
	}
	return c, rec
}

// statusOf returns the status a handler produced, whether it wrote a response
// or returned an *echo.HTTPError.
func statusOf(rec *httptest.ResponseRecorder, err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	if err != nil {
		return http.StatusInternalServerError
	}
	return rec.Code
}

func clientClaims() *auth.Claims {
	return &auth.Claims{UserID: "u-client", Email: "client@x.com", Role: model.RoleClient}
}

func chefClaims() *auth.Claims {
	return &auth.Claims{UserID: "u-chef", Email: "chef@x.com", Role: model.RoleChef}
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) CreateAccount(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*model.User), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	return m.Called(ctx, refreshToken, accessToken).Error(0)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) CreateOrder(ctx context.Context, clientEmail string, in service.CreateOrderInput) (*model.Order, error) {
	args := m.Called(ctx, clientEmail, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrdersForClient(ctx context.Context, email string) ([]model.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context, callerEmail string) ([]model.Order, error) {
	args := m.Called(ctx, callerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, refusedReason, actor string) (*model.Order, error) {
	args := m.Called(ctx, orderID, status, refusedReason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) OrderHistory(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderEvent), args.Error(1)
}

func (m *MockOrderService) ScanOrder(ctx context.Context, dataURL string) (*model.Order, error) {
	args := m.Called(ctx, dataURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

type MockFeedbackService struct{ mock.Mock }

func (m *MockFeedbackService) SubmitFeedback(ctx context.Context, in service.SubmitFeedbackInput) (*model.Feedback, bool, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*model.Feedback), args.Bool(1), args.Error(2)
}

type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) ListMeals(ctx context.Context) ([]service.MealWithFeedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.MealWithFeedback), args.Error(1)
}

func (m *MockCatalogService) GetMeal(ctx context.Context, id string) (*model.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockCatalogService) ImportMeals(ctx context.Context, meals []service.MealInput) (int, int, error) {
	args := m.Called(ctx, meals)
	return args.Int(0), args.Int(1), args.Error(2)
}
