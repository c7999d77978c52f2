package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cafeteria/internal/errors"
	"cafeteria/internal/model"
	"cafeteria/internal/notify"
	"cafeteria/internal/qrcode"
	"cafeteria/internal/repository"
)

var (
	testClient = &model.User{ID: "client-1", Name: "Alice", Email: "a@x.com", Role: model.RoleClient}
	testChef   = &model.User{ID: "chef-1", Name: "Chef", Email: "chef@x.com", Role: model.RoleChef}
	testMeal   = &model.Meal{ID: "meal-1", Name: "Couscous", Image: "couscous.png", Category: model.CategoryLunch, Price: decimal.RequireFromString("8.50"), Available: true}
)

type orderFixture struct {
	repos     *mockRepos
	recorder  *recordingRecorder
	publisher *recordingPublisher
	service   OrderService
}

func newOrderFixture() *orderFixture {
	m, repos := newMockRepos()
	f := &orderFixture{
		repos:     m,
		recorder:  &recordingRecorder{},
		publisher: &recordingPublisher{},
	}
	f.service = NewOrderService(OrderServiceDeps{
		Repositories: repos,
		Catalog:      NewCatalogService(m.meals, m.feedback, nil),
		Recorder:     f.recorder,
		Publisher:    f.publisher,
	})
	return f
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture()
	f.repos.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
	f.repos.meals.On("FindByID", mock.Anything, "meal-1").Return(testMeal, nil)
	var writtenCode string
	f.repos.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) { writtenCode = args.Get(1).(*model.Order).QRCode }).
		Return(nil).Once()

	order, err := f.service.CreateOrder(context.Background(), " A@x.com", CreateOrderInput{MealID: "meal-1", Quantity: 2, PickupTime: model.PickupMorning})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "client-1", order.ClientID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Nil(t, order.RefusedReason)
	require.Len(t, order.Meals, 1)
	assert.Equal(t, "meal-1", order.Meals[0].MealID)
	assert.Equal(t, 2, order.Meals[0].Quantity)
	assert.Equal(t, testMeal, order.Meals[0].MealDetails)

	decoded, err := qrcode.Decode(order.QRCode)
	require.NoError(t, err)
	assert.Equal(t, order.ID, decoded)

	// The code is already on the record when it is written.
	assert.Equal(t, order.QRCode, writtenCode)

	require.Len(t, f.recorder.Events(), 1)
	assert.Equal(t, model.OrderStatusPending, f.recorder.Events()[0].Status)
	require.Len(t, f.publisher.Events(), 1)
	assert.Equal(t, notify.EventOrderCreated, f.publisher.Events()[0].Type)

	f.repos.orders.AssertExpectations(t)
}

func TestOrderService_CreateOrderFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*mockRepos)
		wantErr error
	}{
		{
			name: "unknown client",
			setup: func(m *mockRepos) {
				m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, repository.ErrNotFound)
			},
			wantErr: apperrors.ErrUserNotFound,
		},
		{
			name: "unknown meal",
			setup: func(m *mockRepos) {
				m.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
				m.meals.On("FindByID", mock.Anything, "meal-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: apperrors.ErrMealNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			tt.setup(f.repos)

			_, err := f.service.CreateOrder(context.Background(), "a@x.com", CreateOrderInput{MealID: "meal-1", Quantity: 1})
			assert.ErrorIs(t, err, tt.wantErr)
			f.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, f.publisher.Events())
		})
	}
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture()
	f.publisher.err = errors.New("broker down")
	f.repos.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
	f.repos.meals.On("FindByID", mock.Anything, "meal-1").Return(testMeal, nil)
	f.repos.orders.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.CreateOrder(context.Background(), "a@x.com", CreateOrderInput{MealID: "meal-1", Quantity: 1})
	assert.NoError(t, err)
}

func TestOrderService_ListOrders(t *testing.T) {
	orders := []model.Order{
		{ID: "o2", ClientID: "client-1", Meals: []model.OrderLine{{MealID: "meal-1", Quantity: 1}, {MealID: "gone", Quantity: 1}}},
		{ID: "o1", ClientID: "client-1", Meals: []model.OrderLine{{MealID: "meal-1", Quantity: 3}}},
	}

	t.Run("client orders resolve meals in one lookup", func(t *testing.T) {
		f := newOrderFixture()
		f.repos.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)
		f.repos.orders.On("ListByClient", mock.Anything, "client-1").Return(append([]model.Order(nil), orders...), nil)
		f.repos.meals.On("FindByIDs", mock.Anything, []string{"meal-1", "gone"}).Return([]model.Meal{*testMeal}, nil).Once()

		got, err := f.service.ListOrdersForClient(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Couscous", got[0].Meals[0].MealDetails.Name)
		assert.Nil(t, got[0].Meals[1].MealDetails)
		assert.Equal(t, "Couscous", got[1].Meals[0].MealDetails.Name)
		f.repos.meals.AssertExpectations(t)
	})

	t.Run("client cannot list everything", func(t *testing.T) {
		f := newOrderFixture()
		f.repos.users.On("FindByEmail", mock.Anything, "a@x.com").Return(testClient, nil)

		_, err := f.service.ListAllOrders(context.Background(), "a@x.com")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.repos.orders.AssertNotCalled(t, "ListAll", mock.Anything)
	})

	t.Run("chef lists everything", func(t *testing.T) {
		f := newOrderFixture()
		f.repos.users.On("FindByEmail", mock.Anything, "chef@x.com").Return(testChef, nil)
		f.repos.orders.On("ListAll", mock.Anything).Return([]model.Order{}, nil)

		got, err := f.service.ListAllOrders(context.Background(), "chef@x.com")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	reason := "out of stock"
	tests := []struct {
		name       string
		status     model.OrderStatus
		reason     string
		wantReason *string
		repoErr    error
		wantErr    error
	}{
		{name: "refuse with reason", status: model.OrderStatusRefused, reason: "  out of stock ", wantReason: &reason},
		{name: "refuse without reason keeps earlier one", status: model.OrderStatusRefused, reason: "   "},
		{name: "reason ignored unless refusing", status: model.OrderStatusPreparing, reason: "ignored"},
		{name: "unknown order", status: model.OrderStatusCompleted, repoErr: repository.ErrNotFound, wantErr: apperrors.ErrOrderNotFound},
		{name: "invalid status", status: model.OrderStatus("eaten"), wantErr: apperrors.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			updated := &model.Order{ID: "o1", ClientID: "client-1", Status: tt.status, Meals: []model.OrderLine{{MealID: "meal-1", Quantity: 1}}}
			if tt.status.Valid() {
				if tt.repoErr != nil {
					f.repos.orders.On("UpdateStatus", mock.Anything, "o1", tt.status, tt.wantReason).Return(nil, tt.repoErr)
				} else {
					f.repos.orders.On("UpdateStatus", mock.Anything, "o1", tt.status, tt.wantReason).Return(updated, nil)
					f.repos.meals.On("FindByIDs", mock.Anything, []string{"meal-1"}).Return([]model.Meal{*testMeal}, nil)
				}
			}

			order, err := f.service.UpdateOrderStatus(context.Background(), "o1", tt.status, tt.reason, "chef@x.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.recorder.Events())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, order.Status)
			assert.NotNil(t, order.Meals[0].MealDetails)

			events := f.publisher.Events()
			require.Len(t, events, 1)
			assert.Equal(t, "order.status."+string(tt.status), events[0].RoutingKey())
			assert.Equal(t, "chef@x.com", f.recorder.Events()[0].ChangedBy)
			f.repos.orders.AssertExpectations(t)
		})
	}
}

func TestOrderService_OrderHistory(t *testing.T) {
	f := newOrderFixture()
	f.repos.orders.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1"}, nil)
	f.repos.orders.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)
	f.repos.events.On("ListByOrder", mock.Anything, "o1").Return([]model.OrderEvent{
		{OrderID: "o1", Status: model.OrderStatusPending},
		{OrderID: "o1", Status: model.OrderStatusCompleted},
	}, nil)

	events, err := f.service.OrderHistory(context.Background(), "o1")
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = f.service.OrderHistory(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestOrderService_ScanOrder(t *testing.T) {
	f := newOrderFixture()
	code, err := qrcode.DataURL("o1")
	require.NoError(t, err)
	f.repos.orders.On("FindByID", mock.Anything, "o1").Return(&model.Order{ID: "o1", Meals: []model.OrderLine{{MealID: "meal-1", Quantity: 1}}}, nil)
	f.repos.meals.On("FindByIDs", mock.Anything, []string{"meal-1"}).Return([]model.Meal{*testMeal}, nil)

	order, err := f.service.ScanOrder(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "Couscous", order.Meals[0].MealDetails.Name)

	_, err = f.service.ScanOrder(context.Background(), "data:image/png;base64,aGVsbG8=")
	assert.ErrorIs(t, err, apperrors.ErrInvalidQRCode)
}
