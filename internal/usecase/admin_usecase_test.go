package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logging"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newScreen() (*usecase.AdminScreen, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return usecase.NewAdminScreen(usecase.NewNoticeBoard(clock, 4*time.Second)), clock
}

func int64p(v int64) *int64 { return &v }

func TestAdminUser_SelfDisableBlocked(t *testing.T) {
	ctx := context.Background()
	gw := &AdminUserGatewayMock{}
	uc := usecase.NewAdminUserUsecase(gw, logging.Discard())
	screen, _ := newScreen()
	me := adminIdentity()

	_, err := uc.SetAccess(ctx, me, screen, me.user.ID, false, usecase.Confirmed(true))
	assert.ErrorIs(t, err, usecase.ErrSelfDisable)

	_, err = uc.Update(ctx, me, screen, me.user.ID, model.AdminUserUpdatePayload{Enabled: model.Some(false)})
	assert.ErrorIs(t, err, usecase.ErrSelfDisable)

	gw.AssertNotCalled(t, "AdminSetUserAccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "AdminUpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	n := screen.Notices.Current()
	require.NotNil(t, n)
	assert.Equal(t, usecase.NoticeError, n.Kind)
	assert.Equal(t, usecase.ErrSelfDisable.Error(), n.Text)
}

func TestAdminUser_DisableOtherNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	gw := &AdminUserGatewayMock{}
	uc := usecase.NewAdminUserUsecase(gw, logging.Discard())
	screen, _ := newScreen()

	_, err := uc.SetAccess(ctx, adminIdentity(), screen, 3, false, nil)
	assert.ErrorIs(t, err, usecase.ErrConfirmationRequired)
	assert.Nil(t, screen.Notices.Current())

	gw.On("AdminSetUserAccess", mock.Anything, "admin-tok", int64(3), false).Return(model.AdminUser{ID: 3}, nil)
	gw.On("AdminListUsers", mock.Anything, "admin-tok").Return([]model.AdminUser{{ID: 3}, {ID: 7}}, nil)

	users, err := uc.SetAccess(ctx, adminIdentity(), screen, 3, false, usecase.Confirmed(true))
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "User disabled.", screen.Notices.Current().Text)
}

func TestAdminUser_EnableSelfAllowed(t *testing.T) {
	gw := &AdminUserGatewayMock{}
	uc := usecase.NewAdminUserUsecase(gw, logging.Discard())
	screen, _ := newScreen()
	gw.On("AdminSetUserAccess", mock.Anything, "admin-tok", int64(7), true).Return(model.AdminUser{ID: 7}, nil)
	gw.On("AdminListUsers", mock.Anything, "admin-tok").Return([]model.AdminUser{{ID: 7}}, nil)

	_, err := uc.SetAccess(context.Background(), adminIdentity(), screen, 7, true, nil)
	assert.NoError(t, err)
}

func TestAdminUser_CustomerViewForbidden(t *testing.T) {
	gw := &AdminUserGatewayMock{}
	uc := usecase.NewAdminUserUsecase(gw, logging.Discard())

	_, err := uc.List(context.Background(), customerIdentity())
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestAdminCategory_CreateValidatesThenReloads(t *testing.T) {
	ctx := context.Background()
	gw := &AdminCatalogGatewayMock{}
	uc := usecase.NewAdminCategoryUsecase(gw, logging.Discard())
	screen, _ := newScreen()

	_, err := uc.Create(ctx, adminIdentity(), screen, model.CategoryPayload{Name: "  "})
	assert.Error(t, err)
	gw.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything, mock.Anything)

	payload := model.CategoryPayload{Name: "Books"}
	gw.On("CreateCategory", mock.Anything, "admin-tok", payload).Return(model.Category{ID: 2, Name: "Books"}, nil)
	gw.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 1, Name: "Toys"}, {ID: 2, Name: "Books"}}, nil)

	cats, err := uc.Create(ctx, adminIdentity(), screen, payload)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, usecase.NoticeSuccess, screen.Notices.Current().Kind)
}

func TestAdminCategory_DeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	gw := &AdminCatalogGatewayMock{}
	uc := usecase.NewAdminCategoryUsecase(gw, logging.Discard())
	screen, _ := newScreen()

	var prompt string
	_, err := uc.Delete(ctx, adminIdentity(), screen, 2, usecase.ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	assert.ErrorIs(t, err, usecase.ErrConfirmationRequired)
	assert.Equal(t, "Delete category #2?", prompt)
	gw.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminProduct_ServerErrorPostsNotice(t *testing.T) {
	ctx := context.Background()
	gw := &AdminCatalogGatewayMock{}
	uc := usecase.NewAdminProductUsecase(gw, logging.Discard())
	screen, _ := newScreen()

	gw.On("DeleteProduct", mock.Anything, "admin-tok", int64(4)).Return(errors.New("Product is referenced by orders"))

	_, err := uc.Delete(ctx, adminIdentity(), screen, 4, usecase.Confirmed(true))
	assert.Error(t, err)
	n := screen.Notices.Current()
	require.NotNil(t, n)
	assert.Equal(t, "Product is referenced by orders", n.Text)
	gw.AssertNotCalled(t, "ListProducts", mock.Anything)
	assert.False(t, screen.Busy("product", 4))
}

func TestAdminProduct_UpdateReloadsProductsAndCategories(t *testing.T) {
	gw := &AdminCatalogGatewayMock{}
	uc := usecase.NewAdminProductUsecase(gw, logging.Discard())
	screen, _ := newScreen()

	payload := model.ProductPayload{Name: "Mug", Price: decimal.NewFromInt(12), StockQuantity: 5, CategoryID: 1}
	gw.On("UpdateProduct", mock.Anything, "admin-tok", int64(3), payload).Return(model.Product{ID: 3}, nil)
	gw.On("ListProducts", mock.Anything).Return([]model.Product{{ID: 3, Name: "Mug"}}, nil)
	gw.On("ListCategories", mock.Anything).Return([]model.Category{{ID: 1}}, nil)

	out, err := uc.Update(context.Background(), adminIdentity(), screen, 3, payload)
	require.NoError(t, err)
	assert.Len(t, out.Products, 1)
	assert.Len(t, out.Categories, 1)
}

func TestAdminOrder_AdvanceOneStage(t *testing.T) {
	ctx := context.Background()
	gw := &AdminOrderGatewayMock{}
	uc := usecase.NewAdminOrderUsecase(gw, logging.Discard())
	screen, _ := newScreen()

	before := []model.Order{{ID: 1, OrderNumber: "ORD-1", Status: model.OrderStatusProcessing, TotalAmount: decimal.NewFromInt(250)}}
	after := []model.Order{{ID: 1, OrderNumber: "ORD-1", Status: model.OrderStatusShipped, TotalAmount: decimal.NewFromInt(250)}}
	gw.On("AdminListOrders", mock.Anything, "admin-tok").Return(before, nil).Once()
	gw.On("AdminUpdateOrderStatus", mock.Anything, "admin-tok", int64(1), model.OrderStatusShipped).Return(after[0], nil)
	gw.On("AdminListOrders", mock.Anything, "admin-tok").Return(after, nil).Once()

	out, err := uc.Advance(ctx, adminIdentity(), screen, 1)
	require.NoError(t, err)
	require.Len(t, out.Orders, 1)
	assert.Equal(t, model.OrderStatusShipped, out.Orders[0].Status)
	assert.Equal(t, model.OrderStatusDelivered, out.Orders[0].NextStatus)
	assert.Equal(t, "Order ORD-1 moved to Shipped.", screen.Notices.Current().Text)
}

func TestAdminOrder_NoNextStage(t *testing.T) {
	for _, status := range []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled} {
		gw := &AdminOrderGatewayMock{}
		uc := usecase.NewAdminOrderUsecase(gw, logging.Discard())
		screen, _ := newScreen()
		gw.On("AdminListOrders", mock.Anything, "admin-tok").Return([]model.Order{{ID: 1, Status: status}}, nil)

		_, err := uc.Advance(context.Background(), adminIdentity(), screen, 1)
		assert.ErrorIs(t, err, usecase.ErrNoNextStage, status)
		gw.AssertNotCalled(t, "AdminUpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestBuildAdminOrders_Summary(t *testing.T) {
	out := usecase.BuildAdminOrders([]model.Order{
		{ID: 1, Status: model.OrderStatusPlaced, TotalAmount: decimal.RequireFromString("10.50"), CustomerName: "Alice"},
		{ID: 2, Status: model.OrderStatusDelivered, TotalAmount: decimal.NewFromInt(20), CustomerID: int64p(5)},
		{ID: 3, Status: model.OrderStatusCancelled, TotalAmount: decimal.NewFromInt(5)},
	})

	assert.Equal(t, 3, out.Summary.TotalOrders)
	assert.Equal(t, 1, out.Summary.InProgress)
	assert.True(t, decimal.RequireFromString("35.50").Equal(out.Summary.Revenue))
	assert.Equal(t, "Alice", out.Orders[0].CustomerLabel)
	assert.Equal(t, "Customer #5", out.Orders[1].CustomerLabel)
	assert.Equal(t, "Customer #N/A", out.Orders[2].CustomerLabel)
	assert.Equal(t, "No email", out.Orders[2].CustomerContact)
	assert.Empty(t, out.Orders[2].NextStatus)
}

func TestNoticeBoard_AutoDismiss(t *testing.T) {
	screen, clock := newScreen()

	screen.Notices.Success("Saved.")
	clock.Advance(3 * time.Second)
	require.NotNil(t, screen.Notices.Current())

	clock.Advance(time.Second)
	assert.Nil(t, screen.Notices.Current())
}
