package usecase_test

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderDetail_BuildsTimeline(t *testing.T) {
	gw := &OrderGatewayMock{}
	uc := usecase.NewOrderUsecase(gw)

	gw.On("GetOrder", mock.Anything, "tok", int64(5)).Return(model.Order{ID: 5, Status: "PENDING"}, nil)
	gw.On("ListOrderPayments", mock.Anything, "tok", int64(5)).Return([]model.PaymentTransaction{
		{ID: "1", Status: model.PaymentStatusDeclined},
		{ID: "2", Status: model.PaymentStatusApproved},
	}, nil)
	gw.On("GetOrderTracking", mock.Anything, "tok", int64(5)).Return(model.OrderTracking{OrderID: 5}, nil)

	d, err := uc.Detail(context.Background(), customerIdentity(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Payment confirmed", d.StatusLabel)
	require.Len(t, d.Stages, 4)
	assert.True(t, d.Stages[0].Current)
	assert.False(t, d.Cancelled)
	assert.Len(t, d.Payments, 2)
}

func TestOrderList_RequiresCustomer(t *testing.T) {
	gw := &OrderGatewayMock{}
	uc := usecase.NewOrderUsecase(gw)

	_, err := uc.List(context.Background(), adminIdentity())
	assert.ErrorIs(t, err, usecase.ErrCustomerRequired)
}

func TestPaymentMethods_DefaultRecomputed(t *testing.T) {
	gw := &PaymentMethodGatewayMock{}
	uc := usecase.NewPaymentMethodUsecase(gw, nil)

	gw.On("SetPaymentMethodEnabled", mock.Anything, "tok", int64(10), "m1", false).Return(model.PaymentMethod{}, nil)
	gw.On("ListPaymentMethods", mock.Anything, "tok", int64(10)).Return([]model.PaymentMethod{
		{ID: "m1", DefaultMethod: true, Enabled: false},
		{ID: "m2", Enabled: true},
	}, nil)

	out, err := uc.SetEnabled(context.Background(), customerIdentity(), "m1", false)
	require.NoError(t, err)
	assert.Equal(t, "m2", out.DefaultID)
}
