package model_test

import (
	"encoding/json"
	"testing"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutStatus_CanPay(t *testing.T) {
	cases := map[model.CheckoutStatus]bool{
		model.CheckoutStatusInitiated:      true,
		model.CheckoutStatusPaymentPending: true,
		model.CheckoutStatusFailed:         true,
		model.CheckoutStatusApproved:       false,
		model.CheckoutStatusConsumed:       false,
		model.CheckoutStatusExpired:        false,
		model.CheckoutStatus("UNKNOWN"):    false,
	}
	for status, want := range cases {
		assert.Equal(t, want, status.CanPay(), "status=%s", status)
	}
}

func TestDefaultPaymentMethod(t *testing.T) {
	methods := []model.PaymentMethod{
		{ID: "a", DefaultMethod: true, Enabled: false},
		{ID: "b", Enabled: true},
		{ID: "c", DefaultMethod: true, Enabled: true},
	}
	m, ok := model.DefaultPaymentMethod(methods)
	require.True(t, ok)
	assert.Equal(t, "c", m.ID)

	// default が無効なら最初の有効なもの
	m, ok = model.DefaultPaymentMethod(methods[:2])
	require.True(t, ok)
	assert.Equal(t, "b", m.ID)

	_, ok = model.DefaultPaymentMethod([]model.PaymentMethod{{ID: "x"}})
	assert.False(t, ok)
}

func TestCustomerLabel_Precedence(t *testing.T) {
	id := int64(7)
	assert.Equal(t, "Alice", model.CustomerLabel(model.Order{CustomerName: "Alice", Customer: &model.OrderCustomer{FullName: "Bob"}}))
	assert.Equal(t, "Bob", model.CustomerLabel(model.Order{Customer: &model.OrderCustomer{FullName: "Bob"}, CustomerID: &id}))
	assert.Equal(t, "Customer #7", model.CustomerLabel(model.Order{CustomerID: &id}))
	assert.Equal(t, "Customer #N/A", model.CustomerLabel(model.Order{}))

	assert.Equal(t, "a@example.com", model.CustomerEmail(model.Order{CustomerEmail: "a@example.com"}))
	assert.Equal(t, "b@example.com", model.CustomerEmail(model.Order{Customer: &model.OrderCustomer{Email: "b@example.com"}}))
	assert.Equal(t, "No email", model.CustomerEmail(model.Order{}))
}

func TestAdminUserUpdatePayload_TriState(t *testing.T) {
	p := model.AdminUserUpdatePayload{
		Email:   model.Some("a@example.com"),
		Phone:   model.Null[string](),
		Enabled: model.Some(false),
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.JSONEq(t, `"a@example.com"`, string(got["email"]))
	assert.JSONEq(t, `null`, string(got["phone"]))
	assert.JSONEq(t, `false`, string(got["enabled"]))
	_, hasAddress := got["address"]
	assert.False(t, hasAddress, "未指定のフィールドは送らない")

	var back model.AdminUserUpdatePayload
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Phone.IsNull())
	assert.True(t, back.Address.IsAbsent())
	v, ok := back.Email.Get()
	assert.True(t, ok)
	assert.Equal(t, "a@example.com", v)
}
