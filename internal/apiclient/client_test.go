package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// helper
// =====================

type recorded struct {
	method  string
	path    string
	auth    string
	ctype   string
	idemKey string
	body    []byte
}

func newServer(t *testing.T, status int, respBody string) (*apiclient.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.ctype = r.Header.Get("Content-Type")
		rec.idemKey = r.Header.Get(apiclient.IdempotencyKeyHeader)
		if r.Body != nil {
			var raw json.RawMessage
			_ = json.NewDecoder(r.Body).Decode(&raw)
			rec.body = raw
		}
		w.WriteHeader(status)
		if respBody != "" {
			_, _ = w.Write([]byte(respBody))
		}
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL + "/api/v1"), rec
}

// =====================
// tests
// =====================

func TestClient_DecodesSuccessAndSendsBearer(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"id":10,"customerId":3,"items":[{"id":1,"productId":1,"productName":"Beans","quantity":2,"unitPrice":100,"subtotal":200}],"totalAmount":200}`)

	cart, err := c.AddCartItem(context.Background(), "tok", 3, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/v1/customers/3/cart/items", rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
	assert.Equal(t, "application/json", rec.ctype)
	assert.JSONEq(t, `{"productId":1,"quantity":2}`, string(rec.body))

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(200)))
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `[]`)

	_, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.auth)
}

func TestClient_ErrorUsesServerMessage(t *testing.T) {
	c, _ := newServer(t, http.StatusConflict, `{"message":"Checkout session is not payable"}`)

	_, err := c.GetCheckoutSession(context.Background(), "tok", "x")
	re, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, re.Status)
	assert.Equal(t, "Checkout session is not payable", re.Error())
}

func TestClient_ErrorFallsBackToStatus(t *testing.T) {
	c, _ := newServer(t, http.StatusBadGateway, `<html>oops</html>`)

	_, err := c.ListCategories(context.Background())
	re, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "Request failed (502)", re.Message)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	c, _ := newServer(t, http.StatusNotFound, ``)

	_, err := c.GetProduct(context.Background(), 1)
	re, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, "Request failed (404)", re.Message)
}

func TestClient_NoContentIsSuccess(t *testing.T) {
	c, rec := newServer(t, http.StatusNoContent, ``)

	err := c.DeleteCategory(context.Background(), "tok", 5)
	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/v1/categories/5", rec.path)
}

func TestClient_PaySendsIdempotencyKey(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"status":"FAILED","gatewayMessage":"Insufficient funds"}`)

	res, err := c.PayCheckoutSession(context.Background(), "tok", "sess-1", model.PayRequest{PaymentMethodID: "pm", CVV: "123"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "key-1", rec.idemKey)
	assert.Equal(t, "/api/v1/checkout-sessions/sess-1/pay", rec.path)
	assert.False(t, res.Approved())
	assert.Equal(t, "Insufficient funds", res.GatewayMessage)
}

func TestClient_TransportFailureIsNotRequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := apiclient.New(url)
	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	_, ok := apiclient.AsRequestError(err)
	assert.False(t, ok)
}

func TestClient_AdminUpdateUserOmitsAbsentFields(t *testing.T) {
	c, rec := newServer(t, http.StatusOK, `{"id":2,"email":"x@example.com","fullName":"X","roles":["ROLE_CUSTOMER"]}`)

	_, err := c.AdminUpdateUser(context.Background(), "tok", 2, model.AdminUserUpdatePayload{
		FullName: model.Some("X"),
		Address:  model.Null[string](),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fullName":"X","address":null}`, string(rec.body))
}

type countingTransport struct {
	next  http.RoundTripper
	calls atomic.Int32
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return t.next.RoundTrip(r)
}

func TestClient_InjectedHTTPClientIsUsedButNotMutated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	tr := &countingTransport{next: srv.Client().Transport}
	hc := &http.Client{Transport: tr}

	c := apiclient.New(srv.URL+"/api/v1",
		apiclient.WithHTTPClient(hc),
		apiclient.WithTimeout(3*time.Second),
	)
	_, err := c.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), tr.calls.Load())
	assert.Zero(t, hc.Timeout)
}
