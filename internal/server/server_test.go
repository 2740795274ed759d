package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/domain/model"
	"storefront/internal/fakeapi"
	"storefront/internal/handler"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logging"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	api          *httptest.Server
	client       *apiclient.Client
	storage      repo.StorageRepository
	clientErrors repo.ClientErrorRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	backend := fakeapi.New(fakeapi.Config{BcryptCost: bcrypt.MinCost, Logger: logging.Discard()})
	require.NoError(t, backend.SeedDemoData())

	api := httptest.NewServer(backend.Handler())
	t.Cleanup(api.Close)

	return &env{
		api:          api,
		client:       apiclient.New(api.URL+"/api/v1", apiclient.WithHTTPClient(api.Client()), apiclient.WithLogger(logging.Discard())),
		storage:      infraRepo.NewStorageMemoryRepository(),
		clientErrors: infraRepo.NewClientErrorMemoryRepository(10),
	}
}

// bff は同じ storage を使う BFF を1つ立てる（再起動の再現にも使う）
func (e *env) bff(t *testing.T) *httptest.Server {
	t.Helper()

	ts, _, _ := e.bffWith(t)
	return ts
}

func (e *env) bffWith(t *testing.T, opts ...session.Option) (*httptest.Server, *session.Manager, *usecase.Workspaces) {
	t.Helper()

	log := logging.Discard()
	api := e.client
	sessions := session.NewManager(api, api, e.storage, log, opts...)
	workspaces := usecase.NewWorkspaces(api, usecase.SystemClock, 4*time.Second, log)

	srv := server.New(server.Options{
		Sessions:   sessions,
		Workspaces: workspaces,
		Logger:     log,
		Handlers: []server.RouteRegistrar{
			handler.NewAuthHandler(log),
			handler.NewProductHandler(usecase.NewCatalogUsecase(api)),
			handler.NewCartHandler(),
			handler.NewCheckoutHandler(usecase.NewCheckoutUsecase(api, api, log)),
			handler.NewOrderHandler(usecase.NewOrderUsecase(api)),
			handler.NewPaymentMethodHandler(usecase.NewPaymentMethodUsecase(api, usecase.SystemClock)),
			handler.NewProfileHandler(usecase.NewProfileUsecase(api)),
			handler.NewAdminProductHandler(usecase.NewAdminProductUsecase(api, log), usecase.NewAdminCategoryUsecase(api, log)),
			handler.NewAdminUserHandler(usecase.NewAdminUserUsecase(api, log)),
			handler.NewAdminOrderHandler(usecase.NewAdminOrderUsecase(api, log), usecase.NewAdminDashboardUsecase(api, api, api)),
			handler.NewClientErrorHandler(e.clientErrors, log),
		},
		CookieTTL: time.Hour,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, sessions, workspaces
}

// browser は cookie jar 付きのクライアント（1端末）
type browser struct {
	t    *testing.T
	base string
	hc   *http.Client
}

func newBrowser(t *testing.T, base string) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: base, hc: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, body any, out any) int {
	b.t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, b.base+path, rd)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := b.hc.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()

	if out != nil && res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		require.NoError(b.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (b *browser) login(email, password string) session.Snapshot {
	b.t.Helper()
	var snap session.Snapshot
	status := b.do(http.MethodPost, "/session/login", model.LoginRequest{Email: email, Password: password}, &snap)
	require.Equal(b.t, http.StatusOK, status)
	return snap
}

func TestBFF_CustomerCheckoutFlow(t *testing.T) {
	e := newEnv(t)
	b := newBrowser(t, e.bff(t).URL)

	snap := b.login(fakeapi.DemoCustomerEmail, fakeapi.DemoCustomerPassword)
	require.NotNil(t, snap.EffectiveCustomerID)
	assert.True(t, snap.CanUseCustomerFeatures)
	assert.False(t, snap.IsAdmin)

	var cart handler.CartResponse
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/cart/items",
		model.AddCartItemRequest{ProductID: 1, Quantity: 2}, &cart))
	assert.Equal(t, int64(2), cart.ItemCount)

	var methods usecase.PaymentMethods
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/payment-methods", model.PaymentMethodPayload{
		CardHolderName: "Demo Customer",
		CardNumber:     "4242 4242 4242 4242",
		ExpiryMonth:    12,
		ExpiryYear:     time.Now().Year() + 3,
	}, &methods))
	require.Len(t, methods.Methods, 1)
	methodID := methods.Methods[0].ID

	var started handler.CheckoutStartedResponse
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/cart/checkout", nil, &started))
	require.NotEmpty(t, started.CheckoutSessionID)

	var view usecase.CheckoutView
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/checkout/"+started.CheckoutSessionID, nil, &view))
	assert.True(t, view.CanPay)
	assert.True(t, view.Session.Amount.Equal(decimal.NewFromInt(200)), view.Session.Amount.String())

	var paid handler.PayResponse
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/checkout/"+started.CheckoutSessionID+"/pay",
		handler.PayRequest{PaymentMethodID: methodID, CVV: "123"}, &paid))
	assert.False(t, paid.Outcome.Declined)
	require.NotNil(t, paid.Outcome.Order)
	assert.Equal(t, "ORD-000001", paid.Outcome.Order.OrderNumber)

	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/cart", nil, &cart))
	assert.Equal(t, int64(0), cart.ItemCount)

	var orders []model.Order
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/orders", nil, &orders))
	require.Len(t, orders, 1)
}

func TestBFF_DeclineKeepsPageOpen(t *testing.T) {
	e := newEnv(t)
	b := newBrowser(t, e.bff(t).URL)
	b.login(fakeapi.DemoCustomerEmail, fakeapi.DemoCustomerPassword)

	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/cart/items",
		model.AddCartItemRequest{ProductID: 2, Quantity: 1}, nil))

	var methods usecase.PaymentMethods
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/payment-methods", model.PaymentMethodPayload{
		CardHolderName: "Demo Customer",
		CardNumber:     "4000000000000002",
		ExpiryMonth:    1,
		ExpiryYear:     time.Now().Year() + 2,
	}, &methods))

	var started handler.CheckoutStartedResponse
	require.Equal(t, http.StatusCreated, b.do(http.MethodPost, "/cart/checkout", nil, &started))

	var paid handler.PayResponse
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/checkout/"+started.CheckoutSessionID+"/pay",
		handler.PayRequest{PaymentMethodID: methods.Methods[0].ID, CVV: "123"}, &paid))
	assert.True(t, paid.Outcome.Declined)
	assert.Nil(t, paid.Outcome.Order)
	assert.True(t, paid.View.CanPay)

	var cart handler.CartResponse
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/cart", nil, &cart))
	assert.Equal(t, int64(1), cart.ItemCount)
}

func TestBFF_Guards(t *testing.T) {
	e := newEnv(t)
	base := e.bff(t).URL

	anon := newBrowser(t, base)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/cart", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/admin/products", nil, nil))
	assert.Equal(t, http.StatusOK, anon.do(http.MethodGet, "/catalog/products", nil, nil))

	cust := newBrowser(t, base)
	cust.login(fakeapi.DemoCustomerEmail, fakeapi.DemoCustomerPassword)
	assert.Equal(t, http.StatusForbidden, cust.do(http.MethodGet, "/admin/users", nil, nil))
	assert.Equal(t, http.StatusBadRequest, cust.do(http.MethodGet, "/checkout/not-a-session", nil, nil))

	admin := newBrowser(t, base)
	snap := admin.login(fakeapi.DemoAdminEmail, fakeapi.DemoAdminPassword)
	assert.True(t, snap.IsAdmin)
	assert.Equal(t, model.ViewModeAdmin, snap.ViewMode)
	assert.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/admin/products", nil, nil))

	// 顧客ビューに切り替えると管理画面は使えない
	require.Equal(t, http.StatusOK, admin.do(http.MethodPost, "/session/view-mode/toggle", nil, &snap))
	assert.Equal(t, model.ViewModeCustomer, snap.ViewMode)
	assert.Equal(t, http.StatusForbidden, admin.do(http.MethodGet, "/admin/products", nil, nil))

	require.Equal(t, http.StatusNoContent, admin.do(http.MethodDelete, "/session", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, admin.do(http.MethodGet, "/cart", nil, nil))
}

func TestBFF_AdminDeleteNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	b := newBrowser(t, e.bff(t).URL)
	b.login(fakeapi.DemoAdminEmail, fakeapi.DemoAdminPassword)

	assert.Equal(t, http.StatusPreconditionRequired, b.do(http.MethodDelete, "/admin/products/3", nil, nil))

	var out usecase.AdminProducts
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/admin/products", nil, &out))
	assert.Len(t, out.Products, 3)

	require.Equal(t, http.StatusOK, b.do(http.MethodDelete, "/admin/products/3?confirm=true", nil, &out))
	assert.Len(t, out.Products, 2)

	var notice usecase.Notice
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/admin/notice", nil, &notice))
	assert.Equal(t, "Product deleted.", notice.Text)
}

func TestBFF_SessionSurvivesRestart(t *testing.T) {
	e := newEnv(t)

	b := newBrowser(t, e.bff(t).URL)
	b.login(fakeapi.DemoCustomerEmail, fakeapi.DemoCustomerPassword)

	// 同じ storage で別プロセス相当のBFFを立てる。cookie はホスト単位なので引き継がれる
	b.base = e.bff(t).URL

	var snap session.Snapshot
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/session", nil, &snap))
	require.NotNil(t, snap.User)
	assert.Equal(t, fakeapi.DemoCustomerEmail, snap.User.Email)
	assert.True(t, snap.CanUseCustomerFeatures)
}

func TestBFF_ClientErrors(t *testing.T) {
	e := newEnv(t)
	base := e.bff(t).URL

	b := newBrowser(t, base)
	assert.Equal(t, http.StatusNoContent, b.do(http.MethodPost, "/client-errors",
		handler.ClientErrorRequest{Message: "boom", URL: "/checkout", Component: "checkout"}, nil))
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/client-errors",
		handler.ClientErrorRequest{}, nil))

	// 一覧は管理者だけ
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/admin/client-errors", nil, nil))

	admin := newBrowser(t, base)
	admin.login(fakeapi.DemoAdminEmail, fakeapi.DemoAdminPassword)

	var reports []model.ClientErrorReport
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/admin/client-errors?component=checkout", nil, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "boom", reports[0].Message)
	assert.Nil(t, reports[0].UserID)
	assert.NotEmpty(t, reports[0].Device)

	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodGet, "/admin/client-errors?limit=x", nil, nil))
}

func TestBFF_HealthzKeepsNoDeviceState(t *testing.T) {
	e := newEnv(t)
	ts, sessions, workspaces := e.bffWith(t)

	for i := 0; i < 3; i++ {
		res, err := http.Get(ts.URL + server.HealthzPath)
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Empty(t, res.Cookies())
	}
	assert.Zero(t, sessions.Len())
	assert.Zero(t, workspaces.Len())
}

func TestBFF_IdleDevicesAreSweptAndRestored(t *testing.T) {
	e := newEnv(t)
	base := time.Now()
	var elapsed atomic.Int64
	clock := func() time.Time { return base.Add(time.Duration(elapsed.Load())) }
	ts, sessions, workspaces := e.bffWith(t, session.WithIdleTTL(time.Minute), session.WithClock(clock))

	b := newBrowser(t, ts.URL)
	b.login(fakeapi.DemoCustomerEmail, fakeapi.DemoCustomerPassword)

	// cookie を持たない訪問者が何度来ても、それぞれ idle で外れる
	for i := 0; i < 3; i++ {
		newBrowser(t, ts.URL).do(http.MethodGet, "/session", nil, nil)
	}
	require.Equal(t, 4, sessions.Len())
	require.Equal(t, 4, workspaces.Len())

	elapsed.Store(int64(2 * time.Minute))
	evicted := sessions.Sweep()
	workspaces.Remove(evicted...)
	assert.Len(t, evicted, 4)
	assert.Zero(t, sessions.Len())
	assert.Zero(t, workspaces.Len())

	// 外れた端末も cookie があれば保存先から戻る
	var snap session.Snapshot
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/session", nil, &snap))
	require.NotNil(t, snap.User)
	assert.Equal(t, fakeapi.DemoCustomerEmail, snap.User.Email)
}

func TestBFF_ErrorMessagesAreShownVerbatim(t *testing.T) {
	e := newEnv(t)
	base := e.bff(t).URL

	res, err := http.Get(base + "/cart")
	require.NoError(t, err)
	defer res.Body.Close()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, usecase.ErrSignInRequired.Error(), body.Error)
	assert.Equal(t, "Please sign in to continue", body.Error)
}
