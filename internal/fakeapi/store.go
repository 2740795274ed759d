package fakeapi

import (
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type userRecord struct {
	id           int64
	email        string
	fullName     string
	passwordHash string
	roles        []string
	enabled      bool
	phone        string
	address      string
	createdAt    time.Time
}

func (u *userRecord) isAdmin() bool {
	for _, r := range u.roles {
		if r == string(model.RoleAdmin) {
			return true
		}
	}
	return false
}

type productRecord struct {
	product    model.Product
	categoryID int64
}

type cartItemRecord struct {
	id        int64
	productID int64
	quantity  int64
}

type cartRecord struct {
	id         int64
	customerID int64
	items      []*cartItemRecord
}

type checkoutRecord struct {
	id         string
	customerID int64
	status     model.CheckoutStatus
	amount     decimal.Decimal
	items      []model.CheckoutLineItem
	createdAt  time.Time
	expiresAt  time.Time
	orderID    *int64
	attempts   []model.PaymentTransaction
}

type orderRecord struct {
	order    model.Order
	events   []model.TrackingEvent
	payments []model.PaymentTransaction
}

// store はメモリ上の全データ。1つのロックで直列化する
type store struct {
	mu  sync.Mutex
	now func() time.Time

	users      map[int64]*userRecord
	customers  map[int64]*model.Customer
	categories map[int64]*model.Category
	products   map[int64]*productRecord
	carts      map[int64]*cartRecord
	checkouts  map[string]*checkoutRecord
	methods    map[int64][]*model.PaymentMethod
	orders     map[int64]*orderRecord

	// 冪等キー（セッションID + キー）ごとの結果
	payReplays      map[string]model.PaymentResult
	finalizeReplays map[string]model.FinalizeResult

	seq map[string]int64
}

func newStore(now func() time.Time) *store {
	return &store{
		now:             now,
		users:           map[int64]*userRecord{},
		customers:       map[int64]*model.Customer{},
		categories:      map[int64]*model.Category{},
		products:        map[int64]*productRecord{},
		carts:           map[int64]*cartRecord{},
		checkouts:       map[string]*checkoutRecord{},
		methods:         map[int64][]*model.PaymentMethod{},
		orders:          map[int64]*orderRecord{},
		payReplays:      map[string]model.PaymentResult{},
		finalizeReplays: map[string]model.FinalizeResult{},
		seq:             map[string]int64{},
	}
}

func (s *store) next(kind string) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *store) userByEmailLocked(email string) (*userRecord, bool) {
	email = normalizeEmail(email)
	for _, u := range s.users {
		if u.email == email {
			return u, true
		}
	}
	return nil, false
}

func (s *store) customerOfUserLocked(userID int64) (*model.Customer, bool) {
	for _, c := range s.customers {
		if c.UserID == userID {
			return c, true
		}
	}
	return nil, false
}

// authUserLocked は /auth のユーザー表現。管理者には customerId を載せない
func (s *store) authUserLocked(u *userRecord) model.AuthUser {
	out := model.AuthUser{
		ID:       u.id,
		Email:    u.email,
		FullName: u.fullName,
		Roles:    append([]string(nil), u.roles...),
	}
	if !u.isAdmin() {
		if c, ok := s.customerOfUserLocked(u.id); ok {
			id := c.ID
			out.CustomerID = &id
		}
	}
	return out
}

func adminUserView(u *userRecord) model.AdminUser {
	enabled := u.enabled
	return model.AdminUser{
		ID:        u.id,
		Email:     u.email,
		FullName:  u.fullName,
		Roles:     append([]string(nil), u.roles...),
		Enabled:   &enabled,
		Phone:     u.phone,
		Address:   u.address,
		CreatedAt: u.createdAt,
	}
}

// canAccessCustomerLocked は顧客本人か管理者か
func (s *store) canAccessCustomerLocked(u *userRecord, customerID int64) error {
	c, ok := s.customers[customerID]
	if !ok {
		return notFound("Customer not found")
	}
	if c.UserID != u.id && !u.isAdmin() {
		return errForbidden
	}
	return nil
}
