package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/tracking"

	"github.com/labstack/echo/v4"
)

var errSelfDisable = badRequest("You cannot disable your own account")

func (s *store) adminListOrders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedOrdersLocked(func(*orderRecord) bool { return true })
}

// adminUpdateOrderStatus は1段前進かキャンセルだけ受け付ける
func (s *store) adminUpdateOrderStatus(id int64, status model.OrderStatus) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, notFound("Order not found")
	}
	to := tracking.Normalize(status)
	if !tracking.CanTransition(o.order.Status, to) {
		return model.Order{}, conflict(fmt.Sprintf("Cannot change status from %s to %s", o.order.Status, to))
	}
	o.order.Status = to
	o.events = append(o.events, model.TrackingEvent{Status: to, At: s.now()})
	return s.orderViewLocked(o), nil
}

func (s *store) adminListUsers() []model.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AdminUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, adminUserView(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// adminUpdateUser は送られてきたフィールドだけ書き換える。passwordHash は呼び出し側でハッシュ済み
func (s *store) adminUpdateUser(actor *userRecord, id int64, in model.AdminUserUpdatePayload, passwordHash string) (model.AdminUser, error) {
	if enabled, ok := in.Enabled.Get(); ok && !enabled && id == actor.id {
		return model.AdminUser{}, errSelfDisable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.AdminUser{}, notFound("User not found")
	}

	if email, ok := in.Email.Get(); ok {
		email = normalizeEmail(email)
		if !strings.Contains(email, "@") {
			return model.AdminUser{}, badRequest("Valid email is required")
		}
		if other, exists := s.userByEmailLocked(email); exists && other.id != id {
			return model.AdminUser{}, conflict("Email already registered")
		}
		u.email = email
	}
	if name, ok := in.FullName.Get(); ok {
		if strings.TrimSpace(name) == "" {
			return model.AdminUser{}, badRequest("Full name is required")
		}
		u.fullName = strings.TrimSpace(name)
	}
	if roles, ok := in.Roles.Get(); ok {
		if len(roles) == 0 {
			return model.AdminUser{}, badRequest("At least one role is required")
		}
		u.roles = append([]string(nil), roles...)
	}
	if enabled, ok := in.Enabled.Get(); ok {
		u.enabled = enabled
	}
	if passwordHash != "" {
		u.passwordHash = passwordHash
	}
	u.phone = applyOptional(in.Phone, u.phone)
	u.address = applyOptional(in.Address, u.address)
	return adminUserView(u), nil
}

// applyOptional は null なら消し、値があれば置き換え、無ければそのまま
func applyOptional(o model.Optional[string], current string) string {
	if o.IsNull() {
		return ""
	}
	if v, ok := o.Get(); ok {
		return strings.TrimSpace(v)
	}
	return current
}

func (s *store) adminSetUserAccess(actor *userRecord, id int64, enabled bool) (model.AdminUser, error) {
	if !enabled && id == actor.id {
		return model.AdminUser{}, errSelfDisable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.AdminUser{}, notFound("User not found")
	}
	u.enabled = enabled
	return adminUserView(u), nil
}

// ---- handlers ----

func (s *Server) adminListOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.adminListOrders())
}

func (s *Server) adminUpdateOrderStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req model.OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	out, err := s.store.adminUpdateOrderStatus(id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) adminListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.adminListUsers())
}

func (s *Server) adminUpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req model.AdminUserUpdatePayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}

	var hash string
	if pw, ok := req.Password.Get(); ok && pw != "" {
		if len(pw) < 8 {
			return writeError(c, badRequest("Password must be at least 8 characters"))
		}
		if hash, err = s.hasher.Hash(pw); err != nil {
			return writeError(c, err)
		}
	}

	out, err := s.store.adminUpdateUser(currentUser(c), id, req, hash)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) adminSetUserAccess(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req model.UserAccessPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	out, err := s.store.adminSetUserAccess(currentUser(c), id, req.Enabled)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
