package fakeapi

import (
	"net/http"
	"sort"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// orderViewLocked は注文に顧客情報を添える
func (s *store) orderViewLocked(o *orderRecord) model.Order {
	out := o.order
	out.Items = append([]model.OrderItem{}, o.order.Items...)
	if out.CustomerID != nil {
		if c, ok := s.customers[*out.CustomerID]; ok {
			out.Customer = &model.OrderCustomer{ID: c.ID, FullName: c.FullName, Email: c.Email}
		}
	}
	return out
}

func (s *store) sortedOrdersLocked(keep func(*orderRecord) bool) []model.Order {
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, s.orderViewLocked(o))
		}
	}
	// 新しい順
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *store) listCustomerOrders(u *userRecord, customerID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return nil, err
	}
	return s.sortedOrdersLocked(func(o *orderRecord) bool {
		return o.order.CustomerID != nil && *o.order.CustomerID == customerID
	}), nil
}

func (s *store) orderLocked(u *userRecord, id int64) (*orderRecord, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, notFound("Order not found")
	}
	if u.isAdmin() {
		return o, nil
	}
	if o.order.CustomerID == nil {
		return nil, errForbidden
	}
	if err := s.canAccessCustomerLocked(u, *o.order.CustomerID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *store) getOrder(u *userRecord, id int64) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.orderLocked(u, id)
	if err != nil {
		return model.Order{}, err
	}
	return s.orderViewLocked(o), nil
}

func (s *store) getTracking(u *userRecord, id int64) (model.OrderTracking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.orderLocked(u, id)
	if err != nil {
		return model.OrderTracking{}, err
	}
	approved := false
	for _, p := range o.payments {
		if p.Status == model.PaymentStatusApproved {
			approved = true
			break
		}
	}
	return model.OrderTracking{
		OrderID:         o.order.ID,
		Status:          o.order.Status,
		PaymentApproved: approved,
		Events:          append([]model.TrackingEvent{}, o.events...),
	}, nil
}

func (s *store) listOrderPayments(u *userRecord, id int64) ([]model.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.orderLocked(u, id)
	if err != nil {
		return nil, err
	}
	return append([]model.PaymentTransaction{}, o.payments...), nil
}

// ---- handlers ----

func (s *Server) listCustomerOrders(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.listCustomerOrders(currentUser(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getOrder(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.getOrder(currentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getOrderTracking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.getTracking(currentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listOrderPayments(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.listOrderPayments(currentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
