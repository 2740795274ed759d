package fakeapi

import (
	"net/http"
	"sort"
	"strings"
	"unicode"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *store) getCustomer(u *userRecord, id int64) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, id); err != nil {
		return model.Customer{}, err
	}
	return *s.customers[id], nil
}

func (s *store) updateCustomer(u *userRecord, id int64, in model.CustomerUpdatePayload) (model.Customer, error) {
	if len(strings.TrimSpace(in.FullName)) < 2 {
		return model.Customer{}, badRequest("Full name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, id); err != nil {
		return model.Customer{}, err
	}
	c := s.customers[id]
	c.FullName = strings.TrimSpace(in.FullName)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	return *c, nil
}

// ---- payment methods ----

func (s *store) listPaymentMethods(u *userRecord, customerID int64) ([]model.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return nil, err
	}
	return s.methodViewsLocked(customerID), nil
}

func (s *store) methodViewsLocked(customerID int64) []model.PaymentMethod {
	list := s.methods[customerID]
	out := make([]model.PaymentMethod, 0, len(list))
	for _, m := range list {
		out = append(out, *m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func cardDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
		default:
			return ""
		}
	}
	return b.String()
}

func detectBrand(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "VISA"
	case strings.HasPrefix(digits, "5"):
		return "MASTERCARD"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "AMEX"
	default:
		return "CARD"
	}
}

func (s *store) createPaymentMethod(u *userRecord, customerID int64, in model.PaymentMethodPayload) (model.PaymentMethod, error) {
	digits := cardDigits(in.CardNumber)
	if len(digits) < 12 || len(digits) > 19 {
		return model.PaymentMethod{}, badRequest("Invalid card number")
	}
	if len(strings.TrimSpace(in.CardHolderName)) < 2 {
		return model.PaymentMethod{}, badRequest("Card holder name is required")
	}
	if in.ExpiryMonth < 1 || in.ExpiryMonth > 12 {
		return model.PaymentMethod{}, badRequest("Invalid expiry month")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if in.ExpiryYear < now.Year() || (in.ExpiryYear == now.Year() && in.ExpiryMonth < int(now.Month())) {
		return model.PaymentMethod{}, badRequest("Card is expired")
	}
	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return model.PaymentMethod{}, err
	}

	brand := strings.TrimSpace(in.Brand)
	if brand == "" {
		brand = detectBrand(digits)
	}
	list := s.methods[customerID]
	m := &model.PaymentMethod{
		ID:             "pm_" + uuid.NewString(),
		Brand:          strings.ToUpper(brand),
		Last4:          digits[len(digits)-4:],
		ExpiryMonth:    in.ExpiryMonth,
		ExpiryYear:     in.ExpiryYear,
		CardHolderName: strings.TrimSpace(in.CardHolderName),
		DefaultMethod:  in.DefaultMethod || len(list) == 0,
		Enabled:        true,
		CreatedAt:      now,
	}
	if m.DefaultMethod {
		for _, other := range list {
			other.DefaultMethod = false
		}
	}
	s.methods[customerID] = append(list, m)
	return *m, nil
}

func (s *store) paymentMethodLocked(u *userRecord, customerID int64, methodID string) (*model.PaymentMethod, error) {
	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return nil, err
	}
	for _, m := range s.methods[customerID] {
		if m.ID == methodID {
			return m, nil
		}
	}
	return nil, notFound("Payment method not found")
}

func (s *store) setDefaultPaymentMethod(u *userRecord, customerID int64, methodID string) (model.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.paymentMethodLocked(u, customerID, methodID)
	if err != nil {
		return model.PaymentMethod{}, err
	}
	if !m.Enabled {
		return model.PaymentMethod{}, badRequest("Disabled payment method cannot be default")
	}
	for _, other := range s.methods[customerID] {
		other.DefaultMethod = other.ID == methodID
	}
	return *m, nil
}

func (s *store) setPaymentMethodEnabled(u *userRecord, customerID int64, methodID string, enabled bool) (model.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.paymentMethodLocked(u, customerID, methodID)
	if err != nil {
		return model.PaymentMethod{}, err
	}
	m.Enabled = enabled
	if !enabled {
		m.DefaultMethod = false
	}
	return *m, nil
}

// ---- handlers ----

func (s *Server) getCustomer(c echo.Context) error {
	id, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.getCustomer(currentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateCustomer(c echo.Context) error {
	id, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	var req model.CustomerUpdatePayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	out, err := s.store.updateCustomer(currentUser(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listPaymentMethods(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.listPaymentMethods(currentUser(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createPaymentMethod(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	var req model.PaymentMethodPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	out, err := s.store.createPaymentMethod(currentUser(c), customerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (s *Server) setDefaultPaymentMethod(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.store.setDefaultPaymentMethod(currentUser(c), customerID, c.Param("methodId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) setPaymentMethodEnabled(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	var req model.PaymentMethodEnabledRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	out, err := s.store.setPaymentMethodEnabled(currentUser(c), customerID, c.Param("methodId"), req.Enabled)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
