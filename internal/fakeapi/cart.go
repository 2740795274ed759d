package fakeapi

import (
	"net/http"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func (s *store) cartLocked(customerID int64) *cartRecord {
	cart, ok := s.carts[customerID]
	if !ok {
		cart = &cartRecord{id: s.next("cart"), customerID: customerID}
		s.carts[customerID] = cart
	}
	return cart
}

// cartViewLocked は現在の商品価格で小計と合計を計算し直す
func (s *store) cartViewLocked(cart *cartRecord) model.Cart {
	out := model.Cart{
		ID:          cart.id,
		CustomerID:  cart.customerID,
		Items:       make([]model.CartItem, 0, len(cart.items)),
		TotalAmount: decimal.Zero,
	}
	for _, it := range cart.items {
		p, ok := s.products[it.productID]
		if !ok {
			continue
		}
		subtotal := p.product.Price.Mul(decimal.NewFromInt(it.quantity))
		out.Items = append(out.Items, model.CartItem{
			ID:          it.id,
			ProductID:   it.productID,
			ProductName: p.product.Name,
			Quantity:    it.quantity,
			UnitPrice:   p.product.Price,
			Subtotal:    subtotal,
		})
		out.TotalAmount = out.TotalAmount.Add(subtotal)
	}
	return out
}

func (s *store) getCart(u *userRecord, customerID int64) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return model.Cart{}, err
	}
	return s.cartViewLocked(s.cartLocked(customerID)), nil
}

func (s *store) addCartItem(u *userRecord, customerID, productID, quantity int64) (model.Cart, error) {
	if quantity < 1 {
		return model.Cart{}, badRequest("Quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return model.Cart{}, err
	}
	p, ok := s.products[productID]
	if !ok || !p.product.Active {
		return model.Cart{}, notFound("Product not found")
	}

	cart := s.cartLocked(customerID)
	var line *cartItemRecord
	for _, it := range cart.items {
		if it.productID == productID {
			line = it
			break
		}
	}
	want := quantity
	if line != nil {
		want += line.quantity
	}
	if want > p.product.StockQuantity {
		return model.Cart{}, badRequest("Insufficient stock")
	}

	if line == nil {
		cart.items = append(cart.items, &cartItemRecord{id: s.next("cartItem"), productID: productID, quantity: quantity})
	} else {
		line.quantity = want
	}
	return s.cartViewLocked(cart), nil
}

func (s *store) updateCartItem(u *userRecord, customerID, itemID, quantity int64) (model.Cart, error) {
	if quantity < 1 {
		return model.Cart{}, badRequest("Quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return model.Cart{}, err
	}
	cart := s.cartLocked(customerID)
	for _, it := range cart.items {
		if it.id != itemID {
			continue
		}
		if p, ok := s.products[it.productID]; ok && quantity > p.product.StockQuantity {
			return model.Cart{}, badRequest("Insufficient stock")
		}
		it.quantity = quantity
		return s.cartViewLocked(cart), nil
	}
	return model.Cart{}, notFound("Cart item not found")
}

func (s *store) removeCartItem(u *userRecord, customerID, itemID int64) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAccessCustomerLocked(u, customerID); err != nil {
		return model.Cart{}, err
	}
	cart := s.cartLocked(customerID)
	for i, it := range cart.items {
		if it.id == itemID {
			cart.items = append(cart.items[:i], cart.items[i+1:]...)
			return s.cartViewLocked(cart), nil
		}
	}
	return model.Cart{}, notFound("Cart item not found")
}

// ---- handlers ----

func (s *Server) getCart(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	cart, err := s.store.getCart(currentUser(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) addCartItem(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	var req model.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	cart, err := s.store.addCartItem(currentUser(c), customerID, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) updateCartItem(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return writeError(c, err)
	}
	var req model.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	cart, err := s.store.updateCartItem(currentUser(c), customerID, itemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (s *Server) removeCartItem(c echo.Context) error {
	customerID, err := parseID(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return writeError(c, err)
	}
	cart, err := s.store.removeCartItem(currentUser(c), customerID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}
