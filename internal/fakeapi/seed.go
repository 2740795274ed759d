package fakeapi

import (
	"fmt"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// デモ用アカウント
const (
	DemoAdminEmail       = "admin@example.com"
	DemoAdminPassword    = "admin-pass-123"
	DemoCustomerEmail    = "customer@example.com"
	DemoCustomerPassword = "customer-pass-123"
)

// SeedDemoData は管理者1人（顧客プロフィール付き）、顧客1人、カテゴリ2つ、商品3つを入れる。
// 管理者の顧客IDはユーザーIDと同じになる。
func (s *Server) SeedDemoData() error {
	users := []struct {
		email, password, name string
		roles                 []string
	}{
		{DemoAdminEmail, DemoAdminPassword, "Demo Admin", []string{string(model.RoleAdmin), string(model.RoleCustomer)}},
		{DemoCustomerEmail, DemoCustomerPassword, "Demo Customer", []string{string(model.RoleCustomer)}},
	}
	for _, u := range users {
		hash, err := s.hasher.Hash(u.password)
		if err != nil {
			return err
		}
		if _, err := s.store.createUser(newUserInput{
			email:        u.email,
			fullName:     u.name,
			passwordHash: hash,
			roles:        u.roles,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	coffee, err := s.store.saveCategory(0, model.CategoryPayload{Name: "Coffee", Description: "Beans and blends"})
	if err != nil {
		return err
	}
	gear, err := s.store.saveCategory(0, model.CategoryPayload{Name: "Gear"})
	if err != nil {
		return err
	}

	products := []model.ProductPayload{
		{Name: "House Blend", Description: "Medium roast", Price: decimal.NewFromInt(100), StockQuantity: 50, CategoryID: coffee.ID, Active: true},
		{Name: "Paper Filters", Price: decimal.NewFromInt(50), StockQuantity: 100, CategoryID: gear.ID, Active: true},
		{Name: "Hand Grinder", Price: decimal.RequireFromString("89.90"), StockQuantity: 5, CategoryID: gear.ID, Active: true},
	}
	for _, p := range products {
		if _, err := s.store.saveProduct(0, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	return nil
}
