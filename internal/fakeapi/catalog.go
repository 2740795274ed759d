package fakeapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid " + name)
	}
	return id, nil
}

func (s *store) productViewLocked(p *productRecord) model.Product {
	out := p.product
	out.ImageURLs = append([]string{}, p.product.ImageURLs...)
	if cat, ok := s.categories[p.categoryID]; ok {
		cc := *cat
		out.Category = &cc
	}
	return out
}

func (s *store) listProducts(categoryID int64) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID > 0 && p.categoryID != categoryID {
			continue
		}
		out = append(out, s.productViewLocked(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) getProduct(id int64) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return model.Product{}, notFound("Product not found")
	}
	return s.productViewLocked(p), nil
}

func (s *store) listCategories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) getCategory(id int64) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return model.Category{}, notFound("Category not found")
	}
	return *c, nil
}

func validateProductPayload(p model.ProductPayload) error {
	if strings.TrimSpace(p.Name) == "" {
		return badRequest("Product name is required")
	}
	if p.Price.IsNegative() {
		return badRequest("Price must be >= 0")
	}
	if p.StockQuantity < 0 {
		return badRequest("Stock must be >= 0")
	}
	return nil
}

func (s *store) saveProduct(id int64, in model.ProductPayload) (model.Product, error) {
	if err := validateProductPayload(in); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[in.CategoryID]; !ok {
		return model.Product{}, badRequest("Category not found")
	}

	rec, ok := s.products[id]
	if id != 0 && !ok {
		return model.Product{}, notFound("Product not found")
	}
	if id == 0 {
		rec = &productRecord{}
		rec.product.ID = s.next("product")
		s.products[rec.product.ID] = rec
	}
	rec.product.Name = strings.TrimSpace(in.Name)
	rec.product.Description = in.Description
	rec.product.Price = in.Price
	rec.product.StockQuantity = in.StockQuantity
	rec.product.Active = in.Active
	rec.product.ImageURLs = append([]string{}, in.ImageURLs...)
	rec.categoryID = in.CategoryID
	return s.productViewLocked(rec), nil
}

func (s *store) deleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return notFound("Product not found")
	}
	delete(s.products, id)
	// カートに残った行も消す
	for _, cart := range s.carts {
		kept := cart.items[:0]
		for _, it := range cart.items {
			if it.productID != id {
				kept = append(kept, it)
			}
		}
		cart.items = kept
	}
	return nil
}

func (s *store) saveCategory(id int64, in model.CategoryPayload) (model.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, badRequest("Category name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if id != 0 && !ok {
		return model.Category{}, notFound("Category not found")
	}
	if id == 0 {
		c = &model.Category{ID: s.next("category")}
		s.categories[c.ID] = c
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	return *c, nil
}

func (s *store) deleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return notFound("Category not found")
	}
	for _, p := range s.products {
		if p.categoryID == id {
			return conflict("Category still has products")
		}
	}
	delete(s.categories, id)
	return nil
}

// ---- handlers ----

func (s *Server) listProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listProducts(0))
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := s.store.getProduct(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listCategories())
}

func (s *Server) getCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	cat, err := s.store.getCategory(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) listCategoryProducts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := s.store.getCategory(id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s.store.listProducts(id))
}

func (s *Server) createProduct(c echo.Context) error {
	var req model.ProductPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	p, err := s.store.saveProduct(0, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req model.ProductPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	p, err := s.store.saveProduct(id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := s.store.deleteProduct(id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) createCategory(c echo.Context) error {
	var req model.CategoryPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	cat, err := s.store.saveCategory(0, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req model.CategoryPayload
	if err := c.Bind(&req); err != nil {
		return writeError(c, badRequest("Invalid request body"))
	}
	cat, err := s.store.saveCategory(id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := s.store.deleteCategory(id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
