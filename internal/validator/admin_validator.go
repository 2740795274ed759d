package validator

import (
	"net/url"
	"strings"

	"storefront/internal/domain/model"
)

const maxProductImages = 12

// 商品フォーム
func Product(p model.ProductPayload) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "Name is required")
	}
	if runeLen(p.Description) > 2000 {
		return invalid("description", "Description must be at most 2000 characters")
	}
	if p.Price.IsNegative() {
		return invalid("price", "Price must be 0 or greater")
	}
	if p.StockQuantity < 0 {
		return invalid("stockQuantity", "Stock must be 0 or greater")
	}
	if p.CategoryID <= 0 {
		return invalid("categoryId", "Category is required")
	}
	if len(p.ImageURLs) > maxProductImages {
		return invalid("imageUrls", "At most 12 images are allowed")
	}
	for _, raw := range p.ImageURLs {
		if !isHTTPURL(raw) {
			return invalid("imageUrls", "Image URLs must be absolute http(s) URLs")
		}
	}
	return nil
}

// カテゴリフォーム
func Category(p model.CategoryPayload) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "Name is required")
	}
	return nil
}

// ユーザー編集フォーム（未指定のフィールドは検証しない）
func AdminUserUpdate(p model.AdminUserUpdatePayload) error {
	if !p.Email.IsAbsent() {
		email, ok := p.Email.Get()
		if !ok || strings.TrimSpace(email) == "" {
			return invalid("email", "Email is required")
		}
		if !isEmailLike(strings.TrimSpace(email)) {
			return invalid("email", "Enter a valid email")
		}
	}
	if !p.FullName.IsAbsent() {
		name, ok := p.FullName.Get()
		if !ok || strings.TrimSpace(name) == "" {
			return invalid("fullName", "Full name is required")
		}
	}
	if pw, ok := p.Password.Get(); ok && pw != "" && len(pw) < 8 {
		return invalid("password", "Password must be at least 8 characters")
	}
	if !p.Roles.IsAbsent() {
		roles, _ := p.Roles.Get()
		if len(roles) == 0 {
			return invalid("roles", "Select at least one role")
		}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
