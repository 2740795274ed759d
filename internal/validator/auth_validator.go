package validator

import (
	"strings"

	"storefront/internal/domain/model"
)

// ログイン入力を検証
func Login(req model.LoginRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return invalid("email", "Email is required")
	}
	if !isEmailLike(email) {
		return invalid("email", "Enter a valid email")
	}
	// パスワード最低文字数（8）
	if len(req.Password) < 8 {
		return invalid("password", "Password must be at least 8 characters")
	}
	return nil
}

// サインアップの入力を検証
func Register(p model.RegisterPayload) error {
	if runeLen(strings.TrimSpace(p.FullName)) < 2 {
		return invalid("fullName", "Full name must be at least 2 characters")
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return invalid("email", "Email is required")
	}
	if !isEmailLike(email) {
		return invalid("email", "Enter a valid email")
	}
	if len(p.Password) < 8 {
		return invalid("password", "Password must be at least 8 characters")
	}
	if runeLen(p.Phone) > 25 {
		return invalid("phone", "Phone must be at most 25 characters")
	}
	if runeLen(p.Address) > 300 {
		return invalid("address", "Address must be at most 300 characters")
	}
	return nil
}

// プロフィール更新
func CustomerUpdate(p model.CustomerUpdatePayload) error {
	if runeLen(strings.TrimSpace(p.FullName)) < 2 {
		return invalid("fullName", "Full name must be at least 2 characters")
	}
	if runeLen(p.Phone) > 25 {
		return invalid("phone", "Phone must be at most 25 characters")
	}
	if runeLen(p.Address) > 300 {
		return invalid("address", "Address must be at most 300 characters")
	}
	return nil
}
