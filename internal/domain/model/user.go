package model

import "time"

type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

// 管理者/顧客どちらの画面を出すか（クライアント側だけの切り替え）
type ViewMode string

const (
	ViewModeAdmin    ViewMode = "ADMIN"
	ViewModeCustomer ViewMode = "CUSTOMER"
)

// /auth/me と /auth/login が返すユーザー
type AuthUser struct {
	ID         int64    `json:"id"`
	Email      string   `json:"email"`
	FullName   string   `json:"fullName"`
	Roles      []string `json:"roles"`
	CustomerID *int64   `json:"customerId"`
}

func (u *AuthUser) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

type AuthResponse struct {
	TokenType                   string   `json:"tokenType"`
	AccessToken                 string   `json:"accessToken"`
	AccessTokenExpiresInSeconds int64    `json:"accessTokenExpiresInSeconds"`
	RefreshToken                string   `json:"refreshToken"`
	User                        AuthUser `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// 顧客プロフィール
type Customer struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type CustomerUpdatePayload struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// 管理画面のユーザー一覧の1行
type AdminUser struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	Roles            []string  `json:"roles"`
	Enabled          *bool     `json:"enabled,omitempty"`
	AccountNonLocked *bool     `json:"accountNonLocked,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// enabled → accountNonLocked → true の順で判定
func (u AdminUser) IsEnabled() bool {
	if u.Enabled != nil {
		return *u.Enabled
	}
	if u.AccountNonLocked != nil {
		return *u.AccountNonLocked
	}
	return true
}

// AdminUserUpdatePayload は部分更新。フィールドごとに 未指定/null/値 を区別する。
type AdminUserUpdatePayload struct {
	Email    Optional[string]   `json:"email"`
	FullName Optional[string]   `json:"fullName"`
	Password Optional[string]   `json:"password"`
	Roles    Optional[[]string] `json:"roles"`
	Enabled  Optional[bool]     `json:"enabled"`
	Phone    Optional[string]   `json:"phone"`
	Address  Optional[string]   `json:"address"`
}

type UserAccessPayload struct {
	Enabled bool `json:"enabled"`
}
