package model

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
	Active        bool            `json:"active"`
	ImageURLs     []string        `json:"imageUrls"`
	Category      *Category       `json:"category,omitempty"`
}

type CategoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// 商品の作成/更新フォーム
type ProductPayload struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
	CategoryID    int64           `json:"categoryId"`
	ImageURLs     []string        `json:"imageUrls"`
	Active        bool            `json:"active"`
}
