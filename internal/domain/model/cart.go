package model

import "github.com/shopspring/decimal"

// カート明細。quantity は常に1以上（0にするとサーバー側で削除）
type CartItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// 顧客ごとにACTIVEは1つ。totalAmount はサーバーが再計算した値をそのまま使う
type Cart struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customerId"`
	Items       []CartItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// バッジ表示用の合計数量
func (c *Cart) ItemCount() int64 {
	if c == nil {
		return 0
	}
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

type AddCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}
