package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	// 作成済み、支払い待ち
	CheckoutStatusInitiated CheckoutStatus = "INITIATED"
	// 支払い処理中または前回失敗（再度支払い可能）
	CheckoutStatusPaymentPending CheckoutStatus = "PAYMENT_PENDING"
	// 前回の試行が拒否された（再度支払い可能）
	CheckoutStatusFailed CheckoutStatus = "FAILED"
	// 支払い成功、まだ注文化していない
	CheckoutStatusApproved CheckoutStatus = "APPROVED"
	// 注文化済み（終端）
	CheckoutStatusConsumed CheckoutStatus = "CONSUMED"
	// 期限切れ（終端）
	CheckoutStatusExpired CheckoutStatus = "EXPIRED"
)

// CanPay は INITIATED / PAYMENT_PENDING / FAILED のときだけ true。
func (s CheckoutStatus) CanPay() bool {
	switch s {
	case CheckoutStatusInitiated, CheckoutStatusPaymentPending, CheckoutStatusFailed:
		return true
	default:
		return false
	}
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusConsumed || s == CheckoutStatusExpired
}

func (s CheckoutStatus) String() string {
	return string(s)
}

type CheckoutLineItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CheckoutSession はカート→注文変換の1回分。作成時点で価格と明細が確定している。
type CheckoutSession struct {
	CheckoutSessionID string             `json:"checkoutSessionId"`
	Status            CheckoutStatus     `json:"status"`
	Amount            decimal.Decimal    `json:"amount"`
	Items             []CheckoutLineItem `json:"items"`
	CreatedAt         time.Time          `json:"createdAt"`
	OrderID           *int64             `json:"orderId,omitempty"`
}

// POST /customers/{id}/orders/checkout のレスポンス
type CheckoutStarted struct {
	CheckoutSessionID string          `json:"checkoutSessionId"`
	Status            CheckoutStatus  `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
}

type PayRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
	CVV             string `json:"cvv"`
}

type PaymentResult struct {
	Status          PaymentStatus  `json:"status"`
	GatewayMessage  string         `json:"gatewayMessage,omitempty"`
	TransactionID   string         `json:"transactionId,omitempty"`
	CheckoutStatus  CheckoutStatus `json:"checkoutStatus,omitempty"`
	GatewayResponse string         `json:"gatewayResponseCode,omitempty"`
}

func (r PaymentResult) Approved() bool {
	return r.Status == PaymentStatusApproved
}

type FinalizeResult struct {
	OrderID     int64          `json:"orderId"`
	OrderNumber string         `json:"orderNumber"`
	Status      CheckoutStatus `json:"status"`
}
