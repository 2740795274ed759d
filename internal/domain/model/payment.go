package model

import "time"

type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "APPROVED"
	PaymentStatusDeclined PaymentStatus = "DECLINED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// 保存済みカードの参照。カード番号そのものは持たない
type PaymentMethod struct {
	ID             string    `json:"id"`
	Brand          string    `json:"brand"`
	Last4          string    `json:"last4"`
	ExpiryMonth    int       `json:"expiryMonth"`
	ExpiryYear     int       `json:"expiryYear"`
	CardHolderName string    `json:"cardHolderName"`
	DefaultMethod  bool      `json:"defaultMethod"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"createdAt"`
}

type PaymentMethodPayload struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	Brand          string `json:"brand,omitempty"`
	ExpiryMonth    int    `json:"expiryMonth"`
	ExpiryYear     int    `json:"expiryYear"`
	BillingAddress string `json:"billingAddress,omitempty"`
	DefaultMethod  bool   `json:"defaultMethod,omitempty"`
}

type PaymentMethodEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ゲートウェイ呼び出し1回の記録。作成後は変更されない
type PaymentTransaction struct {
	ID                  string        `json:"id"`
	Status              PaymentStatus `json:"status"`
	GatewayResponseCode string        `json:"gatewayResponseCode,omitempty"`
	GatewayMessage      string        `json:"gatewayMessage,omitempty"`
	ProcessedAt         time.Time     `json:"processedAt"`
}

// DefaultPaymentMethod はサーバーのdefaultフラグを信用しすぎない。
// default かつ有効 → 最初の有効 → なし の順。
func DefaultPaymentMethod(methods []PaymentMethod) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.DefaultMethod && m.Enabled {
			return m, true
		}
	}
	for _, m := range methods {
		if m.Enabled {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

func FindPaymentMethod(methods []PaymentMethod, id string) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}
