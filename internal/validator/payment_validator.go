package validator

import (
	"strings"
	"time"

	"storefront/internal/domain/model"
)

// カード追加フォームを検証（nowは有効期限年の下限に使う）
func PaymentMethod(p model.PaymentMethodPayload, now time.Time) error {
	if runeLen(strings.TrimSpace(p.CardHolderName)) < 2 {
		return invalid("cardHolderName", "Card holder name must be at least 2 characters")
	}
	digits := strings.ReplaceAll(strings.ReplaceAll(p.CardNumber, " ", ""), "-", "")
	if len(digits) < 12 || len(digits) > 19 || !allDigits(digits) {
		return invalid("cardNumber", "Card number must be 12 to 19 digits")
	}
	if runeLen(p.Brand) > 40 {
		return invalid("brand", "Brand must be at most 40 characters")
	}
	if p.ExpiryMonth < 1 || p.ExpiryMonth > 12 {
		return invalid("expiryMonth", "Expiry month must be between 1 and 12")
	}
	if p.ExpiryYear < now.Year() || p.ExpiryYear > 2100 {
		return invalid("expiryYear", "Expiry year is out of range")
	}
	if runeLen(p.BillingAddress) > 300 {
		return invalid("billingAddress", "Billing address must be at most 300 characters")
	}
	return nil
}

// 支払いの入力（支払い方法が選ばれているか + CVV）
func PayInput(paymentMethodID, cvv string) error {
	if strings.TrimSpace(paymentMethodID) == "" {
		return invalid("paymentMethodId", "Select a payment method")
	}
	return CVV(cvv)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
