package fakeapi

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge の結果。承認以外も error ではなく結果として返す
type ChargeResult struct {
	Status        model.PaymentStatus
	ResponseCode  string
	Message       string
	TransactionID string
}

// PaymentGateway はカード決済の外部サービス
type PaymentGateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, method model.PaymentMethod, cvv string) (ChargeResult, error)
}

// MockGateway は末尾番号で結果を決めるテスト用ゲートウェイ
//
//	0000 -> FAILED (Insufficient funds)
//	0002 -> DECLINED (Card declined)
//	その他 -> APPROVED
type MockGateway struct{}

func (MockGateway) Charge(_ context.Context, _ decimal.Decimal, method model.PaymentMethod, _ string) (ChargeResult, error) {
	switch method.Last4 {
	case "0000":
		return ChargeResult{Status: model.PaymentStatusFailed, ResponseCode: "51", Message: "Insufficient funds"}, nil
	case "0002":
		return ChargeResult{Status: model.PaymentStatusDeclined, ResponseCode: "05", Message: "Card declined"}, nil
	}
	return ChargeResult{
		Status:        model.PaymentStatusApproved,
		ResponseCode:  "00",
		Message:       "Approved",
		TransactionID: "txn_" + uuid.NewString(),
	}, nil
}
