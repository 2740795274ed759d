package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/validator"

	"github.com/google/uuid"
)

// CheckoutPage は開いている決済ページ1枚分の状態。
// 冪等キーはページを開いたときに作り、同じ支払いの再送では使い回す。
// 拒否が確定したら次の試行は別の支払いなのでキーを作り直す。
type CheckoutPage struct {
	uc         *CheckoutUsecase
	id         Identity
	cart       *CartUsecase
	sessionID  string
	customerID int64

	mu               sync.Mutex
	idempotencyKey   string
	session          model.CheckoutSession
	methods          []model.PaymentMethod
	selectedMethodID string
	processing       bool
	savingMethod     bool
	lastPayment      *model.PaymentResult
	approved         *model.PaymentResult
	order            *model.FinalizeResult
	message          string
	errMsg           string
}

// CheckoutView は画面に返す形
type CheckoutView struct {
	Session          model.CheckoutSession `json:"session"`
	CanPay           bool                  `json:"canPay"`
	PaymentMethods   []model.PaymentMethod `json:"paymentMethods"`
	SelectedMethodID string                `json:"selectedPaymentMethodId,omitempty"`
	Processing       bool                  `json:"processing"`
	SavingMethod     bool                  `json:"savingMethod"`
	LastPayment      *model.PaymentResult  `json:"lastPayment,omitempty"`
	Order            *model.FinalizeResult `json:"order,omitempty"`
	Message          string                `json:"message,omitempty"`
	Error            string                `json:"error,omitempty"`
}

// PayOutcome は Pay 1回分の結果
type PayOutcome struct {
	Payment  model.PaymentResult   `json:"payment"`
	Declined bool                  `json:"declined"`
	Order    *model.FinalizeResult `json:"order,omitempty"`
	Message  string                `json:"message"`
}

func (p *CheckoutPage) SessionID() string {
	return p.sessionID
}

func (p *CheckoutPage) View() CheckoutView {
	p.mu.Lock()
	defer p.mu.Unlock()

	methods := make([]model.PaymentMethod, len(p.methods))
	copy(methods, p.methods)
	return CheckoutView{
		Session:          p.session,
		CanPay:           p.canPayLocked(),
		PaymentMethods:   methods,
		SelectedMethodID: p.selectedMethodID,
		Processing:       p.processing,
		SavingMethod:     p.savingMethod,
		LastPayment:      p.lastPayment,
		Order:            p.order,
		Message:          p.message,
		Error:            p.errMsg,
	}
}

// Reload はセッションと支払い方法を取り直す（冪等キーはそのまま）
func (p *CheckoutPage) Reload(ctx context.Context) (CheckoutView, error) {
	token, err := requireToken(p.id)
	if err != nil {
		return CheckoutView{}, err
	}
	if err := p.load(ctx, token); err != nil {
		p.mu.Lock()
		p.errMsg = err.Error()
		p.mu.Unlock()
		return CheckoutView{}, err
	}
	return p.View(), nil
}

func (p *CheckoutPage) SelectMethod(methodID string) (CheckoutView, error) {
	p.mu.Lock()
	err := p.selectLocked(methodID)
	p.mu.Unlock()
	if err != nil {
		return CheckoutView{}, err
	}
	return p.View(), nil
}

// Pay は支払い → APPROVED なら続けて確定 → カート再取得。
// methodID が空なら選択中の支払い方法を使う。
func (p *CheckoutPage) Pay(ctx context.Context, methodID, cvv string) (PayOutcome, error) {
	token, err := requireToken(p.id)
	if err != nil {
		return PayOutcome{}, err
	}

	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		return PayOutcome{}, ErrAlreadyProcessing
	}
	// 注文化済みのページからは二度と払わない
	if p.order != nil {
		p.mu.Unlock()
		return PayOutcome{}, ErrNotPayable
	}

	// 承認済みで確定だけ失敗している → 同じキーで確定をやり直す
	if p.approved != nil && p.order == nil {
		payment := *p.approved
		key := p.idempotencyKey
		p.startLocked()
		p.mu.Unlock()
		return p.finalize(ctx, token, payment, key)
	}

	if methodID != "" {
		if err := p.selectLocked(methodID); err != nil {
			p.mu.Unlock()
			return PayOutcome{}, err
		}
	}
	session := p.session
	in := model.PayRequest{PaymentMethodID: p.selectedMethodID, CVV: cvv}
	key := p.idempotencyKey
	p.startLocked()
	p.mu.Unlock()

	res, err := p.uc.Pay(ctx, token, session, in, key)
	if err != nil {
		p.fail(ctx, token, err)
		return PayOutcome{}, err
	}

	if !res.Approved() {
		msg := res.GatewayMessage
		if msg == "" {
			msg = "Payment declined."
		}
		p.mu.Lock()
		p.lastPayment = &res
		p.applyStatusLocked(res.CheckoutStatus)
		p.errMsg = msg
		// 拒否は確定した結果なので、次の試行は新しいキー
		p.idempotencyKey = uuid.NewString()
		p.mu.Unlock()

		p.refreshSession(ctx, token)
		p.done()
		return PayOutcome{Payment: res, Declined: true, Message: msg}, nil
	}

	p.mu.Lock()
	p.lastPayment = &res
	p.approved = &res
	p.applyStatusLocked(res.CheckoutStatus)
	p.mu.Unlock()

	return p.finalize(ctx, token, res, key)
}

// AddPaymentMethod はカードを登録して、そのカードを選択状態にする
func (p *CheckoutPage) AddPaymentMethod(ctx context.Context, payload model.PaymentMethodPayload) (CheckoutView, error) {
	token, err := requireToken(p.id)
	if err != nil {
		return CheckoutView{}, err
	}
	if err := validator.PaymentMethod(payload, time.Now()); err != nil {
		return CheckoutView{}, err
	}

	p.mu.Lock()
	if p.savingMethod {
		p.mu.Unlock()
		return CheckoutView{}, ErrAlreadyProcessing
	}
	p.savingMethod = true
	p.message, p.errMsg = "", ""
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.savingMethod = false
		p.mu.Unlock()
	}()

	created, err := p.uc.methods.CreatePaymentMethod(ctx, token, p.customerID, payload)
	if err != nil {
		p.mu.Lock()
		p.errMsg = err.Error()
		p.mu.Unlock()
		return CheckoutView{}, err
	}
	methods, err := p.uc.methods.ListPaymentMethods(ctx, token, p.customerID)
	if err != nil {
		p.mu.Lock()
		p.errMsg = err.Error()
		p.mu.Unlock()
		return CheckoutView{}, err
	}

	p.mu.Lock()
	p.methods = methods
	p.selectedMethodID = created.ID
	p.message = "Payment method added. You can pay now."
	p.mu.Unlock()
	return p.View(), nil
}

func (p *CheckoutPage) finalize(ctx context.Context, token string, payment model.PaymentResult, key string) (PayOutcome, error) {
	fin, err := p.uc.Finalize(ctx, token, p.sessionID, payment, key)
	if err != nil {
		p.fail(ctx, token, err)
		return PayOutcome{Payment: payment}, err
	}

	msg := fmt.Sprintf("Payment approved. Order %s has been placed.", fin.OrderNumber)
	p.mu.Lock()
	p.order = &fin
	p.message = msg
	// 取り直しに失敗しても終端として扱う
	if fin.Status != "" {
		p.applyStatusLocked(fin.Status)
	} else {
		p.applyStatusLocked(model.CheckoutStatusConsumed)
	}
	orderID := fin.OrderID
	p.session.OrderID = &orderID
	p.mu.Unlock()

	// カートはサーバー側で空になっているので取り直す
	if p.cart != nil {
		if _, err := p.cart.Refresh(ctx); err != nil {
			p.uc.log.Warn("cart refresh after checkout failed", "err", err)
		}
	}
	p.refreshSession(ctx, token)
	p.done()
	return PayOutcome{Payment: payment, Order: &fin, Message: msg}, nil
}

func (p *CheckoutPage) load(ctx context.Context, token string) error {
	session, methods, err := p.uc.loadPage(ctx, token, p.sessionID, p.customerID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.session = session
	p.methods = methods
	if m, ok := model.FindPaymentMethod(methods, p.selectedMethodID); !ok || !m.Enabled {
		p.selectedMethodID = ""
		if def, ok := model.DefaultPaymentMethod(methods); ok {
			p.selectedMethodID = def.ID
		}
	}
	return nil
}

// エラー後はサーバーの状態を正とするのでセッションを取り直す。
// ネットワークに出ていない入力エラーでは取り直さない。
func (p *CheckoutPage) fail(ctx context.Context, token string, err error) {
	p.mu.Lock()
	p.errMsg = err.Error()
	p.mu.Unlock()

	if !isLocalError(err) {
		p.refreshSession(ctx, token)
	}
	p.done()
}

func (p *CheckoutPage) refreshSession(ctx context.Context, token string) {
	s, err := p.uc.checkout.GetCheckoutSession(ctx, token, p.sessionID)
	if err != nil {
		p.uc.log.Warn("checkout session refetch failed", "checkoutSessionId", p.sessionID, "err", err)
		return
	}
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
}

// 承認済みで確定待ちのときは確定のやり直しとして押せる
func (p *CheckoutPage) canPayLocked() bool {
	if p.order != nil || p.processing {
		return false
	}
	return p.session.Status.CanPay() || p.approved != nil
}

// サーバーが返した状態をそのまま反映する（空なら何もしない）
func (p *CheckoutPage) applyStatusLocked(status model.CheckoutStatus) {
	if status != "" {
		p.session.Status = status
	}
}

func (p *CheckoutPage) selectLocked(methodID string) error {
	m, ok := model.FindPaymentMethod(p.methods, methodID)
	if !ok || !m.Enabled {
		return ErrPaymentMethodUnavailable
	}
	p.selectedMethodID = m.ID
	return nil
}

func (p *CheckoutPage) startLocked() {
	p.processing = true
	p.message, p.errMsg = "", ""
}

func (p *CheckoutPage) done() {
	p.mu.Lock()
	p.processing = false
	p.mu.Unlock()
}

func isLocalError(err error) bool {
	if _, ok := validator.AsValidationError(err); ok {
		return true
	}
	for _, target := range []error{
		ErrNotPayable, ErrPaymentMethodRequired, ErrPaymentMethodUnavailable,
		ErrPaymentNotApproved, ErrSignInRequired, ErrCustomerRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
