package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CheckoutUsecase は決済セッションの取得/支払い/確定。
// 支払い前のチェック（支払い可能か・支払い方法・CVV）はすべてネットワークに出る前に行う。
type CheckoutUsecase struct {
	checkout repo.CheckoutGateway
	methods  repo.PaymentMethodGateway
	log      *slog.Logger
}

func NewCheckoutUsecase(checkout repo.CheckoutGateway, methods repo.PaymentMethodGateway, log *slog.Logger) *CheckoutUsecase {
	return &CheckoutUsecase{checkout: checkout, methods: methods, log: log}
}

// GetSession は決済セッションを取得する。idがUUIDでなければ通信しない。
func (u *CheckoutUsecase) GetSession(ctx context.Context, token, sessionID string) (model.CheckoutSession, error) {
	if err := validator.CheckoutID(sessionID); err != nil {
		return model.CheckoutSession{}, ErrInvalidCheckoutLink
	}
	return u.checkout.GetCheckoutSession(ctx, token, strings.TrimSpace(sessionID))
}

// Pay は1回分の支払いを投げる。拒否(DECLINED/FAILED)はエラーではなく結果として返す。
func (u *CheckoutUsecase) Pay(
	ctx context.Context,
	token string,
	session model.CheckoutSession,
	in model.PayRequest,
	idempotencyKey string,
) (model.PaymentResult, error) {
	if !session.Status.CanPay() {
		return model.PaymentResult{}, ErrNotPayable
	}
	if strings.TrimSpace(in.PaymentMethodID) == "" {
		return model.PaymentResult{}, ErrPaymentMethodRequired
	}
	if err := validator.CVV(in.CVV); err != nil {
		return model.PaymentResult{}, err
	}
	if idempotencyKey == "" {
		return model.PaymentResult{}, errors.New("idempotency key is required")
	}

	in.CVV = strings.TrimSpace(in.CVV)
	res, err := u.checkout.PayCheckoutSession(ctx, token, session.CheckoutSessionID, in, idempotencyKey)
	if err != nil {
		u.log.Warn("payment request failed",
			"checkoutSessionId", session.CheckoutSessionID,
			"err", err,
		)
		return model.PaymentResult{}, err
	}

	// CVV/カード番号はログに出さない
	u.log.Info("payment processed",
		"checkoutSessionId", session.CheckoutSessionID,
		"paymentMethodId", in.PaymentMethodID,
		"status", res.Status,
		"gatewayMessage", res.GatewayMessage,
	)
	return res, nil
}

// Finalize は APPROVED の直後だけ呼ぶ。注文が作られる。
func (u *CheckoutUsecase) Finalize(
	ctx context.Context,
	token, sessionID string,
	payment model.PaymentResult,
	idempotencyKey string,
) (model.FinalizeResult, error) {
	if !payment.Approved() {
		return model.FinalizeResult{}, ErrPaymentNotApproved
	}

	res, err := u.checkout.FinalizeCheckoutSession(ctx, token, sessionID, idempotencyKey)
	if err != nil {
		u.log.Warn("finalize failed", "checkoutSessionId", sessionID, "err", err)
		return model.FinalizeResult{}, err
	}
	u.log.Info("order placed",
		"checkoutSessionId", sessionID,
		"orderId", res.OrderID,
		"orderNumber", res.OrderNumber,
	)
	return res, nil
}

// Open は決済ページを開く。冪等キーはここで1回だけ作る。
// セッションと支払い方法は独立なので並列に取る。
func (u *CheckoutUsecase) Open(ctx context.Context, id Identity, cart *CartUsecase, sessionID string) (*CheckoutPage, error) {
	if err := validator.CheckoutID(sessionID); err != nil {
		return nil, ErrInvalidCheckoutLink
	}
	sessionID = strings.TrimSpace(sessionID)

	token, cid, err := requireCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &CheckoutPage{
		uc:             u,
		id:             id,
		cart:           cart,
		sessionID:      sessionID,
		customerID:     cid,
		idempotencyKey: uuid.NewString(),
	}
	if err := p.load(ctx, token); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *CheckoutUsecase) loadPage(ctx context.Context, token, sessionID string, customerID int64) (model.CheckoutSession, []model.PaymentMethod, error) {
	var (
		session model.CheckoutSession
		methods []model.PaymentMethod
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := u.checkout.GetCheckoutSession(gctx, token, sessionID)
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	g.Go(func() error {
		ms, err := u.methods.ListPaymentMethods(gctx, token, customerID)
		if err != nil {
			return err
		}
		methods = ms
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.CheckoutSession{}, nil, err
	}
	return session, methods, nil
}
