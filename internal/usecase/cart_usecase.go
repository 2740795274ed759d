package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartUsecase は1端末分のカート。取得/追加/数量変更/削除/決済開始。
// 更新系は実行中 mutating=true にする（同時操作を防ぐのは呼び出し側）。
type CartUsecase struct {
	gw  repo.CartGateway
	id  Identity
	log *slog.Logger

	mu       sync.RWMutex
	cart     *model.Cart
	mutating atomic.Bool
}

func NewCartUsecase(gw repo.CartGateway, id Identity, log *slog.Logger) *CartUsecase {
	return &CartUsecase{gw: gw, id: id, log: log}
}

// Cart は最後に取得したカート（未取得/未ログインなら nil）
func (u *CartUsecase) Cart() *model.Cart {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.cart == nil {
		return nil
	}
	c := *u.cart
	return &c
}

func (u *CartUsecase) Mutating() bool {
	return u.mutating.Load()
}

// Refresh はカートを取り直す。未ログイン/顧客IDなしならカートを空にして何もしない。
func (u *CartUsecase) Refresh(ctx context.Context) (*model.Cart, error) {
	token := u.id.Token()
	cid, ok := u.id.CustomerID(ctx)
	if token == "" || !ok {
		u.set(nil)
		return nil, nil
	}

	cart, err := u.gw.GetCart(ctx, token, cid)
	if err != nil {
		return nil, err
	}
	u.set(&cart)
	return u.Cart(), nil
}

func (u *CartUsecase) AddItem(ctx context.Context, productID, quantity int64) (*model.Cart, error) {
	return u.mutate(ctx, func(token string, cid int64) (model.Cart, error) {
		return u.gw.AddCartItem(ctx, token, cid, productID, quantity)
	})
}

func (u *CartUsecase) UpdateItem(ctx context.Context, itemID, quantity int64) (*model.Cart, error) {
	return u.mutate(ctx, func(token string, cid int64) (model.Cart, error) {
		return u.gw.UpdateCartItem(ctx, token, cid, itemID, quantity)
	})
}

func (u *CartUsecase) RemoveItem(ctx context.Context, itemID int64) (*model.Cart, error) {
	return u.mutate(ctx, func(token string, cid int64) (model.Cart, error) {
		return u.gw.RemoveCartItem(ctx, token, cid, itemID)
	})
}

// Checkout はカートから決済セッションを作ってidを返す（支払いはしない）。
// 空カートはネットワークに出さずに弾く。失敗してもカートは消さない。
func (u *CartUsecase) Checkout(ctx context.Context) (model.CheckoutStarted, error) {
	token, cid, err := requireCustomer(ctx, u.id)
	if err != nil {
		return model.CheckoutStarted{}, err
	}
	if c := u.Cart(); c != nil && c.IsEmpty() {
		return model.CheckoutStarted{}, ErrCartEmpty
	}

	u.mutating.Store(true)
	defer u.mutating.Store(false)

	started, err := u.gw.Checkout(ctx, token, cid)
	if err != nil {
		return model.CheckoutStarted{}, err
	}
	u.log.Info("checkout session created",
		"customerId", cid,
		"checkoutSessionId", started.CheckoutSessionID,
		"amount", started.Amount.String(),
	)
	return started, nil
}

func (u *CartUsecase) mutate(ctx context.Context, call func(token string, cid int64) (model.Cart, error)) (*model.Cart, error) {
	token, cid, err := requireCustomer(ctx, u.id)
	if err != nil {
		return nil, err
	}

	u.mutating.Store(true)
	defer u.mutating.Store(false)

	cart, err := call(token, cid)
	if err != nil {
		return nil, err
	}
	u.set(&cart)
	return u.Cart(), nil
}

func (u *CartUsecase) set(c *model.Cart) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.cart = c
}
