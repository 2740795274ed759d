package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/golang-jwt/jwt/v4"
)

// 端末ごとの保存キー
const (
	AuthKey     = "ecommerce_auth"
	ViewModeKey = "ecommerce_view_mode"
)

// Store は1端末分の認証状態 { user, token, viewMode } を持つ。
// 初期化は 復元 → me で再検証 → ready の順。更新はすべてこの型のメソッド経由。
type Store struct {
	mu sync.Mutex
	// 代替顧客IDの問い合わせを1本に絞る。mu より先に取る
	lookupMu sync.Mutex

	device    string
	auth      repository.AuthGateway
	customers repository.CustomerGateway
	storage   repository.StorageRepository
	log       *slog.Logger

	ready    bool
	stored   *model.AuthResponse
	user     *model.AuthUser
	token    string
	viewMode model.ViewMode

	// 管理者が顧客ビューを使うときの代替顧客ID
	fallbackCustomerID *int64
	lookedUpUserID     int64
}

func NewStore(
	device string,
	auth repository.AuthGateway,
	customers repository.CustomerGateway,
	storage repository.StorageRepository,
	log *slog.Logger,
) *Store {
	return &Store{
		device:    device,
		auth:      auth,
		customers: customers,
		storage:   storage,
		log:       log.With("device", device),
		viewMode:  model.ViewModeCustomer,
	}
}

// Snapshot は画面に渡す派生値込みの状態
type Snapshot struct {
	User                   *model.AuthUser `json:"user"`
	ViewMode               model.ViewMode  `json:"viewMode"`
	HasAdminRole           bool            `json:"hasAdminRole"`
	IsAdmin                bool            `json:"isAdmin"`
	EffectiveCustomerID    *int64          `json:"effectiveCustomerId"`
	CanUseCustomerFeatures bool            `json:"canUseCustomerFeatures"`
	Ready                  bool            `json:"ready"`
}

// Init は保存済みセッションを復元して me で再検証する。2回目以降は何もしない。
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	raw, err := s.storage.Get(ctx, s.device, AuthKey)
	if errors.Is(err, repository.ErrNotFound) {
		s.ready = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var stored model.AuthResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.AccessToken == "" {
		s.log.Warn("stored session is broken; purge")
		if err := s.purgeLocked(ctx); err != nil {
			return err
		}
		s.ready = true
		return nil
	}

	// 期限切れが分かるならネットワークを使わずに捨てる
	if tokenExpired(stored.AccessToken, time.Now()) {
		s.log.Info("stored token expired; purge")
		if err := s.purgeLocked(ctx); err != nil {
			return err
		}
		s.ready = true
		return nil
	}

	preferred, err := s.storedViewModeLocked(ctx)
	if err != nil {
		return err
	}
	s.applyLocked(&stored, stored.User)
	s.viewMode = normalizeViewMode(&stored.User, preferred)

	user, err := s.auth.Me(ctx, stored.AccessToken)
	if err != nil {
		s.log.Info("session revalidation failed; purge", "err", err)
		if err := s.purgeLocked(ctx); err != nil {
			return err
		}
		s.ready = true
		return nil
	}

	s.setUserLocked(user)
	s.ready = true
	return nil
}

func (s *Store) Login(ctx context.Context, req model.LoginRequest) (Snapshot, error) {
	if err := validator.Login(req); err != nil {
		return Snapshot{}, err
	}
	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return Snapshot{}, err
	}
	return s.signIn(ctx, res)
}

func (s *Store) Register(ctx context.Context, payload model.RegisterPayload) (Snapshot, error) {
	if err := validator.Register(payload); err != nil {
		return Snapshot{}, err
	}
	res, err := s.auth.Register(ctx, payload)
	if err != nil {
		return Snapshot{}, err
	}
	return s.signIn(ctx, res)
}

func (s *Store) signIn(ctx context.Context, res model.AuthResponse) (Snapshot, error) {
	err := s.update(func() error {
		if err := s.persistAuthLocked(ctx, res); err != nil {
			return err
		}
		preferred, err := s.storedViewModeLocked(ctx)
		if err != nil {
			return err
		}
		s.applyLocked(&res, res.User)
		mode := normalizeViewMode(&res.User, preferred)
		if err := s.storage.Set(ctx, s.device, ViewModeKey, string(mode)); err != nil {
			return fmt.Errorf("save view mode: %w", err)
		}
		s.viewMode = mode
		s.ready = true
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	s.log.Info("signed in", "userId", res.User.ID)
	return s.Snapshot(ctx), nil
}

// RefreshUser は保存済みトークンでユーザーを取り直す。トークンが無ければ何もしない。
func (s *Store) RefreshUser(ctx context.Context) (Snapshot, error) {
	err := s.update(func() error {
		if s.token == "" {
			return nil
		}
		user, err := s.auth.Me(ctx, s.token)
		if err != nil {
			return err
		}
		s.setUserLocked(user)

		if s.stored != nil {
			next := *s.stored
			next.User = user
			next.AccessToken = s.token
			return s.persistAuthLocked(ctx, next)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(ctx), nil
}

// ToggleViewMode は管理者ロールのときだけ ADMIN/CUSTOMER を切り替える。
func (s *Store) ToggleViewMode(ctx context.Context) (Snapshot, error) {
	err := s.update(func() error {
		if !hasAdminRole(s.user) {
			return nil
		}
		next := model.ViewModeAdmin
		if s.viewMode == model.ViewModeAdmin {
			next = model.ViewModeCustomer
		}
		if err := s.storage.Set(ctx, s.device, ViewModeKey, string(next)); err != nil {
			return fmt.Errorf("save view mode: %w", err)
		}
		s.viewMode = next
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(ctx), nil
}

func (s *Store) SetViewMode(ctx context.Context, mode model.ViewMode) (Snapshot, error) {
	err := s.update(func() error {
		normalized := normalizeViewMode(s.user, string(mode))
		if err := s.storage.Set(ctx, s.device, ViewModeKey, string(normalized)); err != nil {
			return fmt.Errorf("save view mode: %w", err)
		}
		s.viewMode = normalized
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(ctx), nil
}

// Logout は保存済みの状態をすべて消す。
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.purgeLocked(ctx)
}

func (s *Store) Snapshot(ctx context.Context) Snapshot {
	s.resolveFallback(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// update は fn を状態ロックの中で実行する
func (s *Store) update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn()
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

func (s *Store) User() *model.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// CustomerID はカート/注文で使う顧客ID（顧客ビューのときだけ）
func (s *Store) CustomerID(ctx context.Context) (int64, bool) {
	s.resolveFallback(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.effectiveCustomerIDLocked()
	if id == nil {
		return 0, false
	}
	return *id, true
}

func (s *Store) snapshotLocked() Snapshot {
	admin := hasAdminRole(s.user)
	cid := s.effectiveCustomerIDLocked()
	var user *model.AuthUser
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{
		User:                   user,
		ViewMode:               s.viewMode,
		HasAdminRole:           admin,
		IsAdmin:                admin && s.viewMode == model.ViewModeAdmin,
		EffectiveCustomerID:    cid,
		CanUseCustomerFeatures: cid != nil,
		Ready:                  s.ready,
	}
}

func (s *Store) effectiveCustomerIDLocked() *int64 {
	if s.viewMode != model.ViewModeCustomer || s.user == nil {
		return nil
	}
	if s.user.CustomerID != nil {
		id := *s.user.CustomerID
		return &id
	}
	if s.fallbackCustomerID != nil {
		id := *s.fallbackCustomerID
		return &id
	}
	return nil
}

// 顧客プロフィールを持たない管理者は、自分のユーザーIDで顧客を1回だけ探す。
// 通信中は mu を持たない。
func (s *Store) resolveFallback(ctx context.Context) {
	s.lookupMu.Lock()
	defer s.lookupMu.Unlock()

	s.mu.Lock()
	token, userID, ok := s.fallbackTargetLocked()
	if ok {
		s.lookedUpUserID = userID
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	c, err := s.customers.GetCustomer(ctx, token, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// 問い合わせ中にログアウトや別ユーザーへの切り替えがあれば結果は捨てる
	if s.user == nil || s.user.ID != userID || s.token != token || s.lookedUpUserID != userID {
		return
	}
	if err != nil {
		s.log.Debug("fallback customer lookup failed", "userId", userID, "err", err)
		s.fallbackCustomerID = nil
		return
	}
	id := c.ID
	s.fallbackCustomerID = &id
}

func (s *Store) fallbackTargetLocked() (string, int64, bool) {
	if s.token == "" || s.user == nil || s.user.ID == 0 {
		return "", 0, false
	}
	if s.viewMode != model.ViewModeCustomer || !hasAdminRole(s.user) || s.user.CustomerID != nil {
		return "", 0, false
	}
	if s.lookedUpUserID == s.user.ID {
		return "", 0, false
	}
	return s.token, s.user.ID, true
}

func (s *Store) applyLocked(res *model.AuthResponse, user model.AuthUser) {
	s.stored = res
	s.token = res.AccessToken
	s.setUserLocked(user)
}

// ユーザーが変わったら代替顧客IDの探索もやり直す
func (s *Store) setUserLocked(user model.AuthUser) {
	u := user
	s.user = &u
	s.fallbackCustomerID = nil
	if u.CustomerID != nil {
		id := *u.CustomerID
		s.fallbackCustomerID = &id
	}
	s.lookedUpUserID = 0
	s.viewMode = normalizeViewMode(s.user, string(s.viewMode))
}

func (s *Store) persistAuthLocked(ctx context.Context, res model.AuthResponse) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.device, AuthKey, string(b)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.stored = &res
	return nil
}

func (s *Store) storedViewModeLocked(ctx context.Context) (string, error) {
	v, err := s.storage.Get(ctx, s.device, ViewModeKey)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load view mode: %w", err)
	}
	return v, nil
}

func (s *Store) purgeLocked(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.device, AuthKey, ViewModeKey); err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	s.stored = nil
	s.user = nil
	s.token = ""
	s.viewMode = model.ViewModeCustomer
	s.fallbackCustomerID = nil
	s.lookedUpUserID = 0
	return nil
}

func hasAdminRole(u *model.AuthUser) bool {
	return u != nil && u.HasRole(model.RoleAdmin)
}

// 管理者以外は常に CUSTOMER。管理者は保存された希望（無ければ ADMIN）
func normalizeViewMode(u *model.AuthUser, preferred string) model.ViewMode {
	if !hasAdminRole(u) {
		return model.ViewModeCustomer
	}
	if preferred == string(model.ViewModeCustomer) {
		return model.ViewModeCustomer
	}
	return model.ViewModeAdmin
}

// 署名は検証しない（検証はAPI側）。exp が読めて過去なら期限切れ。
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(now)
}

// IsAdmin は管理者ロール かつ 管理者ビュー
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return hasAdminRole(s.user) && s.viewMode == model.ViewModeAdmin
}
