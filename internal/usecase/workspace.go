package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	repo "storefront/internal/repository"
)

// Workspace は1端末分の画面状態（カート / 開いている決済ページ / 管理画面）
type Workspace struct {
	Cart  *CartUsecase
	Admin *AdminScreen

	mu    sync.Mutex
	pages map[string]*CheckoutPage
}

func NewWorkspace(cart *CartUsecase, admin *AdminScreen) *Workspace {
	return &Workspace{Cart: cart, Admin: admin, pages: map[string]*CheckoutPage{}}
}

// Page は開いている決済ページ（無ければ false）
func (w *Workspace) Page(sessionID string) (*CheckoutPage, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pages[sessionID]
	return p, ok
}

// SetPage はページを開き直したときに差し替える（冪等キーも新しくなる）
func (w *Workspace) SetPage(p *CheckoutPage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pages[p.SessionID()] = p
}

func (w *Workspace) ClosePages() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pages = map[string]*CheckoutPage{}
}

// AdminScreen は管理画面のメッセージと処理中の行
type AdminScreen struct {
	Notices *NoticeBoard

	mu   sync.Mutex
	busy map[string]struct{}
}

func NewAdminScreen(notices *NoticeBoard) *AdminScreen {
	return &AdminScreen{Notices: notices, busy: map[string]struct{}{}}
}

// begin は行ごとの処理中フラグ（deletingId/savingId）を立てる
func (s *AdminScreen) begin(kind string, id int64) (func(), error) {
	key := fmt.Sprintf("%s:%d", kind, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.busy[key]; ok {
		return nil, ErrAlreadyProcessing
	}
	s.busy[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.busy, key)
		s.mu.Unlock()
	}, nil
}

// Busy は処理中の行があるか
func (s *AdminScreen) Busy(kind string, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.busy[fmt.Sprintf("%s:%d", kind, id)]
	return ok
}

// Workspaces は端末IDごとの Workspace
type Workspaces struct {
	mu    sync.Mutex
	items map[string]*Workspace

	carts     repo.CartGateway
	clock     Clock
	noticeTTL time.Duration
	log       *slog.Logger
}

func NewWorkspaces(carts repo.CartGateway, clock Clock, noticeTTL time.Duration, log *slog.Logger) *Workspaces {
	return &Workspaces{
		items:     map[string]*Workspace{},
		carts:     carts,
		clock:     clock,
		noticeTTL: noticeTTL,
		log:       log,
	}
}

// Get は端末の Workspace を返す（無ければ作る）
func (ws *Workspaces) Get(device string, id Identity) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if w, ok := ws.items[device]; ok {
		return w
	}
	log := ws.log.With("device", device)
	w := NewWorkspace(
		NewCartUsecase(ws.carts, id, log),
		NewAdminScreen(NewNoticeBoard(ws.clock, ws.noticeTTL)),
	)
	ws.items[device] = w
	return w
}

// Remove は端末の Workspace を捨てる（使われなくなった端末の後始末）
func (ws *Workspaces) Remove(devices ...string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for _, d := range devices {
		delete(ws.items, d)
	}
}

func (ws *Workspaces) Len() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	return len(ws.items)
}

// mutate は管理画面の共通手順: 行ロック → 実行 → メッセージ。
// 確認待ちはメッセージに出さない。
func (s *AdminScreen) mutate(kind string, rowID int64, fn func() (string, error)) error {
	release, err := s.begin(kind, rowID)
	if err != nil {
		return err
	}
	defer release()

	text, err := fn()
	if err != nil {
		if !errors.Is(err, ErrConfirmationRequired) {
			s.Notices.Error(err)
		}
		return err
	}
	s.Notices.Success(text)
	return nil
}
