package usecase

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock は実時間
var SystemClock Clock = systemClock{}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice は管理画面の一時メッセージ
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Text      string     `json:"text"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// NoticeBoard は最後のメッセージを1件だけ持ち、ttl 経過で消える。
type NoticeBoard struct {
	mu     sync.Mutex
	clock  Clock
	ttl    time.Duration
	notice *Notice
}

func NewNoticeBoard(clock Clock, ttl time.Duration) *NoticeBoard {
	if clock == nil {
		clock = SystemClock
	}
	return &NoticeBoard{clock: clock, ttl: ttl}
}

func (b *NoticeBoard) Success(text string) {
	b.post(NoticeSuccess, text)
}

func (b *NoticeBoard) Error(err error) {
	b.post(NoticeError, err.Error())
}

// Current は期限内のメッセージ。期限切れなら消して nil。
func (b *NoticeBoard) Current() *Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.notice == nil {
		return nil
	}
	if !b.clock.Now().Before(b.notice.ExpiresAt) {
		b.notice = nil
		return nil
	}
	n := *b.notice
	return &n
}

func (b *NoticeBoard) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.notice = nil
}

func (b *NoticeBoard) post(kind NoticeKind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.notice = &Notice{Kind: kind, Text: text, ExpiresAt: b.clock.Now().Add(b.ttl)}
}
