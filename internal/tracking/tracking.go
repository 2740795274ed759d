// Package tracking は注文ステータスから配送タイムラインを組み立てる。
// どれも純粋関数で、ネットワークや状態を持たない。
package tracking

import (
	"strings"

	"storefront/internal/domain/model"
)

// 配送の正規の順序。CANCELLED はこの列に入らない吸収状態。
var sequence = []model.OrderStatus{
	model.OrderStatusPlaced,
	model.OrderStatusProcessing,
	model.OrderStatusShipped,
	model.OrderStatusDelivered,
}

var labels = map[model.OrderStatus]string{
	model.OrderStatusPlaced:     "Order placed",
	model.OrderStatusProcessing: "Processing",
	model.OrderStatusShipped:    "Shipped",
	model.OrderStatusDelivered:  "Delivered",
	model.OrderStatusCancelled:  "Cancelled",
}

// 旧ステータス名
var aliases = map[string]model.OrderStatus{
	"PENDING":   model.OrderStatusPlaced,
	"CREATED":   model.OrderStatusPlaced,
	"PAID":      model.OrderStatusProcessing,
	"CONFIRMED": model.OrderStatusProcessing,
	"CANCELED":  model.OrderStatusCancelled,
}

type Stage struct {
	Label     string            `json:"label"`
	Status    model.OrderStatus `json:"status"`
	Step      int               `json:"step"`
	Completed bool              `json:"completed"`
	Current   bool              `json:"current"`
}

// Normalize は大文字化して旧名を正規名に寄せる。
func Normalize(status model.OrderStatus) model.OrderStatus {
	s := strings.ToUpper(strings.TrimSpace(string(status)))
	if a, ok := aliases[s]; ok {
		return a
	}
	return model.OrderStatus(s)
}

func indexOf(status model.OrderStatus) int {
	for i, s := range sequence {
		if s == status {
			return i
		}
	}
	return -1
}

func IsCancelled(status model.OrderStatus) bool {
	return Normalize(status) == model.OrderStatusCancelled
}

// Label は表示用のラベル。支払い承認済みで PLACED のときは "Payment confirmed"。
func Label(status model.OrderStatus, paymentApproved bool) string {
	s := Normalize(status)
	if s == model.OrderStatusPlaced && paymentApproved {
		return "Payment confirmed"
	}
	if l, ok := labels[s]; ok {
		return l
	}
	if s == "" {
		return "Unknown"
	}
	// 知らないステータスはそのまま見せる
	return strings.ReplaceAll(string(s), "_", " ")
}

// Stages は現在より前の段を completed、現在の段だけ current にする。
// CANCELLED と未知のステータスでは current の段は無い。
func Stages(status model.OrderStatus) []Stage {
	current := indexOf(Normalize(status))

	out := make([]Stage, 0, len(sequence))
	for i, s := range sequence {
		out = append(out, Stage{
			Label:     labels[s],
			Status:    s,
			Step:      i + 1,
			Completed: current >= 0 && i < current,
			Current:   i == current,
		})
	}
	return out
}

// Next は1段だけ先のステータス。終端・キャンセル・未知なら false。
func Next(status model.OrderStatus) (model.OrderStatus, bool) {
	i := indexOf(Normalize(status))
	if i < 0 || i+1 >= len(sequence) {
		return "", false
	}
	return sequence[i+1], true
}

// CanTransition は admin のステータス変更が前進1段かキャンセルかを判定する。
func CanTransition(from, to model.OrderStatus) bool {
	from, to = Normalize(from), Normalize(to)
	if from == model.OrderStatusCancelled || from == model.OrderStatusDelivered {
		return false
	}
	if to == model.OrderStatusCancelled {
		return indexOf(from) >= 0
	}
	next, ok := Next(from)
	return ok && next == to
}

// InProgress は DELIVERED でも CANCELLED でもない注文。
func InProgress(status model.OrderStatus) bool {
	s := Normalize(status)
	return s != model.OrderStatusDelivered && s != model.OrderStatusCancelled
}
