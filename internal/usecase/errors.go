//lint:file-ignore ST1005 画面にそのまま出す文なので大文字・句読点を残す

package usecase

import "errors"

// 画面に出すのでメッセージはそのまま表示できる文にする（handler は Error() をそのまま返す）
var (
	// トークンが無い
	ErrSignInRequired = errors.New("Please sign in to continue")

	// 顧客IDが無い（管理者ビュー or 顧客プロフィール無し）
	ErrCustomerRequired = errors.New("Login as customer required")

	// 管理者ビューでない
	ErrForbidden = errors.New("Admin access required")

	// 決済URLのidがUUIDでない
	ErrInvalidCheckoutLink = errors.New("Invalid checkout link")

	// 決済セッションが支払い可能な状態でない
	ErrNotPayable = errors.New("This checkout session can no longer be paid")

	// 支払い方法が未選択
	ErrPaymentMethodRequired = errors.New("Choose a payment method first.")

	// 選んだ支払い方法が無い or 無効
	ErrPaymentMethodUnavailable = errors.New("Selected payment method is not available")

	// APPROVED 以外で確定しようとした
	ErrPaymentNotApproved = errors.New("Payment has not been approved")

	// 空カートで決済に進もうとした
	ErrCartEmpty = errors.New("Your cart is empty")

	// 自分自身を無効化しようとした
	ErrSelfDisable = errors.New("You cannot disable your own account")

	// 削除/無効化の確認が無い
	ErrConfirmationRequired = errors.New("Confirmation required")

	// 同じ操作が処理中
	ErrAlreadyProcessing = errors.New("Another request is already in progress")

	// 一覧に無い注文
	ErrOrderNotFound = errors.New("Order not found")

	// 追跡ステータスに次が無い（完了 or キャンセル）
	ErrNoNextStage = errors.New("Order has no next tracking stage")
)
