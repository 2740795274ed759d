package validator

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ValidationErrorは入力不正（画面に出すメッセージを持つ）
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// AsValidationErrorはerrorからValidationErrorを取り出す
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var cvvRe = regexp.MustCompile(`^\d{3,4}$`)

// CVVは3〜4桁の数字
func CVV(cvv string) error {
	if !cvvRe.MatchString(strings.TrimSpace(cvv)) {
		return invalid("cvv", "CVV must be 3 or 4 digits")
	}
	return nil
}

// CheckoutIDはURLのid（UUID形式）を検証
func CheckoutID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return invalid("checkoutSessionId", "Invalid checkout link")
	}
	return nil
}

func isEmailLike(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// "Name <a@b>" 形式は受け付けない
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}

func runeLen(s string) int {
	return len([]rune(s))
}
