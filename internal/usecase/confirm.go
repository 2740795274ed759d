package usecase

import "fmt"

// Confirmer は削除などの前の確認
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed はリクエストで確認済みかどうかを固定で返す
func Confirmed(ok bool) Confirmer {
	return ConfirmFunc(func(string) bool { return ok })
}

// ConfirmationError は確認が無いときのエラー（画面に出す確認文を持つ）
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfirmationRequired.Error(), e.Prompt)
}

func (e *ConfirmationError) Unwrap() error {
	return ErrConfirmationRequired
}

func confirm(c Confirmer, prompt string) error {
	if c == nil || !c.Confirm(prompt) {
		return &ConfirmationError{Prompt: prompt}
	}
	return nil
}
