package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/validator"
)

type AdminUserUsecase struct {
	gw  repo.AdminUserGateway
	log *slog.Logger
}

func NewAdminUserUsecase(gw repo.AdminUserGateway, log *slog.Logger) *AdminUserUsecase {
	return &AdminUserUsecase{gw: gw, log: log}
}

func (u *AdminUserUsecase) List(ctx context.Context, id Identity) ([]model.AdminUser, error) {
	token, err := requireAdmin(id)
	if err != nil {
		return nil, err
	}
	return u.gw.AdminListUsers(ctx, token)
}

// Update は部分更新。未指定のフィールドは送らない。
func (u *AdminUserUsecase) Update(ctx context.Context, id Identity, screen *AdminScreen, userID int64, payload model.AdminUserUpdatePayload) ([]model.AdminUser, error) {
	var out []model.AdminUser
	err := screen.mutate("user", userID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if enabled, ok := payload.Enabled.Get(); ok && !enabled && isSelf(id, userID) {
			return "", ErrSelfDisable
		}
		if err := validator.AdminUserUpdate(payload); err != nil {
			return "", err
		}
		if _, err := u.gw.AdminUpdateUser(ctx, token, userID, payload); err != nil {
			return "", err
		}
		if out, err = u.gw.AdminListUsers(ctx, token); err != nil {
			return "", err
		}
		return "User updated.", nil
	})
	return out, err
}

// SetAccess は有効/無効の切り替え。自分自身の無効化はサーバーの判定に関係なくここで止める。
func (u *AdminUserUsecase) SetAccess(ctx context.Context, id Identity, screen *AdminScreen, userID int64, enabled bool, c Confirmer) ([]model.AdminUser, error) {
	var out []model.AdminUser
	err := screen.mutate("user", userID, func() (string, error) {
		token, err := requireAdmin(id)
		if err != nil {
			return "", err
		}
		if !enabled && isSelf(id, userID) {
			return "", ErrSelfDisable
		}
		if !enabled {
			if err := confirm(c, fmt.Sprintf("Disable user #%d?", userID)); err != nil {
				return "", err
			}
		}
		if _, err := u.gw.AdminSetUserAccess(ctx, token, userID, enabled); err != nil {
			return "", err
		}
		u.log.Info("user access changed", "userId", userID, "enabled", enabled)
		if out, err = u.gw.AdminListUsers(ctx, token); err != nil {
			return "", err
		}
		if enabled {
			return "User enabled.", nil
		}
		return "User disabled.", nil
	})
	return out, err
}

func isSelf(id Identity, userID int64) bool {
	me := id.User()
	return me != nil && me.ID == userID
}
