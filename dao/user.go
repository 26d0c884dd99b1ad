package dao

import (
	"context"
	"strings"

	"stash/models"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.User]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.User](db),
	}
}

// FindByEmail 邮箱不区分大小写
func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.Repo.FindByWhere(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (u *Users) FindByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	return u.Repo.FindByWhere(ctx, "provider = ? AND provider_id = ?", provider, providerID)
}

type Profiles struct {
	Repo[models.Profile]
}

func NewProfiles(db *gorm.DB) *Profiles {
	return &Profiles{
		Repo: NewRepo[models.Profile](db),
	}
}

// BatchGet 批量查询用户资料
func (p *Profiles) BatchGet(ctx context.Context, ids []uint64) (map[uint64]*models.Profile, error) {
	result := make(map[uint64]*models.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	profiles, err := p.FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range profiles {
		result[item.ID] = item
	}
	return result, nil
}

func (p *Profiles) SetAdmin(ctx context.Context, id uint64, isAdmin bool) (int64, error) {
	return p.UpdateById(ctx, id, map[string]any{"is_admin": isAdmin})
}
