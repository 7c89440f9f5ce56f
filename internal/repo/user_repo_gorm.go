package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"note-anywhere/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := r.db.WithContext(ctx).Order("user_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update overwrites the mutable columns of an active row.
// A row that is already soft-deleted is never rewritten: ErrInvalidState.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ? AND deleted_at IS NULL", u.ID).
		Select("user_name", "user_profile", "deleted_at").
		Updates(map[string]any{
			"user_name":    u.UserName,
			"user_profile": u.UserProfile,
			"deleted_at":   u.DeletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *UserRepo) Page(ctx context.Context, q domain.PageQuery) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if !q.WithDeleted {
		tx = tx.Where("deleted_at IS NULL")
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("user_name LIKE ?", "%"+s+"%")
	}
	tx = tx.Session(&gorm.Session{}) // reused by Count and Find

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, q.Limit)
	if err := tx.Order("created_at DESC").Order("user_id DESC").
		Offset(q.Offset).Limit(q.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
