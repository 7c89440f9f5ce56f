package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidState = errors.New("user already deleted")
)

type User struct {
	ID          uint64     `gorm:"column:user_id;primaryKey;autoIncrement" json:"userId"`
	UserName    string     `gorm:"size:255" json:"userName"`
	UserProfile string     `gorm:"size:1024" json:"userProfile"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	DeletedAt   *time.Time `gorm:"index" json:"deletedAt"`
}

func (User) TableName() string { return "users" }

// NewUser builds an active user stamped with now. ID is left for the store.
func NewUser(name, profile string, now time.Time) User {
	return User{
		UserName:    name,
		UserProfile: profile,
		CreatedAt:   now,
	}
}

func (u User) Active() bool { return u.DeletedAt == nil }

// MarkDeleted returns a copy of u soft-deleted at at. u itself is untouched.
func (u User) MarkDeleted(at time.Time) User {
	out := u
	out.DeletedAt = &at
	return out
}

// UserRepository is the record store the directory service runs on.
// FindByID returns (nil, nil) when no row exists, deleted rows included.
type UserRepository interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
}

type PageQuery struct {
	Offset      int
	Limit       int
	Q           string // substring match on user_name
	WithDeleted bool
}

type UserPager interface {
	Page(ctx context.Context, q PageQuery) ([]User, int64, error)
}
