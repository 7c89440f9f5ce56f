package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"note-anywhere/internal/core/logger"
	"note-anywhere/internal/domain"
)

type CreateUserInput struct {
	UserName    string `json:"userName"`
	UserProfile string `json:"userProfile"`
}

// UserService is the user directory: soft-deleted users are invisible to
// reads and can't be deleted twice.
type UserService struct {
	repo domain.UserRepository
	log  *zap.Logger
	now  func() time.Time
}

type Option func(*UserService)

func WithClock(now func() time.Time) Option { return func(s *UserService) { s.now = now } }

func WithLogger(l *zap.Logger) Option { return func(s *UserService) { s.log = l } }

func NewUserService(repo domain.UserRepository, opts ...Option) *UserService {
	s := &UserService{repo: repo, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *UserService) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.Active() {
			out = append(out, u)
		}
	}
	logger.For(ctx, s.log).Debug("list active users", zap.Int("total", len(all)), zap.Int("active", len(out)))
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if u == nil || !u.Active() {
		return nil, fmt.Errorf("get user %d: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	u := domain.NewUser(in.UserName, in.UserProfile, s.now())
	if err := s.repo.Insert(ctx, &u); err != nil {
		logger.For(ctx, s.log).Error("create user failed", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.For(ctx, s.log).Debug("user created", zap.Uint64("user_id", u.ID))
	return &u, nil
}

// DeleteUser soft-deletes id. The lookup ignores deletion state so that an
// already-deleted user reports ErrInvalidState rather than ErrNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if u == nil {
		return fmt.Errorf("delete user %d: %w", id, domain.ErrNotFound)
	}
	if !u.Active() {
		return fmt.Errorf("delete user %d: %w", id, domain.ErrInvalidState)
	}

	deleted := u.MarkDeleted(s.now())
	if err := s.repo.Update(ctx, &deleted); err != nil {
		logger.For(ctx, s.log).Warn("soft delete failed", zap.Uint64("user_id", id), zap.Error(err))
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	logger.For(ctx, s.log).Debug("user soft-deleted", zap.Uint64("user_id", id))
	return nil
}
