package repo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"note-anywhere/internal/core/cache"
	"note-anywhere/internal/core/logger"
	"note-anywhere/internal/domain"
)

const userKeyPrefix = "user:"

// CachedUserRepo serves FindByID from Redis. Writes publish the committed
// row under the key; read-through fills only an empty key, so a slow load
// never replaces what a writer stored. FindAll is never cached.
type CachedUserRepo struct {
	next  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedUserRepo(next domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedUserRepo {
	return &CachedUserRepo{next: next, cache: c, ttl: ttl, log: l}
}

func userKey(id uint64) string { return userKeyPrefix + strconv.FormatUint(id, 10) }

func (r *CachedUserRepo) Insert(ctx context.Context, u *domain.User) error {
	if err := r.next.Insert(ctx, u); err != nil {
		return err
	}
	r.publish(ctx, u)
	return nil
}

func (r *CachedUserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return cache.GetOrLoadJSON(r.cache, ctx, userKey(id), r.ttl, func(ctx context.Context) (*domain.User, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *CachedUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedUserRepo) Update(ctx context.Context, u *domain.User) error {
	err := r.next.Update(ctx, u)
	switch {
	case err == nil:
		r.publish(ctx, u)
	case errors.Is(err, domain.ErrInvalidState):
		// the row is already deleted; cache what the store holds now
		r.refresh(ctx, u.ID)
	}
	return err
}

func (r *CachedUserRepo) refresh(ctx context.Context, id uint64) {
	cur, err := r.next.FindByID(ctx, id)
	if err != nil {
		r.evict(ctx, id)
		return
	}
	if cur == nil {
		if err := r.cache.Set(ctx, userKey(id), []byte("null"), r.ttl); err != nil {
			r.evict(ctx, id)
		}
		return
	}
	r.publish(ctx, cur)
}

func (r *CachedUserRepo) publish(ctx context.Context, u *domain.User) {
	if err := cache.SetJSON(r.cache, ctx, userKey(u.ID), u, r.ttl); err != nil {
		logger.For(ctx, r.log).Warn("cache write failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		r.evict(ctx, u.ID)
	}
}

func (r *CachedUserRepo) evict(ctx context.Context, id uint64) {
	if err := r.cache.Delete(ctx, userKey(id)); err != nil {
		logger.For(ctx, r.log).Warn("cache evict failed", zap.Uint64("user_id", id), zap.Error(err))
	}
}
