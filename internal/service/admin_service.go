package service

import (
	"context"
	"fmt"

	"note-anywhere/internal/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type Page struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

// AdminService is the back-office view of the directory. Unlike UserService
// it can see soft-deleted rows.
type AdminService struct {
	pager domain.UserPager
}

func NewAdminService(p domain.UserPager) *AdminService { return &AdminService{pager: p} }

func (s *AdminService) Browse(ctx context.Context, q domain.PageQuery) (Page, error) {
	if q.Limit <= 0 || q.Limit > maxPageLimit {
		q.Limit = defaultPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	items, total, err := s.pager.Page(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("browse users: %w", err)
	}
	return Page{Total: total, Items: items}, nil
}
