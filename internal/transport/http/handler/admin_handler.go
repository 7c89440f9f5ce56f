package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"note-anywhere/internal/core/auth"
	"note-anywhere/internal/domain"
	"note-anywhere/internal/service"
	"note-anywhere/internal/transport/http/ez"
)

type UserBrowser interface {
	Browse(ctx context.Context, q domain.PageQuery) (service.Page, error)
}

type AdminHandler struct{ svc UserBrowser }

func NewAdminHandler(svc UserBrowser) *AdminHandler { return &AdminHandler{svc: svc} }

type listQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`
	WithDeleted bool   `form:"with_deleted"`
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[listQ, service.Page]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Roles:  []string{auth.RoleAdmin},
		Handler: func(c *gin.Context, in *listQ) (service.Page, error) {
			page, err := h.svc.Browse(c.Request.Context(), domain.PageQuery{
				Offset:      in.Offset,
				Limit:       in.Limit,
				Q:           in.Q,
				WithDeleted: in.WithDeleted,
			})
			if err != nil {
				return service.Page{}, ez.Internal("list users failed", err)
			}
			return page, nil
		},
	})
}
