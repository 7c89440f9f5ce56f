package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"note-anywhere/internal/domain"
	"note-anywhere/internal/service"
	"note-anywhere/internal/transport/http/ez"
)

type UserDirectory interface {
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uint64) (*domain.User, error)
	CreateUser(ctx context.Context, in service.CreateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserHandler struct{ svc UserDirectory }

func NewUserHandler(svc UserDirectory) *UserHandler { return &UserHandler{svc: svc} }

type userIDParam struct {
	ID uint64 `uri:"id"`
}

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(g, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			users, err := h.svc.ListActiveUsers(c.Request.Context())
			return users, userError(err)
		},
	})

	ez.RegisterAction(g, ez.Action[userIDParam, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *userIDParam) (*domain.User, error) {
			u, err := h.svc.GetUser(c.Request.Context(), in.ID)
			return u, userError(err)
		},
	})

	ez.RegisterAction(g, ez.Action[service.CreateUserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CreateUserInput) (*domain.User, error) {
			u, err := h.svc.CreateUser(c.Request.Context(), *in)
			return u, userError(err)
		},
	})

	ez.RegisterAction(g, ez.Action[userIDParam, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindURI,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *userIDParam) (struct{}, error) {
			return struct{}{}, userError(h.svc.DeleteUser(c.Request.Context(), in.ID))
		},
	})
}

func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound("user not found")
	case errors.Is(err, domain.ErrInvalidState):
		return ez.BadRequest("user already deleted")
	default:
		return ez.Internal("internal error", err)
	}
}
