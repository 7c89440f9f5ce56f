package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"note-anywhere/internal/core/auth"
	mdw "note-anywhere/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1, every route behind an admin JWT.
func NewAdminEngine(l *zap.Logger, o Options, jwter *auth.JWTer, mods ...AdminModule) *gin.Engine {
	r := newEngine(l, o)
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, auth.RoleAdmin))
	MountAllAdmin(admin, mods...)
	return r
}
