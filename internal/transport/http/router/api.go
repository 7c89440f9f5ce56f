package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAPIEngine serves the public routes (/users ...) at the root.
func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	r := newEngine(l, o)
	MountAllAPI(&r.RouterGroup, mods...)
	return r
}
