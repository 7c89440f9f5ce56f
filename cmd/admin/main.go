package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"note-anywhere/internal/core/auth"
	"note-anywhere/internal/core/config"
	"note-anywhere/internal/core/database"
	"note-anywhere/internal/core/logger"
	"note-anywhere/internal/core/server"
	"note-anywhere/internal/repo"
	"note-anywhere/internal/service"
	"note-anywhere/internal/transport/http/handler"
	"note-anywhere/internal/transport/http/router"
)

const usage = `usage:
  admin [serve]              run the admin API
  admin token --sub <name>   print an admin bearer token`

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "serve":
		serve(cfg)
	case "token":
		os.Exit(issueToken(cfg, args, os.Stdout, os.Stderr))
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func newJWTer(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
}

func issueToken(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	sub := fs.String("sub", "", "subject recorded in the token")
	ttl := fs.Duration("ttl", 0, "override jwt.accesstokenttlmin")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *sub == "" {
		fmt.Fprintln(stderr, "--sub is required")
		return 2
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(stderr, "jwt.secret is empty; set it in the config or APP_JWT_SECRET")
		return 1
	}
	j := newJWTer(cfg)
	if *ttl > 0 {
		j.TTL = *ttl
	}
	tok, err := j.Issue(*sub, auth.RoleAdmin)
	if err != nil {
		fmt.Fprintln(stderr, "issue token:", err)
		return 1
	}
	fmt.Fprintln(stdout, tok)
	return 0
}

func serve(cfg *config.Config) {
	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Filename:   cfg.Log.File.Filename,
		MaxSizeMB:  cfg.Log.File.MaxSizeMB,
		MaxBackups: cfg.Log.File.MaxBackups,
		MaxAgeDays: cfg.Log.File.MaxAgeDays,
		Compress:   cfg.Log.File.Compress,
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	log = log.Named("admin")

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is empty; refusing to start the admin api")
	}

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	adminSvc := service.NewAdminService(repo.NewUserRepo(db))
	r := router.NewAdminEngine(log, router.Options{Limits: cfg.Limits}, newJWTer(cfg), handler.NewAdminHandler(adminSvc))

	errLog, _ := logger.ToStdLogger(log, zapcore.ErrorLevel)
	srv := server.BuildServer(
		server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port), r,
		time.Duration(cfg.App.Admin.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.Admin.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.Admin.IdleTimeoutSec)*time.Second,
		errLog,
	)

	baseURL := server.BaseURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", srv.Addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Fatal("admin api FAILED", zap.Error(err))
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThreshold:      time.Duration(cfg.DB.SlowMs) * time.Millisecond,
	}, l)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
