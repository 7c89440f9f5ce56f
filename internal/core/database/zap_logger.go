package database

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// ZapLogger routes gorm's SQL log into zap.
type ZapLogger struct {
	Logger        *zap.Logger
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

func NewZapLogger(l *zap.Logger, level logger.LogLevel, slow time.Duration) *ZapLogger {
	return &ZapLogger{Logger: l.Named("gorm"), LogLevel: level, SlowThreshold: slow}
}

func (l *ZapLogger) LogMode(level logger.LogLevel) logger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *ZapLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		l.Logger.Sugar().Infof(msg, data...)
	}
}

func (l *ZapLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		l.Logger.Sugar().Warnf(msg, data...)
	}
}

func (l *ZapLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		l.Logger.Sugar().Errorf(msg, data...)
	}
}

func (l *ZapLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.Logger.Error("sql", l.fields(sql, rows, elapsed, zap.Error(err))...)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= logger.Warn:
		sql, rows := fc()
		l.Logger.Warn("slow sql", l.fields(sql, rows, elapsed, zap.Duration("threshold", l.SlowThreshold))...)
	case l.LogLevel >= logger.Info:
		sql, rows := fc()
		l.Logger.Info("sql", l.fields(sql, rows, elapsed)...)
	}
}

func (l *ZapLogger) fields(sql string, rows int64, elapsed time.Duration, extra ...zap.Field) []zap.Field {
	fs := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
	}
	if rows != -1 {
		fs = append(fs, zap.Int64("rows", rows))
	}
	return append(fs, extra...)
}
