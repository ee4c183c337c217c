package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig carries the SQL logging knobs from the log section of
// the application config.
type GormLoggerConfig struct {
	// Level is the application log level; SQL logging follows it.
	Level string
	// SlowQueryThreshold marks queries slower than this as warnings.
	// Zero disables slow-query warnings.
	SlowQueryThreshold time.Duration
	// LogRecordNotFound reports gorm.ErrRecordNotFound as an error.
	// Lookups that miss are routine here (tenant scoping turns them
	// into NOT_FOUND responses), so it defaults to off.
	LogRecordNotFound bool
}

// GormLogger implements GORM's logger interface using zap
type GormLogger struct {
	logger             *zap.Logger
	logLevel           gormlogger.LogLevel
	slowQueryThreshold time.Duration
	logRecordNotFound  bool
}

// NewGormLogger creates a GORM logger backed by zap, configured from the
// application's log section.
func NewGormLogger(zapLogger *zap.Logger, cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		logger:             zapLogger.Named("gorm"),
		logLevel:           mapGormLogLevel(cfg.Level),
		slowQueryThreshold: cfg.SlowQueryThreshold,
		logRecordNotFound:  cfg.LogRecordNotFound,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		l.logger.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.logger.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		l.logger.Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface - logs SQL queries
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && l.logLevel >= gormlogger.Error:
		if !l.logRecordNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		fields = append(fields, zap.Error(err))
		l.logger.Error("SQL Error", fields...)

	case l.slowQueryThreshold > 0 && elapsed >= l.slowQueryThreshold && l.logLevel >= gormlogger.Warn:
		fields = append(fields, zap.Duration("threshold", l.slowQueryThreshold))
		l.logger.Warn("Slow SQL", fields...)

	case l.logLevel >= gormlogger.Info:
		l.logger.Debug("SQL Query", fields...)
	}
}

func mapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
