package orm

import (
	"log/slog"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// NewLogger routes GORM's query log through slog. Only failed statements
// and statements slower than slowThreshold are logged.
func NewLogger(log *slog.Logger, slowThreshold time.Duration) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
