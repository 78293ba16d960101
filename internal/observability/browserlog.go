package observability

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagewrap/internal/weblog"
)

// ReplayBrowserLogs writes normalized browser log entries through a zap logger at
// the level matching each entry's severity. Entries with level OFF are dropped.
func ReplayBrowserLogs(logger *zap.Logger, entries []weblog.Entry) {
	for _, e := range entries {
		if e.Level() == weblog.LevelOff {
			continue
		}
		if ce := logger.Check(e.Level().ZapLevel(), e.Message()); ce != nil {
			ce.Write(
				zap.String("log_type", e.Type()),
				zap.String("browser_level", e.Level().String()),
				zap.Time("browser_time", e.Timestamp()),
			)
		}
	}
}
