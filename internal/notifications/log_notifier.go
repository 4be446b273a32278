package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier logs every notice and hands it to the request collector, if any.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	level := slog.LevelInfo
	if notice.Level == LevelError {
		level = slog.LevelWarn
	}

	n.log.Log(ctx, level, "notice", "level", string(notice.Level), "message", notice.Message)

	if c, ok := CollectorFrom(ctx); ok {
		c.add(notice)
	}
}
