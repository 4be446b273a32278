package notifications

import "context"

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notice is a transient, user-visible outcome message (a toast).
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

func Success(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notice{Level: LevelSuccess, Message: msg})
}

func Info(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notice{Level: LevelInfo, Message: msg})
}

func Error(ctx context.Context, n Notifier, msg string) {
	n.Notify(ctx, Notice{Level: LevelError, Message: msg})
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(context.Context, Notice) {}
