// internal/notify/notifier.go
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Notifier receives notices and dismissals. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
	Dismiss(id string)
}

// Nop drops everything.
type Nop struct{}

func (Nop) Notify(Notice)  {}
func (Nop) Dismiss(string) {}

// LogNotifier writes notices to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notice) {
	fields := []zap.Field{
		zap.String("notice_id", n.ID),
		zap.String("level", string(n.Level)),
		zap.String("message", n.Message),
	}
	if n.Action != nil {
		fields = append(fields, zap.String("action", n.Action.Kind))
	}

	if n.Level == LevelError {
		l.logger.Warn("notice", fields...)
		return
	}
	l.logger.Info("notice", fields...)
}

func (l *LogNotifier) Dismiss(id string) {
	l.logger.Debug("notice dismissed", zap.String("notice_id", id))
}

// Fanout forwards to every notifier it holds, in order.
type Fanout []Notifier

func (f Fanout) Notify(n Notice) {
	for _, target := range f {
		target.Notify(n)
	}
}

func (f Fanout) Dismiss(id string) {
	for _, target := range f {
		target.Dismiss(id)
	}
}

const defaultBoardSize = 20

// Board keeps the notices that are still showing, oldest first, so a UI that
// connects late can render them.
type Board struct {
	mu      sync.RWMutex
	notices []Notice
	limit   int
}

func NewBoard(limit int) *Board {
	if limit <= 0 {
		limit = defaultBoardSize
	}
	return &Board{limit: limit}
}

func (b *Board) Notify(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.notices {
		if b.notices[i].ID == n.ID {
			b.notices[i] = n
			return
		}
	}

	b.notices = append(b.notices, n)
	if len(b.notices) > b.limit {
		b.notices = b.notices[len(b.notices)-b.limit:]
	}
}

func (b *Board) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.notices {
		if b.notices[i].ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return
		}
	}
}

// Active returns a copy of the notices still showing.
func (b *Board) Active() []Notice {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

// Find returns the active notice with id.
func (b *Board) Find(id string) (Notice, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, n := range b.notices {
		if n.ID == id {
			return n, true
		}
	}
	return Notice{}, false
}
