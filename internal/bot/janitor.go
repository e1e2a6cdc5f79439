package bot

import (
	"context"
	"sync"
	"time"

	kit "seriesbot/internal/transport"
	"seriesbot/pkg/logx"
)

// Janitor runs delayed, fire-and-forget message deletions. Tasks are
// cancellable so shutdown never leaves a timer referencing torn-down
// state; deletion failures are logged, never reported to the user.
type Janitor struct {
	adapter kit.Adapter
	log     logx.Logger

	mu     sync.Mutex
	seq    uint64
	timers map[uint64]*time.Timer
	closed bool
}

func NewJanitor(adapter kit.Adapter, log logx.Logger) *Janitor {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Janitor{adapter: adapter, log: log, timers: map[uint64]*time.Timer{}}
}

// DeleteAfter schedules ref for deletion once delay elapses.
func (j *Janitor) DeleteAfter(ref kit.MessageRef, delay time.Duration) {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.seq++
	id := j.seq
	t := time.AfterFunc(delay, func() {
		j.mu.Lock()
		delete(j.timers, id)
		j.mu.Unlock()
		j.delete(ref)
	})
	j.timers[id] = t
	j.mu.Unlock()
}

func (j *Janitor) delete(ref kit.MessageRef) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.adapter.DeleteMessage(ctx, ref); err != nil {
		j.log.Debug("delayed delete failed",
			logx.Int64("chat", ref.ChatID),
			logx.Int("msg", ref.MessageID),
			logx.Err(err),
		)
	}
}

// Shutdown cancels all pending deletions. Timers that already fired
// finish on their own; the rest are abandoned cleanly.
func (j *Janitor) Shutdown(ctx context.Context) {
	j.mu.Lock()
	j.closed = true
	for id, t := range j.timers {
		t.Stop()
		delete(j.timers, id)
	}
	j.mu.Unlock()
}
