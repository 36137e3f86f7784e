// internal/app/system/workers/notices.go
package workers

import (
	"sync"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoticeSource produces the footer notices for one tick. An empty result
// pushes nothing.
type NoticeSource func(now time.Time) []string

// Notifier is a background worker that pushes footer notices into every live
// UI session and closes sessions that have been idle too long.
//
// Notices are delivered with AccessAsync, so session state is only touched
// on the session's own goroutine.
type Notifier struct {
	registry    *uisession.Registry
	source      NoticeSource
	log         *zap.Logger
	interval    time.Duration
	idleTimeout time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewNotifier creates a new notice worker.
//
// Parameters:
//   - registry: the live UI sessions
//   - source: produces the notices for each tick (may be nil)
//   - logger: zap logger for logging
//   - interval: how often to run (e.g., 30 seconds)
//   - idleTimeout: sessions unseen for this long are closed (0 disables)
func NewNotifier(registry *uisession.Registry, source NoticeSource, logger *zap.Logger, interval, idleTimeout time.Duration) *Notifier {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Notifier{
		registry:    registry,
		source:      source,
		log:         logger,
		interval:    interval,
		idleTimeout: idleTimeout,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *Notifier) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notice worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_timeout", w.idleTimeout))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *Notifier) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("notice worker stopped")
}

func (w *Notifier) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case now := <-ticker.C:
			w.Tick(now)
		}
	}
}

// Tick runs one round: expire idle sessions, then broadcast the notices.
// It returns the number of sessions that accepted the notices.
func (w *Notifier) Tick(now time.Time) int {
	if w.idleTimeout > 0 {
		if n := w.registry.ExpireIdle(w.idleTimeout); n > 0 {
			w.log.Info("closed idle ui sessions", zap.Int64("count", n))
		}
	}

	if w.source == nil {
		return 0
	}
	texts := w.source(now)
	if len(texts) == 0 {
		return 0
	}

	notices := make([]uisession.Notice, 0, len(texts))
	for _, t := range texts {
		notices = append(notices, uisession.Notice{ID: uuid.NewString(), Text: t, At: now})
	}
	delivered := w.registry.Broadcast(func(s *uisession.State) {
		for _, n := range notices {
			s.PushNotice(n)
		}
	})
	w.log.Debug("footer notices pushed",
		zap.Int("notices", len(texts)),
		zap.Int("sessions", delivered))
	return delivered
}
