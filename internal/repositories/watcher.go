package repositories

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kdlcruz/tito/internal/models"
)

// StoreWatcher polls the store version counter and notifies a subscriber when
// another process changes the persisted credentials.
//
// Notification is best-effort and eventual: two processes may briefly
// disagree on session validity between polls. The subscriber must treat the
// callback as passive sync, never as a trigger for navigation.
type StoreWatcher struct {
	creds    *CredentialRepository
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewStoreWatcher creates a watcher over the given credential repository.
func NewStoreWatcher(creds *CredentialRepository, interval time.Duration, logger *log.Logger) *StoreWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &StoreWatcher{creds: creds, interval: interval, logger: logger}
}

// Start begins polling in a goroutine, invoking fn with the freshly loaded
// session each time the store version moves. Start is a no-op if the watcher
// is already running.
func (w *StoreWatcher) Start(fn func(models.Session)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return
	}

	w.stop = make(chan struct{})
	w.stopped = make(chan struct{})

	go w.run(fn, w.stop, w.stopped)
}

// Stop halts polling and waits for the poll goroutine to exit.
func (w *StoreWatcher) Stop() {
	w.mu.Lock()
	stop, stopped := w.stop, w.stopped
	w.stop, w.stopped = nil, nil
	w.mu.Unlock()

	if stop != nil {
		close(stop)
		<-stopped
	}
}

func (w *StoreWatcher) run(fn func(models.Session), stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	last, err := w.creds.Version()
	if err != nil {
		w.logger.Warn("failed to read initial store version", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			version, err := w.creds.Version()
			if err != nil {
				w.logger.Warn("failed to read store version", "error", err)
				continue
			}
			if version == last {
				continue
			}
			last = version

			session, err := w.creds.Load()
			if err != nil {
				w.logger.Warn("failed to reload credentials", "error", err)
				continue
			}
			fn(session)
		}
	}
}
