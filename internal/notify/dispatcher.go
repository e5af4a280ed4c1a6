package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gheider394-beep/2-sub000/internal/db"
)

// Dispatcher is the outbound notification contract the engines emit to.
// Dispatch must never block the triggering mutation and never fails it:
// delivery problems are the dispatcher's to log, not the caller's.
type Dispatcher interface {
	Dispatch(n db.Notification)
}

// Store persists notification rows. Implemented by
// repository.NotificationRepository.
type Store interface {
	Save(ctx context.Context, n *db.Notification) error
}

const (
	queueSize    = 256
	persistLimit = 5 * time.Second
)

// Queue is an async Dispatcher backed by a buffered channel and a single
// worker goroutine that persists rows. When the buffer is full the
// notification is dropped and logged rather than stalling the caller.
type Queue struct {
	store  Store
	logger *slog.Logger

	ch        chan db.Notification
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewQueue starts the worker and returns a ready Dispatcher.
func NewQueue(store Store, logger *slog.Logger) *Queue {
	q := &Queue{
		store:  store,
		logger: logger,
		ch:     make(chan db.Notification, queueSize),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Dispatch enqueues a notification without waiting for persistence.
func (q *Queue) Dispatch(n db.Notification) {
	select {
	case q.ch <- n:
	default:
		q.logger.Warn("notification queue full, dropping",
			"type", n.Type, "sender", n.SenderID, "receiver", n.ReceiverID)
	}
}

// Close stops accepting notifications and drains the queue.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
	q.wg.Wait()
}

func (q *Queue) run() {
	defer q.wg.Done()
	for n := range q.ch {
		ctx, cancel := context.WithTimeout(context.Background(), persistLimit)
		if err := q.store.Save(ctx, &n); err != nil {
			q.logger.Error("failed to persist notification",
				"type", n.Type, "sender", n.SenderID, "receiver", n.ReceiverID, "err", err)
		}
		cancel()
	}
}
