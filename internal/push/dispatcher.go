package push

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/blogify-app/backend/internal/repositories"
)

// Dispatcher delivers a payload to every push endpoint a user has registered.
// Dispatch never blocks the caller and its outcome is never reported back to
// the triggering request.
type Dispatcher interface {
	Dispatch(userID uint, payload Payload)
}

type task struct {
	userID  uint
	payload Payload
}

// QueueDispatcher fans payloads out from a bounded task queue. When the queue
// is full the payload is dropped and logged; push is best effort and the
// notification record itself was already committed by the caller.
type QueueDispatcher struct {
	subscriptions repositories.SubscriptionRepository
	sender        Sender
	tasks         chan task
	wg            sync.WaitGroup
	closeOnce     sync.Once
}

// NewQueueDispatcher creates the dispatcher and starts its workers.
func NewQueueDispatcher(subs repositories.SubscriptionRepository, sender Sender, queueSize, workers int) *QueueDispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}

	d := &QueueDispatcher{
		subscriptions: subs,
		sender:        sender,
		tasks:         make(chan task, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Dispatch enqueues a delivery without blocking.
func (d *QueueDispatcher) Dispatch(userID uint, payload Payload) {
	select {
	case d.tasks <- task{userID: userID, payload: payload}:
	default:
		log.Printf("push: queue full, dropping payload for user %d", userID)
	}
}

// Close stops accepting work and waits for in-flight deliveries to finish.
func (d *QueueDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.tasks)
	})
	d.wg.Wait()
}

func (d *QueueDispatcher) worker() {
	defer d.wg.Done()
	for t := range d.tasks {
		d.deliver(t)
	}
}

// deliver attempts every endpoint independently; a failure on one endpoint
// must not abort delivery to the others.
func (d *QueueDispatcher) deliver(t task) {
	message, err := json.Marshal(t.payload)
	if err != nil {
		log.Printf("push: encoding payload for user %d: %v", t.userID, err)
		return
	}

	subs, err := d.subscriptions.GetByUserID(t.userID)
	if err != nil {
		log.Printf("push: loading subscriptions for user %d: %v", t.userID, err)
		return
	}

	ctx := context.Background()
	for i := range subs {
		if err := d.sender.Send(ctx, &subs[i], message); err != nil {
			log.Printf("push: delivery to endpoint of user %d failed: %v", t.userID, err)
		}
	}
}
