package push

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/blogify-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[uint][]models.PushSubscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: map[uint][]models.PushSubscription{}}
}

func (r *fakeSubscriptionRepo) Upsert(sub *models.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.subs[sub.UserID] {
		if existing.Endpoint == sub.Endpoint {
			r.subs[sub.UserID][i] = *sub
			return nil
		}
	}
	r.subs[sub.UserID] = append(r.subs[sub.UserID], *sub)
	return nil
}

func (r *fakeSubscriptionRepo) GetByUserID(userID uint) ([]models.PushSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.PushSubscription(nil), r.subs[userID]...), nil
}

func (r *fakeSubscriptionRepo) DeleteByEndpoint(userID uint, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subs[userID][:0]
	for _, sub := range r.subs[userID] {
		if sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	r.subs[userID] = kept
	return nil
}

// recordingSender records deliveries, can fail chosen endpoints, and can hold
// every send on a gate to keep the queue occupied.
type recordingSender struct {
	mu      sync.Mutex
	sent    []string
	failing map[string]bool
	gate    chan struct{}
	started chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{failing: map[string]bool{}}
}

func (s *recordingSender) Send(_ context.Context, sub *models.PushSubscription, _ []byte) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[sub.Endpoint] {
		return fmt.Errorf("endpoint %s rejected delivery", sub.Endpoint)
	}
	s.sent = append(s.sent, sub.Endpoint)
	return nil
}

func (s *recordingSender) endpoints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func addSubscription(t *testing.T, repo *fakeSubscriptionRepo, userID uint, endpoint string) {
	t.Helper()
	require.NoError(t, repo.Upsert(&models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	}))
}

func TestDispatchDeliversToEveryEndpoint(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	addSubscription(t, repo, 1, "https://push.example.com/a")
	addSubscription(t, repo, 1, "https://push.example.com/b")
	sender := newRecordingSender()

	d := NewQueueDispatcher(repo, sender, 16, 1)
	d.Dispatch(1, Payload{Title: "New like", Body: "Alice liked your post: Hello", URL: "/blog/abc"})
	d.Close()

	assert.ElementsMatch(t,
		[]string{"https://push.example.com/a", "https://push.example.com/b"},
		sender.endpoints())
}

func TestDispatchFailureDoesNotStopOtherEndpoints(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	addSubscription(t, repo, 1, "https://push.example.com/dead")
	addSubscription(t, repo, 1, "https://push.example.com/live")
	sender := newRecordingSender()
	sender.failing["https://push.example.com/dead"] = true

	d := NewQueueDispatcher(repo, sender, 16, 1)
	d.Dispatch(1, Payload{Title: "New comment", Body: "x", URL: "/blog/abc"})
	d.Close()

	assert.Equal(t, []string{"https://push.example.com/live"}, sender.endpoints())
}

func TestDispatchUserWithoutSubscriptions(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	sender := newRecordingSender()

	d := NewQueueDispatcher(repo, sender, 16, 2)
	d.Dispatch(7, Payload{Title: "New post", Body: "x", URL: "/blog/abc"})
	d.Close()

	assert.Empty(t, sender.endpoints())
}

func TestDispatchDropsWhenQueueFull(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	addSubscription(t, repo, 1, "https://push.example.com/a")
	sender := newRecordingSender()
	sender.gate = make(chan struct{})
	sender.started = make(chan struct{}, 8)

	d := NewQueueDispatcher(repo, sender, 1, 1)

	// First task reaches the worker and blocks on the gate.
	d.Dispatch(1, Payload{Title: "1"})
	select {
	case <-sender.started:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the first task")
	}

	// Second task fills the queue, third finds it full and is dropped.
	d.Dispatch(1, Payload{Title: "2"})
	d.Dispatch(1, Payload{Title: "3"})

	close(sender.gate)
	d.Close()

	assert.Len(t, sender.endpoints(), 2)
}

func TestCloseDrainsQueue(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	addSubscription(t, repo, 1, "https://push.example.com/a")
	sender := newRecordingSender()

	d := NewQueueDispatcher(repo, sender, 32, 2)
	for i := 0; i < 10; i++ {
		d.Dispatch(1, Payload{Title: "New post"})
	}
	d.Close()

	assert.Len(t, sender.endpoints(), 10)
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	sender := newRecordingSender()

	d := NewQueueDispatcher(repo, sender, 4, 1)
	d.Close()
	d.Close()
}
