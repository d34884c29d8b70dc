package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"laraconsole/internal/domain"
)

const notificationCap = 20

// NotificationRing is the bounded feed of transient operator notifications.
// Expiry/animation is a presentation concern; the ring only bounds size.
type NotificationRing struct {
	observable

	mu    sync.Mutex
	items []domain.Notification

	nowMs func() int64
}

func NewNotificationRing() *NotificationRing {
	return &NotificationRing{
		nowMs: func() int64 { return time.Now().UnixMilli() },
	}
}

// Notify implements ports.Notifier.
func (r *NotificationRing) Notify(kind domain.NotificationKind, message string) {
	item := domain.Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		TS:      r.nowMs(),
	}

	r.mu.Lock()
	r.items = append(r.items, item)
	if len(r.items) > notificationCap {
		r.items = r.items[1:]
	}
	r.mu.Unlock()

	r.publish()
}

// Dismiss drops one notification by id.
func (r *NotificationRing) Dismiss(id string) {
	r.mu.Lock()
	changed := false
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			changed = true
			break
		}
	}
	r.mu.Unlock()

	if changed {
		r.publish()
	}
}

// Clear drops everything.
func (r *NotificationRing) Clear() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()

	r.publish()
}

// Items returns a copy in arrival order.
func (r *NotificationRing) Items() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.items...)
}
