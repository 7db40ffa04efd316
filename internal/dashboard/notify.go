package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// noticeTTL is how long a notice stays visible before self-clearing.
const noticeTTL = 4 * time.Second

// Variant distinguishes informational notices from error notices.
type Variant string

const (
	VariantInfo  Variant = "info"
	VariantError Variant = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	ID      string
	Message string
	Variant Variant
}

// Notifier holds at most one pending notice. A new notice replaces the
// pending one and restarts the expiry timer; there is no queue.
type Notifier struct {
	mu      sync.Mutex
	current *Notice
	timer   *time.Timer
	ttl     time.Duration
}

// NewNotifier creates a notifier with the standard expiry.
func NewNotifier() *Notifier {
	return &Notifier{ttl: noticeTTL}
}

// Show displays a notice, replacing any pending one.
func (n *Notifier) Show(message string, variant Variant) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	notice := Notice{
		ID:      uuid.NewString(),
		Message: message,
		Variant: variant,
	}
	n.current = &notice
	n.timer = time.AfterFunc(n.ttl, func() {
		n.expire(notice.ID)
	})

	return notice
}

// Current returns the pending notice, or nil when none is showing.
func (n *Notifier) Current() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Clear removes the pending notice immediately.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// expire clears the notice only if it is still the one the timer was armed
// for; a replacement notice keeps its own timer.
func (n *Notifier) expire(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.timer = nil
	}
}
