package infra

import (
	"sync"

	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/domain"
)

// BroadcastNotifier implements domain.Notifier by logging each event and
// fanning it out to subscriber channels (the stand-in for the original
// app's cross-window broadcast). Sends never block: a subscriber that has
// fallen behind misses the event.
type BroadcastNotifier struct {
	mu     sync.Mutex
	logger *zap.Logger
	subs   []chan domain.ExpiryEvent
}

// NewNotifier creates a broadcast notifier.
func NewNotifier(logger *zap.Logger) *BroadcastNotifier {
	return &BroadcastNotifier{logger: logger}
}

// Subscribe returns a channel receiving future expiry events.
func (n *BroadcastNotifier) Subscribe() <-chan domain.ExpiryEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan domain.ExpiryEvent, 4)
	n.subs = append(n.subs, ch)
	return ch
}

// TimerExpired broadcasts a study-mode expiry.
func (n *BroadcastNotifier) TimerExpired(ev domain.ExpiryEvent) {
	n.logger.Info("study mode block expired",
		zap.String("domain", ev.WebsiteURL),
		zap.Time("endTime", ev.EndTime))

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Ensure BroadcastNotifier implements domain.Notifier.
var _ domain.Notifier = (*BroadcastNotifier)(nil)
