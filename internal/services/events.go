package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/google/uuid"
)

// Event types emitted for every decision, strike and appeal outcome. The
// notification service (and billing reconciliation) consume these; the engine
// never formats or delivers user-facing messages itself.
const (
	EventReportSubmitted   = "report.submitted"
	EventReportEscalated   = "report.escalated"
	EventReportResolved    = "report.resolved"
	EventCaseDecided       = "case.decided"
	EventViolationIssued   = "violation.issued"
	EventAppealFiled       = "appeal.filed"
	EventAppealUpheld      = "appeal.upheld"
	EventAppealOverturned  = "appeal.overturned"
	EventAccountSuspended  = "account.suspended"
	EventAccountBanned     = "account.banned"
	EventAccountReinstated = "account.reinstated"
	EventVisibilityChanged = "content.visibility_changed"
)

const moderationEventChannel = "moderation:events"

// ModerationEvent is the payload broadcast over Redis and to live reviewer
// feeds.
type ModerationEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	UserID    string                 `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// PublishModerationEvent publishes an event to the Redis event channel.
// Best-effort from the caller's perspective: event emission happens after the
// owning transaction commits and a publish failure is logged, not rolled
// back into the decision.
func PublishModerationEvent(ctx context.Context, eventType, userID string, payload map[string]interface{}) {
	evt := ModerationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("failed to marshal moderation event: %v", err)
		return
	}
	if err := database.RedisClient.Publish(ctx, moderationEventChannel, data).Err(); err != nil {
		log.Printf("failed to publish moderation event %s: %v", eventType, err)
	}
}

// --- Live reviewer feed ---

// feedHub fans incoming events out to connected reviewer WebSocket clients.
type feedHub struct {
	mu          sync.RWMutex
	subscribers map[int]chan ModerationEvent
	nextID      int
}

var (
	hub            = &feedHub{subscribers: make(map[int]chan ModerationEvent)}
	feedSubscriber sync.Once
)

// SubscribeModerationFeed registers a subscriber for live moderation events.
// The returned function unsubscribes and closes the channel.
func SubscribeModerationFeed() (<-chan ModerationEvent, func()) {
	hub.mu.Lock()
	id := hub.nextID
	hub.nextID++
	ch := make(chan ModerationEvent, 32)
	hub.subscribers[id] = ch
	hub.mu.Unlock()

	unsubscribe := func() {
		hub.mu.Lock()
		if existing, ok := hub.subscribers[id]; ok {
			delete(hub.subscribers, id)
			close(existing)
		}
		hub.mu.Unlock()
	}
	return ch, unsubscribe
}

func fanOutEvent(evt ModerationEvent) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for _, ch := range hub.subscribers {
		select {
		case ch <- evt:
		default:
			// Slow consumer; drop rather than block the subscriber loop.
		}
	}
}

// StartModerationSubscriber starts the single shared Redis listener feeding
// live reviewer connections on this instance.
func StartModerationSubscriber(ctx context.Context) {
	feedSubscriber.Do(func() {
		go runModerationSubscriber(ctx)
	})
}

func runModerationSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; moderation subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.Subscribe(ctx, moderationEventChannel)
			defer pubsub.Close()

			log.Println("✅ Moderation event subscriber started")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var evt ModerationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("failed to unmarshal moderation event: %v", err)
					continue
				}

				fanOutEvent(evt)
			}
		}()
	}
}
