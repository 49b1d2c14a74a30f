package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Ключи маршрутизации
const (
	RoutingKeyAudit     = "booking.audit"
	RoutingKeyConfirmed = "booking.confirmed"
	RoutingKeyCancelled = "booking.cancelled"
	RoutingKeyCompleted = "booking.completed"
)

const publishTimeout = 5 * time.Second

type message struct {
	key  string
	body interface{}
}

// Bus неблокирующая очередь событий бронирований
// Record и PublishSnapshot только кладут сообщение в буфер; при переполнении
// сообщение отбрасывается с предупреждением в логе
type Bus struct {
	publisher Publisher
	queue     chan message
	log       Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewBus создает очередь с буфером bufferSize и запускает отправку
func NewBus(publisher Publisher, bufferSize int, log Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	b := &Bus{
		publisher: publisher,
		queue:     make(chan message, bufferSize),
		log:       log,
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Record ставит событие аудита в очередь
func (b *Bus) Record(ctx context.Context, event domain.AuditEvent) {
	b.enqueue(message{key: RoutingKeyAudit, body: event})
}

// PublishSnapshot ставит снимок бронирования в очередь для генератора чеков
func (b *Bus) PublishSnapshot(ctx context.Context, snapshot domain.BookingSnapshot) {
	b.enqueue(message{key: snapshotKey(snapshot.Status), body: snapshot})
}

// Close прекращает прием сообщений и дожидается отправки оставшихся
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) enqueue(msg message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.log.Warn("[EventBus] bus closed, dropping %s", msg.key)
		return
	}

	select {
	case b.queue <- msg:
	default:
		b.log.Warn("[EventBus] buffer full, dropping %s", msg.key)
	}
}

func (b *Bus) run() {
	defer close(b.done)

	for msg := range b.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := b.publisher.PublishJSON(ctx, msg.key, msg.body); err != nil {
			b.log.Error("[EventBus] failed to publish %s: %v", msg.key, err)
		}
		cancel()
	}
}

func snapshotKey(status domain.BookingStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return RoutingKeyConfirmed
	case domain.StatusCompleted:
		return RoutingKeyCompleted
	default:
		return RoutingKeyCancelled
	}
}
