package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	fail bool
	gate chan struct{}
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, key string, v interface{}) error {
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func closeBus(t *testing.T, b *Bus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, b.Close(ctx))
}

func TestBus_RoutesByKind(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBus(pub, 8, logger.NewNop())

	b.Record(context.Background(), domain.AuditEvent{ID: "a1", BookingID: 1, ToStatus: domain.StatusPending})
	b.PublishSnapshot(context.Background(), domain.BookingSnapshot{BookingID: 1, Status: domain.StatusConfirmed})
	b.PublishSnapshot(context.Background(), domain.BookingSnapshot{BookingID: 1, Status: domain.StatusCancelled})

	closeBus(t, b)

	assert.Equal(t, []string{RoutingKeyAudit, RoutingKeyConfirmed, RoutingKeyCancelled}, pub.published())
}

func TestBus_DropsWhenBufferFull(t *testing.T) {
	pub := &recordingPublisher{gate: make(chan struct{})}
	b := NewBus(pub, 1, logger.NewNop())

	// Первое сообщение забирает отправитель и ждет на gate, второе занимает буфер
	for i := 0; i < 10; i++ {
		b.Record(context.Background(), domain.AuditEvent{ID: "a", BookingID: int64(i)})
	}
	close(pub.gate)
	closeBus(t, b)

	published := pub.published()
	assert.NotEmpty(t, published)
	assert.LessOrEqual(t, len(published), 2)
}

func TestBus_PublishErrorsDoNotStopDelivery(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	b := NewBus(pub, 4, logger.NewNop())

	b.Record(context.Background(), domain.AuditEvent{ID: "a1"})
	b.Record(context.Background(), domain.AuditEvent{ID: "a2"})
	closeBus(t, b)

	assert.Empty(t, pub.published())
}

func TestBus_RecordAfterClose(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBus(pub, 4, logger.NewNop())
	closeBus(t, b)

	assert.NotPanics(t, func() {
		b.Record(context.Background(), domain.AuditEvent{ID: "late"})
	})
	assert.Empty(t, pub.published())
}
