package sweeper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type stubExpiry struct {
	runs   atomic.Int32
	result payments.SweepResult
	err    error
}

func (s *stubExpiry) SweepExpired(context.Context) (payments.SweepResult, error) {
	s.runs.Add(1)
	return s.result, s.err
}

type stubCompletion struct {
	runs      atomic.Int32
	lastLimit atomic.Int32
	err       error
}

func (s *stubCompletion) CompleteEnded(_ context.Context, limit int) (int, error) {
	s.runs.Add(1)
	s.lastLimit.Store(int32(limit))
	return 1, s.err
}

type recordingMetrics struct {
	mu   sync.Mutex
	runs []string
}

func (m *recordingMetrics) RecordSweep(job, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, job+":"+outcome)
}

func (m *recordingMetrics) Runs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.runs...)
}

func TestRunExpiry_RecordsOutcome(t *testing.T) {
	expiry := &stubExpiry{result: payments.SweepResult{Reaped: 2}}
	metrics := &recordingMetrics{}
	s, err := New(expiry, &stubCompletion{}, metrics, Config{}, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.RunExpiry(context.Background()))

	expiry.err = errors.New("db down")
	assert.Error(t, s.RunExpiry(context.Background()))

	assert.Equal(t, []string{"expiry:ok", "expiry:error"}, metrics.Runs())
}

func TestRunCompletion_UsesBatchSize(t *testing.T) {
	completion := &stubCompletion{}
	metrics := &recordingMetrics{}
	s, err := New(&stubExpiry{}, completion, metrics, Config{BatchSize: 25}, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.RunCompletion(context.Background()))
	assert.Equal(t, int32(25), completion.lastLimit.Load())
	assert.Equal(t, []string{"completion:ok"}, metrics.Runs())
}

func TestStart_RunsJobsOnSchedule(t *testing.T) {
	expiry := &stubExpiry{}
	completion := &stubCompletion{}
	s, err := New(expiry, completion, &recordingMetrics{}, Config{
		ExpiryInterval:     20 * time.Millisecond,
		CompletionInterval: 20 * time.Millisecond,
	}, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer func() { _ = s.Shutdown() }()

	assert.Eventually(t, func() bool {
		return expiry.runs.Load() >= 2 && completion.runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStart_RejectsZeroInterval(t *testing.T) {
	s, err := New(&stubExpiry{}, &stubCompletion{}, &recordingMetrics{}, Config{ExpiryInterval: time.Second}, logger.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Start(), ErrScheduler)
}
