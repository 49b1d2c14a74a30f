package sweeper

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
)

// ExpirySweeper снимает просроченные резервы и сверяет оплату с провайдером
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (payments.SweepResult, error)
}

// CompletionSweeper завершает подтвержденные бронирования после окончания слота
type CompletionSweeper interface {
	CompleteEnded(ctx context.Context, limit int) (int, error)
}

// MetricsRecorder интерфейс учета запусков задач
type MetricsRecorder interface {
	RecordSweep(job, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
