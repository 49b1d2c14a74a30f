package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	JobExpiry     = "expiry"
	JobCompletion = "completion"

	outcomeOK    = "ok"
	outcomeError = "error"

	defaultBatchSize  = 100
	defaultRunTimeout = 45 * time.Second
)

var (
	// ErrScheduler возвращается, если планировщик не удалось создать или запустить
	ErrScheduler = errors.New("sweeper: scheduler error")
)

// Config интервалы фоновых задач
type Config struct {
	ExpiryInterval     time.Duration
	CompletionInterval time.Duration
	BatchSize          int
	RunTimeout         time.Duration
}

// Sweeper запускает по расписанию снятие просроченных резервов и завершение прошедших бронирований
// Запуски одной задачи не перекрываются
type Sweeper struct {
	scheduler  gocron.Scheduler
	expiry     ExpirySweeper
	completion CompletionSweeper
	metrics    MetricsRecorder
	cfg        Config
	logger     Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New создает планировщик; задачи регистрируются в Start
func New(expiry ExpirySweeper, completion CompletionSweeper, metrics MetricsRecorder, cfg Config, logger Logger) (*Sweeper, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduler, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		scheduler:  scheduler,
		expiry:     expiry,
		completion: completion,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start регистрирует задачи и запускает планировщик
func (s *Sweeper) Start() error {
	jobs := []struct {
		name     string
		interval time.Duration
		run      func(ctx context.Context) error
	}{
		{name: JobExpiry, interval: s.cfg.ExpiryInterval, run: s.RunExpiry},
		{name: JobCompletion, interval: s.cfg.CompletionInterval, run: s.RunCompletion},
	}

	for _, job := range jobs {
		if job.interval <= 0 {
			return fmt.Errorf("%w: %s interval must be positive", ErrScheduler, job.name)
		}

		run := job.run
		j, err := s.scheduler.NewJob(
			gocron.DurationJob(job.interval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RunTimeout)
				defer cancel()
				_ = run(ctx)
			}),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("%w: register %s job: %v", ErrScheduler, job.name, err)
		}
		s.logger.Info("Sweeper: job %s id=%s every %s", job.name, j.ID(), job.interval)
	}

	s.scheduler.Start()
	return nil
}

// Shutdown прерывает текущие запуски и останавливает планировщик
func (s *Sweeper) Shutdown() error {
	s.cancel()
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("%w: shutdown: %v", ErrScheduler, err)
	}
	return nil
}

// RunExpiry выполняет один обход просроченных резервов
func (s *Sweeper) RunExpiry(ctx context.Context) error {
	result, err := s.expiry.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("Sweeper: expiry run failed: %v", err)
		s.metrics.RecordSweep(JobExpiry, outcomeError)
		return err
	}

	if result.Failed > 0 {
		s.logger.Warn("Sweeper: expiry run confirmed=%d reaped=%d failed=%d", result.Confirmed, result.Reaped, result.Failed)
	}
	s.metrics.RecordSweep(JobExpiry, outcomeOK)
	return nil
}

// RunCompletion выполняет один обход завершившихся бронирований
func (s *Sweeper) RunCompletion(ctx context.Context) error {
	completed, err := s.completion.CompleteEnded(ctx, s.cfg.BatchSize)
	if err != nil {
		s.logger.Error("Sweeper: completion run failed: %v", err)
		s.metrics.RecordSweep(JobCompletion, outcomeError)
		return err
	}

	if completed > 0 {
		s.logger.Info("Sweeper: completed %d bookings", completed)
	}
	s.metrics.RecordSweep(JobCompletion, outcomeOK)
	return nil
}
