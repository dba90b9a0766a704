package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// JobSweepOverdue - имя задачи пересчета просрочек
const JobSweepOverdue = "sweep-overdue"

// OverdueSweeper пересчитывает просрочку активных договоров на текущую дату
type OverdueSweeper interface {
	SweepOverdueNow(ctx context.Context) ([]*domain.Rental, error)
}

// Scheduler запускает периодические задачи по cron-расписанию
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	sweeper  OverdueSweeper
	timeout  time.Duration
	logger   logger.Logger
}

// Config - настройки планировщика
type Config struct {
	OverdueSweepSpec string         // стандартное cron-выражение из пяти полей
	Location         *time.Location // временная зона расписания
	Timeout          time.Duration  // ограничение на один запуск задачи
}

// New создает планировщик и регистрирует задачи
func New(cfg Config, sweeper OverdueSweeper, log logger.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		location: loc,
		sweeper:  sweeper,
		timeout:  timeout,
		logger:   log,
	}

	if _, err := s.cron.AddFunc(cfg.OverdueSweepSpec, func() { s.RunJob(JobSweepOverdue) }); err != nil {
		return nil, fmt.Errorf("failed to register %s job: %w", JobSweepOverdue, err)
	}

	log.Info("Cron jobs registered", map[string]interface{}{
		"sweep_spec": cfg.OverdueSweepSpec,
		"timezone":   loc.String(),
	})

	return s, nil
}

// RunJob выполняет задачу по имени один раз. panic внутри задачи не останавливает планировщик.
func (s *Scheduler) RunJob(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Cron job panicked", map[string]interface{}{
				"job":   name,
				"panic": r,
				"stack": string(debug.Stack()),
			})
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	switch name {
	case JobSweepOverdue:
		start := time.Now()
		overdue, err := s.sweeper.SweepOverdueNow(ctx)
		if err != nil {
			s.logger.Error("Cron job failed", map[string]interface{}{
				"job":   name,
				"error": err.Error(),
			})
			return err
		}
		s.logger.Info("Cron job finished", map[string]interface{}{
			"job":      name,
			"overdue":  len(overdue),
			"duration": time.Since(start).String(),
		})
		return nil
	default:
		return fmt.Errorf("unknown job: %s", name)
	}
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop останавливает планировщик и ждет завершения выполняющихся задач
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

// NextRun возвращает время следующего запуска пересчета просрочек
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(time.Now().In(s.location))
}
