package currency

import (
	"context"
	"time"

	"exchpoint/internal/adapters"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = 5 * time.Minute

type Scheduler struct {
	registry   *Service
	rateClient adapters.RatesClient
	spreadBps  int64
	// -----
	refreshJobDuration time.Duration
	sched              gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if refreshErr := RefreshRates(jobCtx, execID, s.registry, s.rateClient, s.spreadBps); refreshErr != nil {
			logrus.Errorf("Rate refresh job %s failed: %v", execID, refreshErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.refreshJobDuration),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(registry *Service, rateClient adapters.RatesClient, spreadBps int64, refreshJobDuration time.Duration) *Scheduler {
	if refreshJobDuration <= 0 {
		refreshJobDuration = defaultRefreshInterval
	}
	return &Scheduler{
		registry:           registry,
		rateClient:         rateClient,
		spreadBps:          spreadBps,
		refreshJobDuration: refreshJobDuration,
	}
}
