package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Lister is the store operation the scheduler repeats.
type Lister interface {
	List(ctx context.Context) error
}

// Scheduler periodically refreshes the record list from the remote store.
type Scheduler struct {
	scheduler *gocron.Scheduler
	lister    Lister
	interval  time.Duration
	timeout   time.Duration
	onRefresh func(error)
}

// New creates a new Scheduler. onRefresh, if set, runs after every refresh.
func New(interval time.Duration, lister Lister, onRefresh func(error)) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		lister:    lister,
		interval:  interval,
		timeout:   30 * time.Second,
		onRefresh: onRefresh,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
// The first refresh runs immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval not set; nothing to schedule")
		return nil
	}

	// Overlapping refreshes would only race each other.
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.lister.List(ctx)
	if err != nil {
		log.Printf("scheduler: refresh failed: %v", err)
	}
	if s.onRefresh != nil {
		s.onRefresh(err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
