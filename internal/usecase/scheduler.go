package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"AssetRadar/pkg/config"
	applogger "AssetRadar/pkg/logger"
)

type clockTime struct {
	hour   int
	minute int
}

// Scheduler fires the run trigger at configured wall-clock times daily.
// Firings missed by more than the grace period are skipped; several missed
// firings coalesce into a single catch-up run.
type Scheduler struct {
	times      []clockTime
	grace      time.Duration
	runOnStart bool
	trigger    func()
	logger     *applogger.Logger

	tick   time.Duration
	now    func() time.Time
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(times []string, grace time.Duration, runOnStart bool, trigger func(), l *applogger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		grace:      grace,
		runOnStart: runOnStart,
		trigger:    trigger,
		logger:     l,
		tick:       30 * time.Second,
		now:        time.Now,
	}

	for _, t := range times {
		h, m, err := config.ParseClock(t)
		if err != nil {
			return nil, err
		}
		s.times = append(s.times, clockTime{hour: h, minute: m})
	}
	sort.Slice(s.times, func(i, j int) bool {
		if s.times[i].hour != s.times[j].hour {
			return s.times[i].hour < s.times[j].hour
		}
		return s.times[i].minute < s.times[j].minute
	})

	return s, nil
}

// Start launches the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	if s.runOnStart {
		s.trigger()
	}
	if len(s.times) == 0 {
		return
	}

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	next := s.nextAfter(s.now())
	s.logger.Info("scheduler armed", applogger.String("next", next.Format(time.RFC3339)))

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			if now.Before(next) {
				continue
			}

			if now.Sub(next) <= s.grace {
				s.logger.Info("scheduled run due", applogger.String("due", next.Format(time.RFC3339)))
				s.trigger()
			} else {
				s.logger.Warn("missed firing beyond grace, skipped",
					applogger.String("due", next.Format(time.RFC3339)),
				)
			}

			// Advancing past now coalesces any other missed firings.
			next = s.nextAfter(now)
		}
	}
}

// nextAfter returns the earliest configured firing strictly after t.
func (s *Scheduler) nextAfter(t time.Time) time.Time {
	for _, ct := range s.times {
		candidate := time.Date(t.Year(), t.Month(), t.Day(), ct.hour, ct.minute, 0, 0, t.Location())
		if candidate.After(t) {
			return candidate
		}
	}
	first := s.times[0]
	tomorrow := t.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.hour, first.minute, 0, 0, t.Location())
}
