package usecase

import (
	"sync"
	"time"

	"AssetRadar/internal/domain/models"
	applogger "AssetRadar/pkg/logger"
)

// StatusTracker holds the live orchestrator state exposed over HTTP.
type StatusTracker struct {
	mu        sync.Mutex
	state     models.RunState
	step      int
	startedAt time.Time
	recorder  *applogger.Recorder
	now       func() time.Time
}

func NewStatusTracker(recorder *applogger.Recorder) *StatusTracker {
	return &StatusTracker{
		state:    models.RunIdle,
		recorder: recorder,
		now:      time.Now,
	}
}

func (s *StatusTracker) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.RunRunning
	s.step = models.StepInitialize
	s.startedAt = s.now()
}

func (s *StatusTracker) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = step
}

func (s *StatusTracker) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.RunCompleted
}

func (s *StatusTracker) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.RunFailed
}

// Snapshot returns the current status with up to n recent log lines.
func (s *StatusTracker) Snapshot(n int) models.RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.RunStatus{
		State:    s.state,
		Step:     s.step,
		StepName: models.StepName(s.step),
	}
	if !s.startedAt.IsZero() {
		status.StartedAt = s.startedAt
		if s.state == models.RunRunning {
			status.ElapsedSec = s.now().Sub(s.startedAt).Seconds()
		}
	}
	if s.recorder != nil {
		status.RecentLogs = s.recorder.RecentLines(n)
	}
	return status
}
