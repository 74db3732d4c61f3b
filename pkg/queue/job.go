package queue

import "context"

// Job is a unit of background work.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string { return j.JobName }

func (j JobFunc) Execute(ctx context.Context) error { return j.Fn(ctx) }
