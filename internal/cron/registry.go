package cron

import "context"

// Job is one unit of scheduled work inside the sweep loop.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a sweep cycle executes, in registration order.
// Nil jobs are silently dropped so call sites can register conditionally.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy so callers cannot mutate the registration order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}
