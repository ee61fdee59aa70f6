// Package parallel bounds solve concurrency with a pool of workers, each
// owning its own planner (and therefore its own solver instances), since
// solver state cannot safely be shared between concurrent requests.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jmarsden/flowplan/pkg/network"
	"github.com/jmarsden/flowplan/pkg/plan"
)

// ErrPoolClosed is returned for submissions after Close.
var ErrPoolClosed = errors.New("parallel: solve pool is closed")

// PlannerFunc constructs one worker's planner.
type PlannerFunc func() (*plan.Planner, error)

type solveJob struct {
	ctx  context.Context
	req  *network.Request
	resp chan solveResponse
}

type solveResponse struct {
	result *network.Result
	err    error
}

// SolvePool runs solves on a fixed set of worker goroutines.
type SolvePool struct {
	jobs   chan solveJob
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewSolvePool starts workers goroutines, each with a planner built from
// newPlanner. workers <= 0 means one worker.
func NewSolvePool(workers int, newPlanner PlannerFunc) (*SolvePool, error) {
	if workers <= 0 {
		workers = 1
	}

	pool := &SolvePool{
		jobs: make(chan solveJob, workers*2),
	}

	for i := 0; i < workers; i++ {
		planner, err := newPlanner()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("parallel: building planner for worker %d: %w", i, err)
		}
		pool.wg.Add(1)
		go pool.worker(planner)
	}

	return pool, nil
}

func (p *SolvePool) worker(planner *plan.Planner) {
	defer p.wg.Done()

	for job := range p.jobs {
		result, err := p.runOne(planner, job)
		job.resp <- solveResponse{result: result, err: err}
	}
}

// runOne isolates panic recovery so a bad request cannot take the worker
// down with it.
func (p *SolvePool) runOne(planner *plan.Planner, job solveJob) (result *network.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("parallel: solve panicked: %v", r)
		}
	}()
	return planner.Solve(job.ctx, job.req)
}

// Solve queues the request and waits for its result. It honors the
// context while waiting for a free worker; once a worker picks the job
// up, the solve itself runs to completion.
func (p *SolvePool) Solve(ctx context.Context, req *network.Request) (*network.Result, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPoolClosed
	}
	job := solveJob{ctx: ctx, req: req, resp: make(chan solveResponse, 1)}

	select {
	case p.jobs <- job:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case resp := <-job.resp:
		return resp.result, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting work and waits for in-flight solves to finish.
func (p *SolvePool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
