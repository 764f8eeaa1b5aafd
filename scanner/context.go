package scanner

import (
	"context"
	"sync"

	"github.com/NaleRaphael/blog/api"
)

// Result of a scan.
type Result struct {
	// Files containing at least one full-width space.
	Findings []*api.Finding
	// Entries that could not be checked.
	Errors []*api.EntryError
	// Number of entries read and checked successfully.
	Checked int
}

// Status returns the exit status bits for the result.
func (r *Result) Status() int {
	status := 0
	if len(r.Findings) > 0 {
		status |= api.StatusFindings
	}
	if len(r.Errors) > 0 {
		status |= api.StatusEntryError
	}
	return status
}

// Contains all of the state shared by the checks of one scan.
type scanContext struct {
	ctx         context.Context
	concurrency chan bool
	wg          sync.WaitGroup

	lock   sync.Mutex
	result *Result
}

func newScanContext(ctx context.Context, concurrency int) *scanContext {
	if concurrency < 1 {
		concurrency = 1
	}
	return &scanContext{
		ctx:         ctx,
		concurrency: make(chan bool, concurrency),
		result:      &Result{},
	}
}

// Go runs check for path concurrently, respecting the concurrency limit of the context.
//
// Checks still waiting for a slot when the context is done record the context error instead.
func (s *scanContext) Go(path string, check func(path string) (*api.Finding, error)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case s.concurrency <- true:
			defer func() { <-s.concurrency }()
		case <-s.ctx.Done():
			s.Apply(path, nil, s.ctx.Err())
			return
		}
		if err := s.ctx.Err(); err != nil {
			s.Apply(path, nil, err)
			return
		}
		finding, err := check(path)
		s.Apply(path, finding, err)
	}()
}

// Apply the outcome of checking path to the result.
func (s *scanContext) Apply(path string, finding *api.Finding, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err != nil {
		s.result.Errors = append(s.result.Errors, &api.EntryError{Path: path, Err: err})
		return
	}
	s.result.Checked++
	if finding != nil {
		s.result.Findings = append(s.result.Findings, finding)
	}
}

// Wait for every scheduled check and return the result.
func (s *scanContext) Wait() *Result {
	s.wg.Wait()
	return s.result
}
