/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"sync"

	"chainguard.dev/evalkit/metrics"
	"golang.org/x/sync/errgroup"
)

// Observer receives run lifecycle events from ExecuteMultipleRuns. Methods
// may be called from concurrently executing runs; implementations guard
// their own state.
type Observer interface {
	// RunCompleted fires after a run finishes and is scored.
	RunCompleted(result RunResult)

	// RunFailed fires when a run error is converted into a zero-scored
	// result, with that placeholder result and the cause.
	RunFailed(result RunResult, err error)

	// BatchCompleted fires once, after every run in the batch has finished.
	BatchCompleted(results []RunResult)
}

// multiObserver fans each event out to every observer in parallel.
type multiObserver []Observer

func (m multiObserver) RunCompleted(result RunResult) {
	m.dispatch(func(o Observer) { o.RunCompleted(result) })
}

func (m multiObserver) RunFailed(result RunResult, err error) {
	m.dispatch(func(o Observer) { o.RunFailed(result, err) })
}

func (m multiObserver) BatchCompleted(results []RunResult) {
	m.dispatch(func(o Observer) { o.BatchCompleted(results) })
}

func (m multiObserver) dispatch(fn func(Observer)) {
	var g errgroup.Group
	for _, o := range m {
		if o == nil {
			continue
		}
		g.Go(func() error {
			fn(o)
			return nil
		})
	}
	// Observers have no error path; Wait only synchronizes.
	_ = g.Wait()
}

// Failure pairs a zero-scored placeholder result with the error that caused
// it.
type Failure struct {
	Result RunResult
	Err    error
}

// Collector is an Observer that gathers results and failures for later
// inspection.
type Collector struct {
	mu       sync.Mutex
	results  []RunResult
	failures []Failure
	batches  int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RunCompleted implements Observer.
func (c *Collector) RunCompleted(result RunResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// RunFailed implements Observer.
func (c *Collector) RunFailed(result RunResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, Failure{Result: result, Err: err})
}

// BatchCompleted implements Observer.
func (c *Collector) BatchCompleted([]RunResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches++
}

// Results returns a copy of the successfully scored results observed so far.
func (c *Collector) Results() []RunResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RunResult, len(c.results))
	copy(out, c.results)
	return out
}

// Failures returns a copy of the failures observed so far.
func (c *Collector) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Failure, len(c.failures))
	copy(out, c.failures)
	return out
}

// Batches returns how many batches have completed.
func (c *Collector) Batches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches
}

// progressObserver adapts a progress callback to the Observer interface.
// Failed runs count as progress too.
type progressObserver struct {
	total int
	fn    func(completed, total int)

	mu   sync.Mutex
	done int
}

func newProgressObserver(total int, fn func(completed, total int)) *progressObserver {
	return &progressObserver{total: total, fn: fn}
}

func (p *progressObserver) RunCompleted(RunResult) { p.bump() }

func (p *progressObserver) RunFailed(RunResult, error) { p.bump() }

func (p *progressObserver) BatchCompleted([]RunResult) {}

func (p *progressObserver) bump() {
	p.mu.Lock()
	p.done++
	done := p.done
	p.mu.Unlock()
	p.fn(done, p.total)
}

// MetricsObserver records batch outcomes as Prometheus metrics.
type MetricsObserver struct{}

var _ Observer = MetricsObserver{}

// RunCompleted implements Observer.
func (MetricsObserver) RunCompleted(result RunResult) {
	metrics.RecordRun(result.DefinitionID, result.VariantID, result.Scores.OverallScore, result.Latency)
}

// RunFailed implements Observer.
func (MetricsObserver) RunFailed(result RunResult, _ error) {
	metrics.RecordRunFailure(result.DefinitionID, result.VariantID)
}

// BatchCompleted implements Observer.
func (MetricsObserver) BatchCompleted(results []RunResult) {
	if len(results) == 0 {
		return
	}
	metrics.RecordBatch(results[0].DefinitionID, results[0].VariantID)
}
