package executor

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/restprobe/restprobe/internal/assertion"
	"github.com/restprobe/restprobe/internal/models"
)

// DefaultConcurrency bounds the worker pool when the caller does not choose.
const DefaultConcurrency = 5

// EventType represents the type of batch event
type EventType int

const (
	// EventStarting indicates a test is about to start
	EventStarting EventType = iota
	// EventCompleted indicates a test has completed
	EventCompleted
)

// TestEvent represents an event during batch execution
type TestEvent struct {
	Type       EventType
	Definition models.TestDefinition
	Result     *models.TestExecutionResult // nil for Starting events
	Index      int                         // position in the input batch
	Total      int                         // batch size
}

// OnTestEvent is a callback function for batch events. It may be invoked
// from multiple workers concurrently.
type OnTestEvent func(event TestEvent)

// Config holds batch execution settings.
type Config struct {
	Concurrency int     // bounded worker pool size
	RateLimit   float64 // max requests per second across the batch (0 = unlimited)
}

// DefaultConfig returns the default batch configuration.
func DefaultConfig() Config {
	return Config{Concurrency: DefaultConcurrency}
}

// Orchestrator runs batches of independent tests. Tests never see each
// other: a transport failure, malformed definition, or evaluator problem in
// one test is captured in that test's slot and the rest of the batch runs
// to completion.
type Orchestrator struct {
	executor *Executor
	config   Config
	limiter  *rate.Limiter
	log      *logrus.Logger
	onEvent  OnTestEvent
}

// NewOrchestrator creates an orchestrator on top of an executor.
func NewOrchestrator(exec *Executor, config Config, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	return &Orchestrator{
		executor: exec,
		config:   config,
		limiter:  limiter,
		log:      log,
	}
}

// OnEvent registers a progress callback for subsequent RunBatch calls.
func (o *Orchestrator) OnEvent(fn OnTestEvent) {
	o.onEvent = fn
}

// RunBatch executes every test with bounded concurrency and returns exactly
// one result per input test, in input order. The only outward error is
// caller misuse (invalid concurrency); everything data-dependent lands in
// the per-test results.
func (o *Orchestrator) RunBatch(ctx context.Context, tests []models.TestDefinition) (models.BatchResult, error) {
	if o.config.Concurrency <= 0 {
		return models.BatchResult{}, fmt.Errorf("invalid concurrency %d: must be positive", o.config.Concurrency)
	}

	total := len(tests)
	o.log.WithFields(logrus.Fields{
		"tests":       total,
		"concurrency": o.config.Concurrency,
	}).Info("batch starting")

	// Each worker writes only to its own preallocated slot, so the results
	// slice needs no synchronization.
	results := make([]models.TestExecutionResult, total)
	jobs := make(chan int, total)

	var wg sync.WaitGroup
	workers := min(o.config.Concurrency, max(total, 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if o.limiter != nil {
					o.limiter.Wait(ctx)
				}
				results[i] = o.runOne(ctx, tests[i], i, total)
			}
		}()
	}

	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := models.Summarize(results)
	o.log.WithFields(logrus.Fields{
		"total":  summary.Total,
		"passed": summary.Passed,
		"failed": summary.Failed,
	}).Info("batch completed")

	return models.BatchResult{Results: results, Summary: summary}, nil
}

// runOne executes a single test end to end. A panic anywhere below is
// captured in this test's result so the batch invariant (N in, N out)
// holds no matter what.
func (o *Orchestrator) runOne(ctx context.Context, def models.TestDefinition, index, total int) (result models.TestExecutionResult) {
	def.Normalize()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("test", def.Name).Errorf("test panicked: %v", r)
			result = models.TestExecutionResult{
				Definition:     def,
				Assertions:     []models.AssertionResult{},
				TransportError: fmt.Sprintf("internal error: %v", r),
				Elapsed:        time.Since(start),
			}
		}
		if o.onEvent != nil {
			o.onEvent(TestEvent{Type: EventCompleted, Definition: def, Result: &result, Index: index, Total: total})
		}
	}()

	if o.onEvent != nil {
		o.onEvent(TestEvent{Type: EventStarting, Definition: def, Index: index, Total: total})
	}

	snap, err := o.executor.Execute(ctx, def)
	if err != nil {
		o.log.WithFields(logrus.Fields{
			"test":  def.Name,
			"error": err,
		}).Warn("test transport failure")
		return models.TestExecutionResult{
			Definition:     def,
			Assertions:     []models.AssertionResult{},
			TransportError: err.Error(),
			Elapsed:        time.Since(start),
		}
	}

	suite := assertion.RunSuite(snap, def.Assertions)
	return models.TestExecutionResult{
		Definition: def,
		Snapshot:   snap,
		Assertions: suite.Results,
		Passed:     suite.Passed,
		Elapsed:    time.Since(start),
	}
}
