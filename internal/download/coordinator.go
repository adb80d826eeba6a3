// Package download runs cancellable, progress-reporting model pulls as
// background jobs decoupled from the request that started them.
package download

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ThatCatDev/modelgate/internal/ollama"
)

// ErrPullInProgress is returned when a pull is requested for a model
// that already has an active job. The second transfer is never started.
var ErrPullInProgress = errors.New("pull already in progress for this model")

// progressInterval rate-limits progress delivery so watchers are not
// overwhelmed by per-chunk backend updates.
const progressInterval = 2 * time.Second

// Puller is the slice of the gateway client the coordinator consumes.
type Puller interface {
	PullStream(ctx context.Context, model string) (io.ReadCloser, error)
}

// Coordinator owns the set of active pull jobs, at most one per model
// name. Safe for concurrent use.
type Coordinator struct {
	puller   Puller
	interval time.Duration

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(puller Puller) *Coordinator {
	return &Coordinator{
		puller:   puller,
		interval: progressInterval,
		jobs:     make(map[string]*Job),
	}
}

// Start begins pulling the model in the background and returns
// immediately with a job handle. A second start for a model whose job
// is still active is rejected with ErrPullInProgress.
func (c *Coordinator) Start(model string) (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, active := c.jobs[model]; active {
		return nil, ErrPullInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		ID:     uuid.New().String(),
		Model:  model,
		cancel: cancel,
		events: make(chan Progress, 16),
		done:   make(chan struct{}),
	}
	c.jobs[model] = job

	go c.run(ctx, job)
	return job, nil
}

// Get returns the active job for a model, if any.
func (c *Coordinator) Get(model string) (*Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[model]
	return job, ok
}

// Cancel requests cancellation of the active job for a model. It
// reports whether such a job existed.
func (c *Coordinator) Cancel(model string) bool {
	job, ok := c.Get(model)
	if ok {
		job.Cancel()
	}
	return ok
}

func (c *Coordinator) run(ctx context.Context, job *Job) {
	err := c.pull(ctx, job)

	c.mu.Lock()
	delete(c.jobs, job.Model)
	c.mu.Unlock()

	switch {
	case ctx.Err() != nil:
		log.Printf("pull cancelled model=%s", job.Model)
		job.finish(StateCancelled, nil)
	case err != nil:
		log.Printf("pull failed model=%s error=%v", job.Model, err)
		job.finish(StateFailed, err)
	default:
		log.Printf("pull completed model=%s", job.Model)
		job.finish(StateCompleted, nil)
	}
}

// pull consumes the backend's streamed pull progress. Between updates
// it checks the job context so cancellation takes effect at the next
// progress boundary.
func (c *Coordinator) pull(ctx context.Context, job *Job) error {
	stream, err := c.puller.PullStream(ctx, job.Model)
	if err != nil {
		return err
	}
	defer stream.Close()

	var lastEmit time.Time
	var lastStatus string

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var update ollama.PullProgress
		if err := json.Unmarshal(scanner.Bytes(), &update); err != nil {
			continue
		}
		if update.Error != "" {
			return fmt.Errorf("backend pull error: %s", update.Error)
		}
		if update.Status == "" {
			continue
		}

		progress := Progress{
			Status:    update.Status,
			Completed: update.Completed,
			Total:     update.Total,
		}
		if update.Total > 0 {
			progress.Percent = int(update.Completed * 100 / update.Total)
		}
		job.setProgress(progress)

		// Rate-limit delivery; phase changes always go through.
		if update.Status == lastStatus && time.Since(lastEmit) < c.interval {
			continue
		}
		lastStatus = update.Status
		lastEmit = time.Now()

		select {
		case job.events <- progress:
		default:
			// Watcher is not keeping up; drop the update.
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read pull stream: %w", err)
	}
	return nil
}
