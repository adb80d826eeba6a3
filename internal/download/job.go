package download

import "sync"

// State is the lifecycle state of a pull job.
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "running"
	}
}

// Progress is one progress update of a running pull. When the backend
// reports no byte counts (manifest/verify phases), only Status is set.
type Progress struct {
	Status    string `json:"status"`
	Completed int64  `json:"completed,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Percent   int    `json:"percent,omitempty"`
}

// Job is a handle to one background pull. Progress arrives on Events;
// the channel closes when the job reaches a terminal state, after which
// State reports how it ended.
type Job struct {
	ID    string
	Model string

	cancel func()
	events chan Progress
	done   chan struct{}

	mu    sync.Mutex
	state State
	err   error
	last  Progress
}

// Events returns the progress stream. It is closed on termination;
// a cancelled job stops reporting progress immediately.
func (j *Job) Events() <-chan Progress { return j.events }

// Done returns a channel closed when the job terminates.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests cooperative cancellation. The transfer stops after
// the coordinator's next progress check and the job terminates as
// StateCancelled, never as completed or failed.
func (j *Job) Cancel() { j.cancel() }

// State returns the job's current state and, for StateFailed, the
// terminal error.
func (j *Job) State() (State, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state, j.err
}

// LastProgress returns the most recently observed progress update.
func (j *Job) LastProgress() Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}

func (j *Job) setProgress(p Progress) {
	j.mu.Lock()
	j.last = p
	j.mu.Unlock()
}

func (j *Job) finish(state State, err error) {
	j.mu.Lock()
	j.state = state
	j.err = err
	j.mu.Unlock()
	close(j.events)
	close(j.done)
}
