package download

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// fakePuller streams canned NDJSON progress lines. With block set it
// holds the stream open after the lines until the context is cancelled.
type fakePuller struct {
	lines    []string
	block    bool
	startErr error
}

func (p *fakePuller) PullStream(ctx context.Context, model string) (io.ReadCloser, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	pr, pw := io.Pipe()
	go func() {
		for _, line := range p.lines {
			if _, err := io.WriteString(pw, line+"\n"); err != nil {
				return
			}
		}
		if p.block {
			<-ctx.Done()
			pw.CloseWithError(ctx.Err())
			return
		}
		pw.Close()
	}()
	return pr, nil
}

func waitDone(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not terminate")
	}
}

func TestPullCompletes(t *testing.T) {
	puller := &fakePuller{lines: []string{
		`{"status":"pulling manifest"}`,
		`{"status":"downloading","completed":50,"total":200}`,
		`{"status":"success"}`,
	}}
	c := NewCoordinator(puller)

	job, err := c.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}
	if job.ID == "" {
		t.Error("job must get an ID")
	}

	var events []Progress
	for p := range job.Events() {
		events = append(events, p)
	}

	state, jobErr := job.State()
	if state != StateCompleted || jobErr != nil {
		t.Fatalf("state = %s err = %v, want completed", state, jobErr)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[1].Percent != 25 {
		t.Errorf("Percent = %d, want 25", events[1].Percent)
	}

	// The finished job is gone; the model can be pulled again.
	if _, active := c.Get("llama3"); active {
		t.Error("completed job still registered")
	}
}

func TestDuplicatePullRejected(t *testing.T) {
	puller := &fakePuller{block: true}
	c := NewCoordinator(puller)

	job, err := c.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Start("llama3"); !errors.Is(err, ErrPullInProgress) {
		t.Errorf("expected ErrPullInProgress, got %v", err)
	}
	// A different model is unaffected.
	other, err := c.Start("mistral")
	if err != nil {
		t.Errorf("unrelated model rejected: %v", err)
	}

	c.Cancel("llama3")
	c.Cancel("mistral")
	waitDone(t, job)
	waitDone(t, other)

	// After termination the same model can be started again.
	if _, err := c.Start("llama3"); err != nil {
		t.Errorf("restart after cancel rejected: %v", err)
	}
	c.Cancel("llama3")
}

func TestCancelledPullIsNeverCompleted(t *testing.T) {
	puller := &fakePuller{
		lines: []string{`{"status":"downloading","completed":10,"total":100}`},
		block: true,
	}
	c := NewCoordinator(puller)

	job, err := c.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}

	// Let the first progress line arrive, then cancel.
	select {
	case <-job.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no progress arrived")
	}
	if !c.Cancel("llama3") {
		t.Fatal("Cancel found no active job")
	}
	waitDone(t, job)

	state, jobErr := job.State()
	if state != StateCancelled {
		t.Fatalf("state = %s, want cancelled", state)
	}
	if jobErr != nil {
		t.Errorf("cancelled job must carry no error, got %v", jobErr)
	}
}

func TestBackendErrorFailsJob(t *testing.T) {
	puller := &fakePuller{lines: []string{
		`{"status":"pulling manifest"}`,
		`{"error":"pull model manifest: file does not exist"}`,
	}}
	c := NewCoordinator(puller)

	job, err := c.Start("nosuchmodel")
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)

	state, jobErr := job.State()
	if state != StateFailed {
		t.Fatalf("state = %s, want failed", state)
	}
	if jobErr == nil || !strings.Contains(jobErr.Error(), "file does not exist") {
		t.Errorf("jobErr = %v", jobErr)
	}
}

func TestStartFailureFailsJob(t *testing.T) {
	puller := &fakePuller{startErr: errors.New("backend unreachable")}
	c := NewCoordinator(puller)

	job, err := c.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, job)

	if state, _ := job.State(); state != StateFailed {
		t.Errorf("state = %s, want failed", state)
	}
}

func TestProgressRateLimited(t *testing.T) {
	puller := &fakePuller{lines: []string{
		`{"status":"downloading","completed":10,"total":100}`,
		`{"status":"downloading","completed":20,"total":100}`,
		`{"status":"downloading","completed":30,"total":100}`,
		`{"status":"downloading","completed":40,"total":100}`,
		`{"status":"verifying sha256 digest"}`,
	}}
	c := NewCoordinator(puller)
	c.interval = time.Hour // only phase changes get through

	job, err := c.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}

	var events []Progress
	for p := range job.Events() {
		events = append(events, p)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events (one per phase), got %d: %+v", len(events), events)
	}
	if events[0].Status != "downloading" || events[1].Status != "verifying sha256 digest" {
		t.Errorf("unexpected phases: %+v", events)
	}
	// The suppressed updates still land in the job's last progress.
	if last := job.LastProgress(); last.Status != "verifying sha256 digest" {
		t.Errorf("LastProgress = %+v", last)
	}
}

func TestMalformedProgressLinesSkipped(t *testing.T) {
	puller := &fakePuller{lines: []string{
		`not json at all`,
		`{"status":"downloading","completed":100,"total":100}`,
		`{}`,
		`{"status":"success"}`,
	}}
	c := NewCoordinator(puller)

	job, err := c.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}

	var events []Progress
	for p := range job.Events() {
		events = append(events, p)
	}

	if state, _ := job.State(); state != StateCompleted {
		t.Fatalf("state = %s, want completed", state)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d: %+v", len(events), events)
	}
}
