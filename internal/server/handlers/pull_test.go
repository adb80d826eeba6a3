package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ThatCatDev/modelgate/internal/download"
	"github.com/ThatCatDev/modelgate/pkg/api"
)

// stubPuller streams canned NDJSON progress lines.
type stubPuller struct {
	lines []string
	block bool
}

func (p *stubPuller) PullStream(ctx context.Context, model string) (io.ReadCloser, error) {
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

func parseSSE(t *testing.T, body string) []api.PullEvent {
	t.Helper()
	var events []api.PullEvent
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev api.PullEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("bad SSE payload %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestPullStreamsProgressAndTerminalState(t *testing.T) {
	puller := &stubPuller{lines: []string{
		`{"status":"pulling manifest"}`,
		`{"status":"downloading","completed":100,"total":400}`,
		`{"status":"success"}`,
	}}
	h := &PullHandler{Pulls: download.NewCoordinator(puller)}

	req := httptest.NewRequest(http.MethodPost, "/api/pull", strings.NewReader(`{"model":"llama3"}`))
	rec := httptest.NewRecorder()
	h.Start(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) < 2 {
		t.Fatalf("expected progress plus terminal event, got %+v", events)
	}
	last := events[len(events)-1]
	if last.Status != "completed" {
		t.Errorf("terminal status = %q, want completed", last.Status)
	}
	for _, ev := range events {
		if ev.Status == "downloading" && ev.Percent != 25 {
			t.Errorf("Percent = %d, want 25", ev.Percent)
		}
	}
}

func TestPullReportsBackendFailure(t *testing.T) {
	puller := &stubPuller{lines: []string{
		`{"error":"pull model manifest: file does not exist"}`,
	}}
	h := &PullHandler{Pulls: download.NewCoordinator(puller)}

	req := httptest.NewRequest(http.MethodPost, "/api/pull", strings.NewReader(`{"model":"nosuchmodel"}`))
	rec := httptest.NewRecorder()
	h.Start(rec, req)

	events := parseSSE(t, rec.Body.String())
	if len(events) == 0 {
		t.Fatal("no events")
	}
	last := events[len(events)-1]
	if last.Status != "failed" {
		t.Errorf("terminal status = %q, want failed", last.Status)
	}
	if !strings.Contains(last.Error, "file does not exist") {
		t.Errorf("Error = %q", last.Error)
	}
}

func TestPullRequiresModel(t *testing.T) {
	h := &PullHandler{Pulls: download.NewCoordinator(&stubPuller{})}

	req := httptest.NewRequest(http.MethodPost, "/api/pull", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Start(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPullConflictOnDuplicate(t *testing.T) {
	pulls := download.NewCoordinator(&stubPuller{block: true})
	h := &PullHandler{Pulls: pulls}

	if _, err := pulls.Start("llama3"); err != nil {
		t.Fatal(err)
	}
	defer pulls.Cancel("llama3")

	req := httptest.NewRequest(http.MethodPost, "/api/pull", strings.NewReader(`{"model":"llama3"}`))
	rec := httptest.NewRecorder()
	h.Start(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var resp api.ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error.Code != "pull_in_progress" {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestPullCancel(t *testing.T) {
	pulls := download.NewCoordinator(&stubPuller{block: true})
	h := &PullHandler{Pulls: pulls}

	job, err := pulls.Start("llama3")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/pull/llama3", nil)
	req.SetPathValue("model", "llama3")
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	<-job.Done()
	if state, _ := job.State(); state != download.StateCancelled {
		t.Errorf("state = %s, want cancelled", state)
	}
}

func TestPullCancelWithoutActiveJob(t *testing.T) {
	h := &PullHandler{Pulls: download.NewCoordinator(&stubPuller{})}

	req := httptest.NewRequest(http.MethodDelete, "/api/pull/llama3", nil)
	req.SetPathValue("model", "llama3")
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
