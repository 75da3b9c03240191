package report

import "sync"

type JobStatus string

const (
	StatusRunning  JobStatus = "Running"
	StatusComplete JobStatus = "Complete"
	StatusError    JobStatus = "Error"
)

// Tracker maps report tokens to job lifecycle state. A job is created
// Running, moved exactly once to Complete or Error by the orchestrator and
// removed the first time a caller observes a terminal state. Poll does the
// terminal read-and-delete under one lock, so two concurrent fetches for the
// same token cannot both claim it.
type Tracker struct {
	mu   sync.Mutex
	jobs map[string]JobStatus
}

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]JobStatus)}
}

func (t *Tracker) Create(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = StatusRunning
}

// Finish records the terminal state. A token that was already consumed or
// never created is left alone.
func (t *Tracker) Finish(id string, s JobStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.jobs[id]; ok {
		t.jobs[id] = s
	}
}

// Status reads the current state without consuming it.
func (t *Tracker) Status(id string) (JobStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.jobs[id]
	return s, ok
}

// Poll reads the current state, removing the entry when it is terminal.
// Running entries stay tracked. ok=false means the token is unknown here;
// callers fall back to checking the persisted rows.
func (t *Tracker) Poll(id string) (JobStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.jobs[id]
	if !ok {
		return "", false
	}
	if s != StatusRunning {
		delete(t.jobs, id)
	}
	return s, true
}
