package pipeline

import "sync"

// RunRegistry enforces at most one active processing run per video within
// this process. The conditional state updates in the repository remain the
// backstop against writers in other processes.
type RunRegistry struct {
	mu     sync.Mutex
	active map[string]string // videoID -> runID
}

// NewRunRegistry creates an empty registry
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{
		active: make(map[string]string),
	}
}

// Acquire claims the video for a run. Returns false if another run is
// already active for the video.
func (r *RunRegistry) Acquire(videoID, runID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.active[videoID]; held {
		return false
	}
	r.active[videoID] = runID
	return true
}

// Release frees the video if the given run holds it
func (r *RunRegistry) Release(videoID, runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active[videoID] == runID {
		delete(r.active, videoID)
	}
}

// ActiveRun returns the run id currently holding the video, if any
func (r *RunRegistry) ActiveRun(videoID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID, held := r.active[videoID]
	return runID, held
}
