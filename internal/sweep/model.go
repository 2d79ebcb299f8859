package sweep

import "time"

// Status is the outcome for a single source file.
type Status string

const (
	StatusCreated   Status = "created"
	StatusAppended  Status = "appended"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult records what happened to one source file.
type FileResult struct {
	File   string `json:"file"`
	Status Status `json:"status"`
	Output string `json:"output,omitempty"`
	Added  int    `json:"added,omitempty"`
	Note   string `json:"note,omitempty"`
}

// LastRun summarizes the most recent sweep.
// Matches .jestspeck/run/last-run.json.
type LastRun struct {
	RunID     string       `json:"run_id"`
	Status    string       `json:"status"` // "pass" or "fail"
	Root      string       `json:"root"`
	StartedAt time.Time    `json:"started_at"`
	Files     []FileResult `json:"files"`
	Failed    []string     `json:"failed"`
}

// Counts tallies results by status.
func (l *LastRun) Counts() map[string]int {
	counts := make(map[string]int)
	for _, f := range l.Files {
		counts[string(f.Status)]++
	}
	return counts
}
