package state

import (
	"sync"

	"laraconsole/internal/domain"
)

// DefaultMaxLines bounds the transcript ring.
const DefaultMaxLines = 200

// TranscriptLog is an append-only bounded ring of spoken lines with
// dedup-by-id merge semantics for partial-to-final corrections.
type TranscriptLog struct {
	observable

	mu       sync.Mutex
	lines    []domain.TranscriptLine
	maxLines int
	filter   domain.TranscriptFilter
}

func NewTranscriptLog(maxLines int) *TranscriptLog {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &TranscriptLog{maxLines: maxLines, filter: domain.FilterAll}
}

// Add merges in place when a line with the same id already exists, otherwise
// appends and prunes the oldest line past capacity.
func (t *TranscriptLog) Add(line domain.TranscriptLine) {
	t.mu.Lock()
	merged := false
	for i := range t.lines {
		if t.lines[i].ID == line.ID {
			t.lines[i] = line
			merged = true
			break
		}
	}
	if !merged {
		t.lines = append(t.lines, line)
		if len(t.lines) > t.maxLines {
			t.lines = t.lines[1:]
		}
	}
	t.mu.Unlock()

	t.publish()
}

// Update patches text and finality of an existing line; absent ids are
// ignored.
func (t *TranscriptLog) Update(id, text string, partial bool) {
	t.mu.Lock()
	changed := false
	for i := range t.lines {
		if t.lines[i].ID == id {
			t.lines[i].Text = text
			t.lines[i].Partial = partial
			changed = true
			break
		}
	}
	t.mu.Unlock()

	if changed {
		t.publish()
	}
}

// SetFilter selects the view filter.
func (t *TranscriptLog) SetFilter(filter domain.TranscriptFilter) {
	t.mu.Lock()
	t.filter = filter
	t.mu.Unlock()

	t.publish()
}

// Filter returns the active view filter.
func (t *TranscriptLog) Filter() domain.TranscriptFilter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// Clear drops every line.
func (t *TranscriptLog) Clear() {
	t.mu.Lock()
	t.lines = nil
	t.mu.Unlock()

	t.publish()
}

// Lines returns a copy of all lines in insertion order.
func (t *TranscriptLog) Lines() []domain.TranscriptLine {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.TranscriptLine(nil), t.lines...)
}

// View returns the lines passing the active filter. The commands filter keeps
// wake-flagged lines and agent turns.
func (t *TranscriptLog) View() []domain.TranscriptLine {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filter == domain.FilterAll {
		return append([]domain.TranscriptLine(nil), t.lines...)
	}
	var out []domain.TranscriptLine
	for _, line := range t.lines {
		if line.Wake || line.Speaker == "agent" {
			out = append(out, line)
		}
	}
	return out
}

// Len reports the current line count.
func (t *TranscriptLog) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}
