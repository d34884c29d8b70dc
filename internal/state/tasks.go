package state

import (
	"sync"
	"time"

	"laraconsole/internal/domain"
)

// TaskEvictionGrace is how long a terminal task stays visible before removal.
const TaskEvictionGrace = 5 * time.Second

// TaskList is the flat list of proposed side-effect actions. Terminal tasks
// are evicted after a grace period; like answer staleness, the one-shot timer
// is an optimization and SweepExpired is the guarantee.
type TaskList struct {
	observable

	mu      sync.Mutex
	tasks   []domain.Task
	evictAt map[string]int64

	autoRun bool

	nowMs     func() int64
	afterFunc func(d time.Duration, fn func()) *time.Timer
}

// NewTaskList builds a task list. When autoRun is set, newly proposed tasks
// start in running status instead of queued (alternate-mode auto-approval).
func NewTaskList(autoRun bool) *TaskList {
	return &TaskList{
		evictAt:   make(map[string]int64),
		autoRun:   autoRun,
		nowMs:     func() int64 { return time.Now().UnixMilli() },
		afterFunc: time.AfterFunc,
	}
}

// Add appends a proposed task. The initial status follows the approval
// policy unless the task already carries one.
func (l *TaskList) Add(task domain.Task) {
	if task.Status == "" {
		task.Status = domain.TaskQueued
		if l.autoRun {
			task.Status = domain.TaskRunning
		}
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	l.publish()
}

// UpdateStatus replaces a task's status in place. Terminal statuses schedule
// eviction after the grace period.
func (l *TaskList) UpdateStatus(taskID string, status domain.TaskStatus, detail string) {
	l.mu.Lock()
	found := false
	for i := range l.tasks {
		if l.tasks[i].TaskID == taskID {
			l.tasks[i].Status = status
			if detail != "" {
				l.tasks[i].Detail = detail
			}
			found = true
			break
		}
	}
	if found && status.Terminal() {
		l.evictAt[taskID] = l.nowMs() + TaskEvictionGrace.Milliseconds()
	}
	l.mu.Unlock()

	if !found {
		return
	}
	if status.Terminal() {
		l.afterFunc(TaskEvictionGrace, func() {
			l.SweepExpired(l.nowMs())
		})
	}
	l.publish()
}

// Remove deletes a task immediately.
func (l *TaskList) Remove(taskID string) {
	l.mu.Lock()
	removed := l.removeLocked(taskID)
	l.mu.Unlock()

	if removed {
		l.publish()
	}
}

func (l *TaskList) removeLocked(taskID string) bool {
	for i := range l.tasks {
		if l.tasks[i].TaskID == taskID {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			delete(l.evictAt, taskID)
			return true
		}
	}
	return false
}

// LinkAnswer attaches a completed answer to the task and forces success.
func (l *TaskList) LinkAnswer(taskID, answerID string) {
	l.mu.Lock()
	found := false
	for i := range l.tasks {
		if l.tasks[i].TaskID == taskID {
			l.tasks[i].AnswerID = answerID
			l.tasks[i].Status = domain.TaskSuccess
			found = true
			break
		}
	}
	if found {
		l.evictAt[taskID] = l.nowMs() + TaskEvictionGrace.Milliseconds()
	}
	l.mu.Unlock()

	if !found {
		return
	}
	l.afterFunc(TaskEvictionGrace, func() {
		l.SweepExpired(l.nowMs())
	})
	l.publish()
}

// SweepExpired removes every terminal task whose grace period has elapsed.
func (l *TaskList) SweepExpired(nowMs int64) {
	l.mu.Lock()
	changed := false
	kept := l.tasks[:0]
	for _, task := range l.tasks {
		at, scheduled := l.evictAt[task.TaskID]
		if scheduled && nowMs > at {
			delete(l.evictAt, task.TaskID)
			changed = true
			continue
		}
		kept = append(kept, task)
	}
	l.tasks = kept
	l.mu.Unlock()

	if changed {
		l.publish()
	}
}

// ClearCompleted prunes all terminal tasks at once, skipping the grace wait.
func (l *TaskList) ClearCompleted() {
	l.mu.Lock()
	changed := false
	kept := l.tasks[:0]
	for _, task := range l.tasks {
		if task.Status.Terminal() {
			delete(l.evictAt, task.TaskID)
			changed = true
			continue
		}
		kept = append(kept, task)
	}
	l.tasks = kept
	l.mu.Unlock()

	if changed {
		l.publish()
	}
}

// Tasks returns a copy of the list.
func (l *TaskList) Tasks() []domain.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Task(nil), l.tasks...)
}

// Get returns the task with the given id.
func (l *TaskList) Get(taskID string) (domain.Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.tasks {
		if l.tasks[i].TaskID == taskID {
			return l.tasks[i], true
		}
	}
	return domain.Task{}, false
}
