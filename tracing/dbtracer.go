package tracing

import (
	"sync"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/sim"
)

// Tables written by a DBTracer.
const (
	TaskTable     = "trace"
	TaskStepTable = "trace_steps"
)

// TaskEntry is the row stored for every completed task.
type TaskEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime uint64
	EndTime   uint64
}

// TaskStepEntry is the row stored for every step of a completed task.
type TaskStepEntry struct {
	TaskID string
	Time   uint64
	What   string
}

// DBTracer is a tracer that stores tasks into a data recorder. A task is
// written when it ends. Tasks that never end are not written.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	tracingTasks map[string]*Task
}

// NewDBTracer creates a new DBTracer and the tables it writes to.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TaskTable, TaskEntry{})
	dataRecorder.CreateTable(TaskStepTable, TaskStepEntry{})

	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]*Task),
	}

	return t
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task.mustBeStartable()

	task.StartTime = t.timeTeller.CurrentTime()
	t.tracingTasks[task.ID] = &task
}

// StepTask marks a step of a task.
func (t *DBTracer) StepTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	for _, step := range task.Steps {
		step.Time = t.timeTeller.CurrentTime()
		originalTask.Steps = append(originalTask.Steps, step)
	}
}

// EndTask marks the end of a task and writes it.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	originalTask.EndTime = t.timeTeller.CurrentTime()
	t.writeTask(originalTask)
}

func (t *DBTracer) writeTask(task *Task) {
	t.backend.InsertData(TaskTable, TaskEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Location,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
	})

	for _, step := range task.Steps {
		t.backend.InsertData(TaskStepTable, TaskStepEntry{
			TaskID: task.ID,
			Time:   step.Time,
			What:   step.What,
		})
	}
}

// Terminate drops the tasks that have not ended and flushes the recorder.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]*Task)
	t.backend.Flush()
}
