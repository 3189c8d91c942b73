package tracing

// A TaskStep is a milestone reached while a task is processed.
type TaskStep struct {
	Time uint64 `json:"time"`
	What string `json:"what"`
}

// A Task is a unit of work that a component performs, such as translating
// one address.
type Task struct {
	ID        string     `json:"id"`
	ParentID  string     `json:"parent_id"`
	Kind      string     `json:"kind"`
	What      string     `json:"what"`
	Location  string     `json:"location"`
	StartTime uint64     `json:"start_time"`
	EndTime   uint64     `json:"end_time"`
	Steps     []TaskStep `json:"steps"`
	Detail    any        `json:"-"`
}

func (t Task) mustBeStartable() {
	switch {
	case t.ID == "":
		panic("task id must not be empty")
	case t.Kind == "":
		panic("task kind must not be empty")
	case t.What == "":
		panic("task what must not be empty")
	case t.Location == "":
		panic("domain must have a name")
	}
}

// TaskFilter selects the tasks a tracer keeps.
type TaskFilter func(t Task) bool

// TasksOfKind keeps the tasks of the given kind.
func TasksOfKind(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}
