// Package tracing lets components report the tasks they perform to tracers
// that are attached as hooks.
package tracing

import (
	"github.com/sarchlab/vmsim/sim"
)

// Positions at which task events reach the hooks of a domain.
var (
	HookPosTaskStart = &sim.HookPos{Name: "TaskStart"}
	HookPosTaskStep  = &sim.HookPos{Name: "TaskStep"}
	HookPosTaskEnd   = &sim.HookPos{Name: "TaskEnd"}
)

// StartTask announces that domain started working on a task. The task is
// located at the domain.
func StartTask(
	id string,
	parentID string,
	domain sim.NamedHookable,
	kind string,
	what string,
	detail any,
) {
	if domain == nil {
		panic("domain must not be nil")
	}

	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Location: domain.Name(),
		Detail:   detail,
	}
	task.mustBeStartable()

	notify(domain, HookPosTaskStart, task)
}

// AddTaskStep records that the task reached a milestone, such as a TLB miss.
func AddTaskStep(id string, domain sim.NamedHookable, what string) {
	if domain.NumHooks() == 0 {
		return
	}

	notify(domain, HookPosTaskStep, Task{
		ID:    id,
		Steps: []TaskStep{{What: what}},
	})
}

// EndTask announces that the task is complete.
func EndTask(id string, domain sim.NamedHookable) {
	if domain.NumHooks() == 0 {
		return
	}

	notify(domain, HookPosTaskEnd, Task{ID: id})
}

func notify(domain sim.NamedHookable, pos *sim.HookPos, task Task) {
	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   task,
	})
}
