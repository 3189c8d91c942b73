package tracing

import "github.com/sarchlab/vmsim/sim"

// A Tracer receives the task events of the domains it is attached to.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}

// CollectTrace attaches tracer to domain.
func CollectTrace(domain sim.NamedHookable, tracer Tracer) {
	domain.AcceptHook(traceHook{tracer: tracer})
}

type traceHook struct {
	tracer Tracer
}

func (h traceHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(task)
	case HookPosTaskStep:
		h.tracer.StepTask(task)
	case HookPosTaskEnd:
		h.tracer.EndTask(task)
	}
}
