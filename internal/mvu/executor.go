package mvu

import (
	"context"

	"github.com/derekfrye/rusty-golf-sub001/internal/pipeline"
)

// Deps are the loop's two suspension points. Both are single-threaded:
// the executor never has more than one in flight at a time (spec §4.7
// "Scheduling").
type Deps struct {
	LoadContext func(ctx context.Context, model Model) (pipeline.ScoreContext, error)
	Render      func(ctx context.Context, model Model, viewKind string) (string, error)
}

// Run drives the MVU loop to completion (spec §4.7). The effect stack is
// LIFO: update's returned effects are pushed in order and the top of the
// stack runs next, so an update that returns [A, B] runs B before A.
func Run(ctx context.Context, model Model, deps Deps) (Model, error) {
	stack := update(&model, MsgStart{})

	for len(stack) > 0 {
		eff := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		msg := runEffect(ctx, model, eff, deps)

		if failed, ok := msg.(MsgFailed); ok {
			update(&model, failed)
			return model, failed.Err
		}

		stack = append(stack, update(&model, msg)...)
	}

	return model, nil
}

func runEffect(ctx context.Context, model Model, eff Effect, deps Deps) Msg {
	switch e := eff.(type) {
	case EffectLoadContext:
		scoreCtx, err := deps.LoadContext(ctx, model)
		if err != nil {
			return MsgFailed{Err: err}
		}
		return MsgContextLoaded{Context: scoreCtx}

	case EffectRender:
		view, err := deps.Render(ctx, model, e.ViewKind)
		if err != nil {
			return MsgFailed{Err: err}
		}
		return MsgRendered{View: view}

	case EffectNoop:
		return MsgRendered{}

	default:
		return MsgFailed{Err: errUnknownEffect}
	}
}
