package mvu

// update is the pure state transition (spec §4.7): it may mutate model but
// performs no I/O, returning the effects the executor should run next.
func update(model *Model, msg Msg) []Effect {
	switch m := msg.(type) {
	case MsgStart:
		return []Effect{EffectLoadContext{}}

	case MsgContextLoaded:
		model.Context = &m.Context
		return []Effect{EffectRender{ViewKind: model.viewKind()}}

	case MsgRendered:
		model.Rendered = m.View
		return nil

	case MsgFailed:
		model.Err = m.Err
		return nil

	default:
		return nil
	}
}
