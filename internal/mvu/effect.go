package mvu

// Effect is the closed set of effects update may return (spec §4.7):
// LoadContext, Render, Noop.
type Effect interface{ isEffect() }

// EffectLoadContext runs the refresh pipeline for the model's event/year.
type EffectLoadContext struct{}

// EffectRender renders the loaded context as ViewKind ("json" or "html").
type EffectRender struct {
	ViewKind string
}

// EffectNoop does nothing beyond yielding an empty Rendered message when
// executed. update never returns it: after Rendered it returns no effects,
// which ends the loop.
type EffectNoop struct{}

func (EffectLoadContext) isEffect() {}
func (EffectRender) isEffect()      {}
func (EffectNoop) isEffect()        {}
