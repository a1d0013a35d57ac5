package mvu

import "github.com/derekfrye/rusty-golf-sub001/internal/pipeline"

// Msg is the closed set of messages the loop exchanges with run_effect
// (spec §4.7): Start, ContextLoaded, Rendered, Failed.
type Msg interface{ isMsg() }

// MsgStart kicks off the loop.
type MsgStart struct{}

// MsgContextLoaded carries the result of the LoadContext effect.
type MsgContextLoaded struct {
	Context pipeline.ScoreContext
}

// MsgRendered carries the result of the Render effect.
type MsgRendered struct {
	View string
}

// MsgFailed short-circuits the loop (spec §4.7 step 3).
type MsgFailed struct {
	Err error
}

func (MsgStart) isMsg()         {}
func (MsgContextLoaded) isMsg() {}
func (MsgRendered) isMsg()      {}
func (MsgFailed) isMsg()        {}
