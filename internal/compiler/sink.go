package compiler

// ChannelSink forwards events into a channel, letting a UI goroutine
// (internal/ui's bubbletea model) consume progress without the compiler
// package knowing anything about terminals.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emitStage(sink ProgressSink, stage Stage, status Status, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err})
}
