package driver

import "time"

// Stage describes a pipeline step a file goes through.
type Stage string

const (
	// StageLoad reads the file from disk.
	StageLoad Stage = "load"
	// StageParse ingests the text into the basket.
	StageParse Stage = "parse"
	// StageLower transforms the module into the target tree.
	StageLower Stage = "lower"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running for the file.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished without errors.
	StatusDone Status = "done"
	// StatusError indicates the file produced errors.
	StatusError Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration

	// Set when lowering finishes.
	Module string
	Cached bool
	Errors int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; workers report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

func emitAll(sink ProgressSink, files []string, stage Stage, status Status) {
	if sink == nil {
		return
	}
	for _, f := range files {
		sink.OnEvent(Event{File: f, Stage: stage, Status: status})
	}
}
