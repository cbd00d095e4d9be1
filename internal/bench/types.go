// Package bench runs named array workloads through call sites and reports
// the storage work they caused.
package bench

import (
	"time"

	"strata/internal/observ"
	"strata/internal/storage"
)

// Status captures the progress state of a workload.
type Status string

const (
	// StatusQueued indicates the workload is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the workload is running.
	StatusWorking Status = "working"
	// StatusDone indicates the workload finished.
	StatusDone Status = "done"
	// StatusError indicates the workload failed.
	StatusError Status = "error"
)

// Event reports progress for one workload.
type Event struct {
	Workload string
	Status   Status
	Err      error
	Elapsed  time.Duration
}

// Sink consumes progress events.
type Sink interface {
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

// Result summarizes one workload run.
type Result struct {
	Workload string
	Rep      storage.Representation
	Length   int
	Counters observ.Counters
	Elapsed  time.Duration
	Sites    []storage.SiteProfile
}
