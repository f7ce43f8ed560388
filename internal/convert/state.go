// Package convert produces PDF output from rendered DOCX buffers through an
// external job-based conversion service.
package convert

// State enumerates the lifecycle of one conversion job. The transition
// function is pure so the protocol can be unit-tested without timers or a
// live service.
type State int

const (
	StateCreated State = iota
	StateImportWaiting
	StateUploading
	StateConverting
	StateFinished
	StateErrored
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateImportWaiting:
		return "import_waiting"
	case StateUploading:
		return "uploading"
	case StateConverting:
		return "converting"
	case StateFinished:
		return "finished"
	case StateErrored:
		return "errored"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether the job can make no further progress.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateErrored || s == StateTimedOut
}

// Advance maps a polled service status onto the current state. An "error"
// status is terminal from any state. Unrecognized statuses leave the state
// unchanged, which keeps polling loops tolerant of intermediate statuses the
// service may add.
func Advance(current State, status string) State {
	if current.Terminal() {
		return current
	}
	if status == "error" {
		return StateErrored
	}

	switch current {
	case StateCreated:
		if status == "waiting" {
			return StateImportWaiting
		}
	case StateImportWaiting:
		if status == "uploading" || status == "processing" {
			return StateUploading
		}
	case StateUploading, StateConverting:
		switch status {
		case "finished":
			return StateFinished
		case "waiting", "processing":
			return StateConverting
		}
	}
	return current
}
