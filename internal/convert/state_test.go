package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		current State
		status  string
		want    State
	}{
		{name: "created to import waiting", current: StateCreated, status: "waiting", want: StateImportWaiting},
		{name: "created stays on unknown status", current: StateCreated, status: "queued", want: StateCreated},
		{name: "import waiting to uploading", current: StateImportWaiting, status: "uploading", want: StateUploading},
		{name: "uploading to converting", current: StateUploading, status: "processing", want: StateConverting},
		{name: "converting stays while waiting", current: StateConverting, status: "waiting", want: StateConverting},
		{name: "converting to finished", current: StateConverting, status: "finished", want: StateFinished},
		{name: "uploading straight to finished", current: StateUploading, status: "finished", want: StateFinished},
		{name: "error is terminal from created", current: StateCreated, status: "error", want: StateErrored},
		{name: "error is terminal from converting", current: StateConverting, status: "error", want: StateErrored},
		{name: "finished ignores further statuses", current: StateFinished, status: "error", want: StateFinished},
		{name: "errored ignores further statuses", current: StateErrored, status: "finished", want: StateErrored},
		{name: "timed out ignores further statuses", current: StateTimedOut, status: "finished", want: StateTimedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advance(tt.current, tt.status))
		})
	}
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateFinished.Terminal())
	assert.True(t, StateErrored.Terminal())
	assert.True(t, StateTimedOut.Terminal())
	assert.False(t, StateCreated.Terminal())
	assert.False(t, StateConverting.Terminal())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "converting", StateConverting.String())
	assert.Equal(t, "unknown", State(99).String())
}
