package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []ID

	obs := ObserverFunc(func(bufferID string, id ID) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, id)
	})

	d := NewDispatcher(obs, nil)
	defer d.Close()

	d.Post("buf-1", Buffering)
	d.Post("buf-1", Playing)
	d.Post("buf-1", Underrun)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []ID{Buffering, Playing, Underrun}, got)
}

func TestDispatcherWithNilObserverDropsSilently(t *testing.T) {
	d := NewDispatcher(nil, nil)
	defer d.Close()

	assert.NotPanics(t, func() {
		d.Post("buf-1", Playing)
	})
}

func TestEventIDString(t *testing.T) {
	assert.Equal(t, "BUFFERING", Buffering.String())
	assert.Equal(t, "UNDERRUN", Underrun.String())
	assert.Equal(t, "PLAYING", Playing.String())
}
