package broadcast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bee-counter/internal/model"
	"bee-counter/pkg/bitdecoder"
)

func stateEvent(seq uint64) model.Event {
	return model.NewStateEvent("session", seq, bitdecoder.Decode(seq))
}

func drain(sub *Subscription) []uint64 {
	var seqs []uint64
	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				return seqs
			}
			seqs = append(seqs, e.Seq)
		default:
			return seqs
		}
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBroadcaster(4, zaptest.NewLogger(t))
	b.Publish(stateEvent(1))

	stats := b.Stats()
	assert.Equal(t, 0, stats.Subscribers)
	assert.EqualValues(t, 1, stats.Published)
}

func TestPublishPreservesOrder(t *testing.T) {
	b := NewBroadcaster(8, zaptest.NewLogger(t))
	first := b.Subscribe()
	second := b.Subscribe()
	assert.Equal(t, 2, b.SubscriberCount())

	for seq := uint64(1); seq <= 5; seq++ {
		b.Publish(stateEvent(seq))
	}

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, drain(first))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, drain(second))
}

func TestSlowSubscriberKeepsLatest(t *testing.T) {
	b := NewBroadcaster(3, zaptest.NewLogger(t))
	sub := b.Subscribe()

	for seq := uint64(1); seq <= 10; seq++ {
		b.Publish(stateEvent(seq))
	}

	assert.Equal(t, []uint64{8, 9, 10}, drain(sub))
	assert.EqualValues(t, 7, sub.Dropped())
	assert.EqualValues(t, 7, b.Stats().Dropped)
}

func TestEventCarriesVector(t *testing.T) {
	b := NewBroadcaster(1, zaptest.NewLogger(t))
	sub := b.Subscribe()

	b.Publish(model.NewStateEvent("s1", 1, bitdecoder.Decode(5)))

	e := <-sub.Events()
	require.NotNil(t, e.Vector)
	assert.Equal(t, model.EventState, e.Type)
	assert.Equal(t, []int{29, 31}, e.Vector.Indices())
	require.NotNil(t, e.Value)
	assert.EqualValues(t, 5, *e.Value)
}

func TestCloseUnsubscribes(t *testing.T) {
	b := NewBroadcaster(4, zaptest.NewLogger(t))
	sub := b.Subscribe()
	sub.Close()
	sub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())

	b.Publish(stateEvent(1))
}

func TestShutdown(t *testing.T) {
	b := NewBroadcaster(4, zaptest.NewLogger(t))
	sub := b.Subscribe()

	b.Shutdown()
	b.Shutdown()
	b.Publish(stateEvent(1))

	_, ok := <-sub.Events()
	assert.False(t, ok)
	sub.Close()

	late := b.Subscribe()
	_, ok = <-late.Events()
	assert.False(t, ok)
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	b := NewBroadcaster(2, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := b.Subscribe()
			for j := 0; j < 3; j++ {
				select {
				case <-sub.Events():
				default:
				}
			}
			sub.Close()
		}()
	}

	for seq := uint64(1); seq <= 100; seq++ {
		b.Publish(stateEvent(seq))
	}
	wg.Wait()
	assert.Equal(t, 0, b.SubscriberCount())
}
