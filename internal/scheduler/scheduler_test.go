package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhasesRunInDeclaredOrder(t *testing.T) {
	s := New(20)
	var order []Phase
	for p := PhaseIngress; p < numPhases; p++ {
		phase := p
		s.Register(phase, func(ctx context.Context, tick uint64, dt time.Duration) {
			order = append(order, phase)
		})
	}

	s.runTick(context.Background(), 50*time.Millisecond)

	require.Len(t, order, int(numPhases))
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i], "phase %v ran before %v", order[i-1], order[i])
	}
}

func TestSystemsWithinPhaseRunInRegistrationOrder(t *testing.T) {
	s := New(20)
	var order []int
	for i := 0; i < 3; i++ {
		n := i
		s.Register(PhaseEventLoop, func(ctx context.Context, tick uint64, dt time.Duration) {
			order = append(order, n)
		})
	}
	s.runTick(context.Background(), 0)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTickCounterAdvances(t *testing.T) {
	s := New(20)
	require.Zero(t, s.Tick())
	s.runTick(context.Background(), 0)
	s.runTick(context.Background(), 0)
	assert.Equal(t, uint64(2), s.Tick())
}

func TestOnTickHookObservesEveryTick(t *testing.T) {
	s := New(20)
	ticks := 0
	s.OnTick(func(tick uint64, d time.Duration) { ticks++ })
	s.runTick(context.Background(), 0)
	s.runTick(context.Background(), 0)
	assert.Equal(t, 2, ticks)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s := New(100)
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)
	s.Register(PhaseIngress, func(ctx context.Context, tick uint64, dt time.Duration) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop never ran a phase")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop did not stop on cancel")
	}
}
