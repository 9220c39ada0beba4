package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool(t *testing.T) {
	t.Parallel()

	// --- given ---
	var jobCount, running, peak int32
	SUT := NewPool(3)

	// --- when ---
	for i := 0; i < 10; i++ {
		SUT.Go(context.Background(), func(context.Context) error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&jobCount, 1)
			return nil
		})
	}
	err := SUT.Wait()

	// --- then ---
	assert.NoError(t, err)
	assert.Equal(t, int32(10), jobCount)
	assert.LessOrEqual(t, peak, int32(3))
}

func TestPool_FirstError(t *testing.T) {
	t.Parallel()

	SUT := NewPool(1)
	errFirst := errors.New("first")

	SUT.Go(context.Background(), func(context.Context) error { return errFirst })
	SUT.Go(context.Background(), func(context.Context) error { return errors.New("second") })

	assert.Equal(t, errFirst, SUT.Wait())
}

func TestPool_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	SUT := NewPool(1)

	// the only worker is busy, so Go must give up on ctx
	block := make(chan struct{})
	SUT.Go(context.Background(), func(context.Context) error { <-block; return nil })
	SUT.Go(ctx, func(context.Context) error { return nil })
	close(block)

	assert.ErrorIs(t, SUT.Wait(), context.Canceled)
}
