package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestConsumeSelfDeletedOnce(t *testing.T) {
	v := NewVolatile()
	id := snowflake.ID(123456789)

	assert.False(t, v.ConsumeSelfDeleted(id), "unmarked id must not be consumable")

	v.MarkSelfDeleted(id)
	assert.True(t, v.ConsumeSelfDeleted(id))
	assert.False(t, v.ConsumeSelfDeleted(id), "a mark is consumed at most once")
}

func TestConsumeSelfDeletedConcurrent(t *testing.T) {
	v := NewVolatile()
	id := snowflake.ID(42)
	v.MarkSelfDeleted(id)

	var consumed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v.ConsumeSelfDeleted(id) {
				consumed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), consumed.Load(), "exactly one consumer must win")
}

func TestTicketTracking(t *testing.T) {
	v := NewVolatile()
	thread := snowflake.ID(1)
	opener := snowflake.ID(2)

	_, ok := v.TicketOpener(thread)
	assert.False(t, ok)

	v.TrackTicket(thread, opener)
	got, ok := v.TicketOpener(thread)
	assert.True(t, ok)
	assert.Equal(t, opener, got)

	v.ForgetTicket(thread)
	_, ok = v.TicketOpener(thread)
	assert.False(t, ok)
}
