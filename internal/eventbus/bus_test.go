package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribe(t *testing.T) {
	b := New[int]()
	a := b.Subscribe(1)
	c := b.Subscribe(0)

	b.Publish(1)
	assert.Equal(t, 1, <-a)
	assert.Equal(t, 1, <-c)

	b.Publish(2)
	b.Publish(3)
	assert.Equal(t, 2, <-a)
	assert.Equal(t, uint64(1), b.Dropped(), "full subscriber misses the event")

	b.Unsubscribe(a)
	_, ok := <-a
	assert.False(t, ok)

	b.Close()
	<-c
	<-c
	_, ok = <-c
	assert.False(t, ok)

	late := b.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
	b.Publish(4)
	b.Close()
}
