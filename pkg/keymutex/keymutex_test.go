package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithLock_SerializesSameKey(t *testing.T) {
	km := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.WithLock("loan-1", func() {
				counter++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLock_DistinctKeysDoNotBlock(t *testing.T) {
	km := New()
	km.Lock("a")
	defer km.Unlock("a")

	done := make(chan struct{})
	go func() {
		km.WithLock("b", func() {})
		close(done)
	}()
	<-done
}

func TestUnlock_ReleasesMapEntry(t *testing.T) {
	km := New()
	km.Lock("a")
	km.Unlock("a")
	assert.Empty(t, km.locks)
}
