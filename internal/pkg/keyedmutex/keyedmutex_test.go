package keyedmutex_test

import (
	"sync"
	"testing"

	"fulfillment/internal/pkg/keyedmutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := keyedmutex.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("SKU-1")
			defer m.Unlock("SKU-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyedMutex_DifferentKeysDoNotContend(t *testing.T) {
	m := keyedmutex.New()

	m.Lock("SKU-1")
	defer m.Unlock("SKU-1")

	require.True(t, m.TryLock("SKU-2"), "a different key must be lockable immediately")
	m.Unlock("SKU-2")
}

func TestKeyedMutex_TryLock(t *testing.T) {
	m := keyedmutex.New()

	require.True(t, m.TryLock("driver-1:2024-06-01"))
	assert.False(t, m.TryLock("driver-1:2024-06-01"), "second TryLock on a held key must fail")
	m.Unlock("driver-1:2024-06-01")
	assert.True(t, m.TryLock("driver-1:2024-06-01"))
	m.Unlock("driver-1:2024-06-01")
}
