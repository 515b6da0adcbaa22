package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore().Read()

	assert.Nil(t, s.CPU)
	assert.Nil(t, s.Memory)
	assert.Nil(t, s.Network)
	assert.Empty(t, s.UpdatedAt)
}

func TestStoreWriteReplacesOneField(t *testing.T) {
	st := NewStore()
	st.Write(KindCPU, 12)
	st.Write(KindNetwork, 33.5)

	s := st.Read()
	require.NotNil(t, s.CPU)
	assert.Equal(t, Percent(12), *s.CPU)
	assert.Nil(t, s.Memory)
	require.NotNil(t, s.Network)
	assert.Equal(t, Millisecond(33.5), *s.Network)

	st.Write(KindCPU, 80)
	s2 := st.Read()
	assert.Equal(t, Percent(80), *s2.CPU)
	assert.Equal(t, Millisecond(33.5), *s2.Network)
	assert.Equal(t, Percent(12), *s.CPU, "earlier snapshot must not change")
}

func TestStoreRecordsUpdateTime(t *testing.T) {
	ms := NewStore().(*memStore)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return at }

	ms.Write(KindMemory, 61)

	s := ms.Read()
	assert.Equal(t, at, s.UpdatedAt[KindMemory])
	_, ok := s.UpdatedAt[KindCPU]
	assert.False(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	st := NewStore()

	var wg sync.WaitGroup
	for _, kind := range Kinds {
		wg.Add(1)
		go func(k Kind) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				st.Write(k, float64(i))
			}
		}(kind)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = st.Read()
		}
	}()
	wg.Wait()

	s := st.Read()
	assert.Equal(t, Percent(199), *s.CPU)
	assert.Equal(t, Percent(199), *s.Memory)
	assert.Equal(t, Millisecond(199), *s.Network)
}
