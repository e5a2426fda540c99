package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_DefaultsToEpoch(t *testing.T) {
	c := NewClock(time.Time{})
	assert.True(t, c.Now().Equal(Epoch))
}

func TestClock_Advance(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock(start)

	assert.True(t, c.Advance(time.Minute).Equal(start.Add(time.Minute)))
	assert.True(t, c.Now().Equal(start.Add(time.Minute)))

	c.Advance(-2 * time.Minute)
	assert.True(t, c.Now().Equal(start.Add(-time.Minute)))
}

func TestClock_SetAndAfter(t *testing.T) {
	c := NewClock(Epoch)
	target := Epoch.Add(24 * time.Hour)
	c.Set(target)
	assert.True(t, c.Now().Equal(target))

	exp := c.After(time.Second)
	assert.True(t, exp.Equal(target.Add(time.Second)))
}

func TestClock_ThreadSafe(t *testing.T) {
	c := NewClock(Epoch)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
			_ = c.Now()
		}()
	}
	wg.Wait()

	assert.True(t, c.Now().Equal(Epoch.Add(50*time.Second)))
}

func TestFixedGUID(t *testing.T) {
	g := NewFixedGUID("id-1")
	assert.Equal(t, "id-1", g.Generate())
	assert.Equal(t, "id-1", g.Generate())

	assert.Equal(t, "00000000-0000-0000-0000-000000000000", NewFixedGUID("").Generate())
}
