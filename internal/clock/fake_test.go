package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeAdvanceFiresInOrder(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewFake(start)

	var fired []string
	var at []time.Time
	c.AfterFunc(3*time.Second, func() { fired = append(fired, "b"); at = append(at, c.Now()) })
	c.AfterFunc(1*time.Second, func() { fired = append(fired, "a"); at = append(at, c.Now()) })
	c.AfterFunc(10*time.Second, func() { fired = append(fired, "c") })

	c.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, []time.Time{start.Add(time.Second), start.Add(3 * time.Second)}, at)
	assert.Equal(t, start.Add(5*time.Second), c.Now())
	assert.Equal(t, 1, c.Pending())
}

func TestFakeStop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop(), "second stop should report already stopped")

	c.Advance(2 * time.Second)
	assert.False(t, called)
	assert.Equal(t, 0, c.Pending())
}

func TestFakeStopAfterFire(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	timer := c.AfterFunc(time.Millisecond, func() {})

	c.Advance(time.Millisecond)

	assert.False(t, timer.Stop())
}

func TestFakeNextDeadline(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFake(start)

	_, ok := c.NextDeadline()
	require.False(t, ok)

	c.AfterFunc(4*time.Second, func() {})
	c.AfterFunc(2*time.Second, func() {})

	next, ok := c.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, start.Add(2*time.Second), next)
}

func TestFakeAdvanceFiresTimersArmedByCallback(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFake(start)

	var at []time.Time
	c.AfterFunc(time.Second, func() {
		at = append(at, c.Now())
		c.AfterFunc(time.Second, func() { at = append(at, c.Now()) })
		c.AfterFunc(time.Minute, func() { at = append(at, c.Now()) })
	})

	c.Advance(5 * time.Second)

	assert.Equal(t, []time.Time{start.Add(time.Second), start.Add(2 * time.Second)}, at)
	assert.Equal(t, 1, c.Pending())
	assert.Equal(t, start.Add(5*time.Second), c.Now())
}

func TestFakeAdvanceSkipsTimersStoppedByCallback(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	var fired []string
	var second Timer
	c.AfterFunc(time.Second, func() {
		fired = append(fired, "first")
		assert.True(t, second.Stop())
	})
	second = c.AfterFunc(2*time.Second, func() { fired = append(fired, "second") })

	c.Advance(3 * time.Second)

	assert.Equal(t, []string{"first"}, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestFakeAdvanceEqualDeadlinesInArmOrder(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	var fired []string
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "b") })

	c.Advance(time.Second)

	assert.Equal(t, []string{"a", "b"}, fired)
}
