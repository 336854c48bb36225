package debounce

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestOnlyLatestPushSettles(t *testing.T) {
	d := New(0)
	first := d.Push("c")().(SettledMsg)
	second := d.Push("ch")().(SettledMsg)
	third := d.Push("char")().(SettledMsg)

	_, ok := d.Settled(first)
	assert.Check(t, !ok, "stale value settled")
	_, ok = d.Settled(second)
	assert.Check(t, !ok, "stale value settled")

	value, ok := d.Settled(third)
	assert.Check(t, ok)
	assert.Equal(t, value, "char")
	assert.Equal(t, d.Pending(), "char")
}

func TestCancelDropsOutstanding(t *testing.T) {
	d := New(0)
	msg := d.Push("pika")().(SettledMsg)
	d.Cancel()
	_, ok := d.Settled(msg)
	assert.Check(t, !ok)
}

func TestDelayedTickFires(t *testing.T) {
	d := New(10 * time.Millisecond)
	assert.Equal(t, d.Delay(), 10*time.Millisecond)

	start := time.Now()
	msg, ok := d.Push("eevee")().(SettledMsg)
	assert.Check(t, ok)
	assert.Check(t, time.Since(start) >= 10*time.Millisecond)
	value, ok := d.Settled(msg)
	assert.Check(t, ok)
	assert.Equal(t, value, "eevee")
}

func TestLaterPushSupersedesPendingTick(t *testing.T) {
	d := New(10 * time.Millisecond)
	first := d.Push("c")
	second := d.Push("ch")

	stale, ok := first().(SettledMsg)
	assert.Assert(t, ok)
	_, ok = d.Settled(stale)
	assert.Check(t, !ok, "superseded tick settled")

	latest, ok := second().(SettledMsg)
	assert.Assert(t, ok)
	value, ok := d.Settled(latest)
	assert.Check(t, ok)
	assert.Equal(t, value, "ch")
}

func TestNegativeDelayIsZero(t *testing.T) {
	assert.Equal(t, New(-time.Second).Delay(), time.Duration(0))
}
