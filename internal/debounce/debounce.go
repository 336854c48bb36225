// Package debounce delays search input until typing pauses, using Bubble Tea
// ticks tagged with a generation counter.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the quiet period before a value settles.
const DefaultDelay = 300 * time.Millisecond

// SettledMsg is delivered when a tick for Value fires. Only the message
// carrying the latest Tag is accepted by Settled.
type SettledMsg struct {
	Tag   int
	Value string
}

// Debouncer tracks the most recent pushed value. It is owned by a single
// Bubble Tea model and is not safe for concurrent use.
type Debouncer struct {
	delay time.Duration
	tag   int
	value string
}

// New returns a Debouncer. A negative delay is treated as zero.
func New(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Push records value and restarts the quiet period.
func (d *Debouncer) Push(value string) tea.Cmd {
	d.tag++
	d.value = value
	msg := SettledMsg{Tag: d.tag, Value: value}
	if d.delay == 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d.delay, func(time.Time) tea.Msg { return msg })
}

// Settled reports the value carried by msg when it is the latest push.
func (d *Debouncer) Settled(msg SettledMsg) (string, bool) {
	if msg.Tag != d.tag {
		return "", false
	}
	return msg.Value, true
}

// Pending returns the value most recently pushed.
func (d *Debouncer) Pending() string {
	return d.value
}

// Cancel drops any outstanding tick.
func (d *Debouncer) Cancel() {
	d.tag++
}
