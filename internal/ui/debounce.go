package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastDebouncerID int64

// DebouncedMsg carries a value once its debouncer has been quiet for the
// full delay.
type DebouncedMsg struct {
	id    int64
	seq   int
	Value string
}

// Debouncer delays a value until input pauses. Every Trigger supersedes the
// previous one; only the latest tick is accepted.
type Debouncer struct {
	id    int64
	seq   int
	delay time.Duration
}

// NewDebouncer returns a Debouncer with its own id so ticks of different
// debouncers never mix.
func NewDebouncer(delay time.Duration) Debouncer {
	return Debouncer{id: atomic.AddInt64(&lastDebouncerID, 1), delay: delay}
}

// Trigger schedules value for delivery after the delay.
func (d *Debouncer) Trigger(value string) tea.Cmd {
	d.seq++
	id, seq := d.id, d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return DebouncedMsg{id: id, seq: seq, Value: value}
	})
}

// Accept reports whether msg is the latest tick of this debouncer.
func (d *Debouncer) Accept(msg DebouncedMsg) bool {
	return msg.id == d.id && msg.seq == d.seq
}

// Cancel drops any pending tick.
func (d *Debouncer) Cancel() {
	d.seq++
}
