package ui

import (
	"testing"
	"time"
)

func TestDebouncerAcceptsLatestOnly(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	first := d.Trigger("a")
	second := d.Trigger("ab")

	m1 := first().(DebouncedMsg)
	m2 := second().(DebouncedMsg)
	if d.Accept(m1) {
		t.Error("superseded tick accepted")
	}
	if !d.Accept(m2) {
		t.Error("latest tick rejected")
	}
	if m2.Value != "ab" {
		t.Errorf("value = %q", m2.Value)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	msg := d.Trigger("x")().(DebouncedMsg)
	d.Cancel()
	if d.Accept(msg) {
		t.Error("cancelled tick accepted")
	}
}

func TestDebouncersAreIndependent(t *testing.T) {
	a := NewDebouncer(time.Millisecond)
	b := NewDebouncer(time.Millisecond)
	msg := a.Trigger("x")().(DebouncedMsg)
	b.Trigger("y")
	if b.Accept(msg) {
		t.Error("tick crossed debouncers")
	}
	if !a.Accept(msg) {
		t.Error("own tick rejected")
	}
}
